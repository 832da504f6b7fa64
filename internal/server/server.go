package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scriptRunner/internal/config"
	"scriptRunner/internal/engine"
	"scriptRunner/internal/logger"
	"scriptRunner/internal/report"
)

// Executor — единственная точка входа движка выполнения.
type Executor interface {
	Execute(ctx context.Context, script string, opts engine.Options) *report.Report
}

type Server struct {
	cfg   *config.Cfg
	log   *logger.Zap
	exec  Executor
	store report.Store
}

func New(cfg *config.Cfg, log *logger.Zap, exec Executor, store report.Store) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		exec:  exec,
		store: store,
	}
}

type executeRequest struct {
	Script  string         `json:"script" binding:"required"`
	Options engine.Options `json:"options"`
}

// Router собирает маршруты. Выделен из Run для тестов.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Простейший лог-мидлвар
	r.Use(func(c *gin.Context) {
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Выполнить скрипт. Отклоняется только запрос без скрипта;
	// любой исход попытки возвращается как отчет с кодом 200
	r.POST("/api/execute", func(c *gin.Context) {
		var req executeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "поле script обязательно"})
			return
		}

		rep := s.exec.Execute(c.Request.Context(), req.Script, req.Options)
		c.JSON(http.StatusOK, rep)
	})

	// Список отчетов, свежие первыми
	r.GET("/api/reports", func(c *gin.Context) {
		summaries, err := s.store.List(c.Request.Context())
		if err != nil {
			s.log.Error("Ошибка чтения списка отчетов", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ошибка хранилища"})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})

	// Отчет по идентификатору
	r.GET("/api/reports/:id", func(c *gin.Context) {
		rep, err := s.store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, report.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "отчет не найден"})
				return
			}
			s.log.Error("Ошибка чтения отчета", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ошибка хранилища"})
			return
		}
		c.JSON(http.StatusOK, rep)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.App.Host, s.cfg.App.Port)
	s.log.Info("Сервер запущен", zap.String("addr", addr))
	return s.Router().Run(addr)
}
