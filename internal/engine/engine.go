// Package engine оркестрирует одну попытку выполнения скрипта: сессия браузера,
// песочница, скриншот, анализ ошибки и сохранение отчета. Попытка — единственная
// граница, видимая вызывающему: она всегда возвращает отчет и никогда не падает.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"scriptRunner/internal/logger"
	"scriptRunner/internal/report"
	"scriptRunner/internal/sandbox"
)

// Session — то, что движок требует от сессии браузера.
type Session interface {
	sandbox.Page
	Screenshot(ctx context.Context, path string) error
	Ops() []string
}

// Sessions выдает и освобождает сессии. Release обязан быть безопасен
// для nil и частично инициализированных сессий.
type Sessions interface {
	Acquire(ctx context.Context) (Session, error)
	Release(s Session)
}

// Analyzer строит диагностический разбор ошибки. Никогда не возвращает ошибку.
type Analyzer interface {
	Analyze(ctx context.Context, execErr error, script string, logs []string) *report.Analysis
}

type Config struct {
	ScreenshotEnabled bool
	AIAnalysisEnabled bool
	ScreenshotDir     string
}

// Options — параметры одной попытки. Nil-поля означают «по конфигурации».
type Options struct {
	Screenshot *bool               `json:"screenshot,omitempty"`
	AIAnalysis *bool               `json:"ai_analysis,omitempty"`
	Context    sandbox.ExecContext `json:"context,omitempty"`
}

type Engine struct {
	cfg      Config
	sessions Sessions
	analyzer Analyzer
	store    report.Store
	log      *logger.Zap
}

func New(cfg Config, sessions Sessions, analyzer Analyzer, store report.Store, log *logger.Zap) *Engine {
	return &Engine{
		cfg:      cfg,
		sessions: sessions,
		analyzer: analyzer,
		store:    store,
		log:      log,
	}
}

// Execute выполняет одну попытку. Порядок внутри попытки фиксирован:
// идентификатор → сессия → скрипт → скриншот → сохранение → освобождение сессии.
// Освобождение выполняется безусловно, ровно один раз, при любом исходе.
func (e *Engine) Execute(ctx context.Context, script string, opts Options) *report.Report {
	start := time.Now()

	// Идентификатор назначается до любых побочных эффектов: отчет должен
	// существовать, даже если упадет само получение сессии
	rep := &report.Report{
		ID:        report.NewID(),
		Timestamp: start.UTC(),
	}

	sess, err := e.sessions.Acquire(ctx)
	defer e.sessions.Release(sess)

	var result any
	if err != nil {
		// Ошибка получения сессии — обычная ошибка выполнения, не особый случай
		err = fmt.Errorf("ошибка подготовки сессии: %w", err)
	} else {
		result, err = sandbox.Run(ctx, script, sess, opts.Context)
	}

	if err != nil {
		rep.Status = report.StatusError
		rep.Error = &report.ExecError{
			Message: err.Error(),
			Trace:   strings.Join(opsOf(sess), "\n"),
		}
		if e.analysisEnabled(opts) {
			rep.AIAnalysis = e.analyzer.Analyze(ctx, err, script, opsOf(sess))
		}
	} else {
		rep.Status = report.StatusSuccess
		rep.Result = result
		if e.screenshotEnabled(opts) && sess != nil {
			e.capture(ctx, sess, rep)
		}
	}

	rep.ExecutionTimeMs = time.Since(start).Milliseconds()

	// Отчет сохраняется до возврата вызывающему; недоступное хранилище
	// деградирует до неполной истории, но не роняет попытку
	if perr := e.store.Put(ctx, rep); perr != nil {
		e.log.Error("Ошибка сохранения отчета", zap.String("id", rep.ID), zap.Error(perr))
	}

	e.log.Info("Попытка завершена",
		zap.String("id", rep.ID),
		zap.String("status", string(rep.Status)),
		zap.Int64("execution_time_ms", rep.ExecutionTimeMs),
	)

	return rep
}

func (e *Engine) capture(ctx context.Context, sess Session, rep *report.Report) {
	path := filepath.Join(e.cfg.ScreenshotDir, rep.ID+".png")
	if err := os.MkdirAll(e.cfg.ScreenshotDir, 0o755); err != nil {
		e.log.Warn("Каталог скриншотов недоступен", zap.Error(err))
		return
	}
	if err := sess.Screenshot(ctx, path); err != nil {
		// Неудачный скриншот не роняет успешную попытку
		e.log.Warn("Ошибка снятия скриншота", zap.String("id", rep.ID), zap.Error(err))
		return
	}
	rep.Screenshot = path
}

func (e *Engine) screenshotEnabled(opts Options) bool {
	if opts.Screenshot != nil {
		return *opts.Screenshot
	}
	return e.cfg.ScreenshotEnabled
}

func (e *Engine) analysisEnabled(opts Options) bool {
	if opts.AIAnalysis != nil {
		return *opts.AIAnalysis
	}
	return e.cfg.AIAnalysisEnabled
}

func opsOf(sess Session) []string {
	if sess == nil {
		return nil
	}
	return sess.Ops()
}
