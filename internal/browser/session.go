// Package browser управляет жизненным циклом headless-сессий playwright.
// Каждая сессия — отдельный экземпляр движка с одной страницей; сессии не переиспользуются.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"scriptRunner/internal/logger"
)

func NewManager(cfg Config, log *logger.Zap) *Manager {
	// Единый потолок таймаутов, чтобы ни один шаг скрипта не завис навсегда
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 60 * time.Second
	}

	return &Manager{cfg: cfg, log: log}
}

func browserArgs() []string {
	return []string{
		"--no-sandbox",
	}
}

// Acquire запускает свежий экземпляр движка и открывает одну страницу.
// При ошибке возвращает частично инициализированную сессию — Release обязан её принять.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	s := &Session{navigateTimeout: m.cfg.NavigateTimeout}

	pw, err := playwright.Run()
	if err != nil {
		return s, fmt.Errorf("запуск playwright: %w", err)
	}
	s.pw = pw

	var browserType playwright.BrowserType
	switch m.cfg.Engine {
	case "firefox":
		browserType = pw.Firefox
	default:
		browserType = pw.Chromium
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
		Args:     browserArgs(),
	})
	if err != nil {
		return s, fmt.Errorf("запуск браузера %s: %w", m.cfg.Engine, err)
	}
	s.browser = b

	page, err := b.NewPage()
	if err != nil {
		return s, fmt.Errorf("открытие страницы: %w", err)
	}
	s.page = page

	page.SetDefaultTimeout(float64(m.cfg.Timeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(m.cfg.NavigateTimeout.Milliseconds()))

	return s, nil
}

// Release закрывает страницу, браузер и драйвер независимо друг от друга.
// Безопасен для nil и частично инициализированных сессий. Ошибки закрытия
// логируются и проглатываются — очистка не должна порождать ошибку для вызывающего.
func (m *Manager) Release(s *Session) {
	if s == nil {
		return
	}

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			m.log.Warn("Ошибка закрытия страницы", zap.Error(err))
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			m.log.Warn("Ошибка закрытия браузера", zap.Error(err))
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			m.log.Warn("Ошибка остановки playwright", zap.Error(err))
		}
		s.pw = nil
	}
}
