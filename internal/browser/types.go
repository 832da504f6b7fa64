package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"scriptRunner/internal/logger"
)

type Config struct {
	Engine          string // chromium или firefox
	Headless        bool
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

// Session — один запущенный экземпляр браузера с одной страницей.
// Принадлежит ровно одной попытке выполнения и уничтожается до её завершения.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	navigateTimeout time.Duration

	ops []string // журнал операций для анализа ошибок
}

// Manager управляет жизненным циклом сессий: одна сессия на попытку, без пула.
type Manager struct {
	cfg Config
	log *logger.Zap
}
