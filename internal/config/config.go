package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	App        App
	Logger     Logger
	OpenAI     OpenAI
	Browser    Browser
	Reports    Reports
	Database   Database
	Migrations Migrations
}

type App struct {
	Host string
	Port string
}

type Logger struct {
	Env   string
	Level string
}

type OpenAI struct {
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float32
	AnalysisTimeout   time.Duration
	AnalysisEnabled   bool
	RequestsPerMinute int
}

type Browser struct {
	Engine          string // chromium или firefox
	Headless        bool
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

type Reports struct {
	Dir        string
	Backend    string // file или postgres
	Screenshot bool
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type Migrations struct {
	Path string
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		App: App{
			Host: env("APP_HOST", "0.0.0.0"),
			Port: env("APP_PORT", "8080"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAI{
			APIKey:            os.Getenv("OPENAI_API_KEY"),
			Model:             env("OPENAI_MODEL", "gpt-4o"),
			MaxTokens:         envInt("OPENAI_MAX_TOKENS", 2000),
			Temperature:       0.3,
			AnalysisTimeout:   envDuration("AI_ANALYSIS_TIMEOUT", 30*time.Second),
			AnalysisEnabled:   envBoolDefault("AI_ANALYSIS_ENABLED", true),
			RequestsPerMinute: envInt("OPENAI_RPM", 60),
		},
		Browser: Browser{
			Engine:          env("BROWSER_ENGINE", "chromium"),
			Headless:        envBoolDefault("BROWSER_HEADLESS", true),
			Timeout:         envDuration("BROWSER_TIMEOUT", 60*time.Second),
			NavigateTimeout: envDuration("BROWSER_NAVIGATE_TIMEOUT", 60*time.Second),
		},
		Reports: Reports{
			Dir:        env("REPORTS_DIR", "./reports"),
			Backend:    env("REPORTS_BACKEND", "file"),
			Screenshot: envBoolDefault("SCREENSHOT_ENABLED", true),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// envBoolDefault возвращает defaultValue, если переменная не задана.
// Любое значение кроме true/1/yes трактуется как false.
func envBoolDefault(key string, defaultValue bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	return v == "true" || v == "1" || v == "yes"
}
