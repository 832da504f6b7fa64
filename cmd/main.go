package main

import (
	"context"

	"go.uber.org/zap"

	"scriptRunner/internal/analyzer"
	"scriptRunner/internal/browser"
	"scriptRunner/internal/config"
	"scriptRunner/internal/database"
	"scriptRunner/internal/engine"
	"scriptRunner/internal/logger"
	"scriptRunner/internal/migrations"
	"scriptRunner/internal/report"
	"scriptRunner/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var store report.Store
	switch cfg.Reports.Backend {
	case "postgres":
		if err := migrations.Run(cfg, log); err != nil {
			log.Fatal("Ошибка миграций", zap.Error(err))
		}
		db, err := database.New(cfg.Database, log)
		if err != nil {
			log.Fatal("Ошибка подключения к БД", zap.Error(err))
		}
		defer db.Close(log)
		store = database.NewReportRepository(db.DB, log)
	default:
		store = report.NewFileStore(cfg.Reports.Dir, log)
	}

	an := analyzer.New(analyzer.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.AnalysisTimeout,
		Enabled:     cfg.OpenAI.AnalysisEnabled,
	}, log, cfg.OpenAI.RequestsPerMinute)

	sessions := browser.NewManager(browser.Config{
		Engine:          cfg.Browser.Engine,
		Headless:        cfg.Browser.Headless,
		Timeout:         cfg.Browser.Timeout,
		NavigateTimeout: cfg.Browser.NavigateTimeout,
	}, log)

	eng := engine.New(engine.Config{
		ScreenshotEnabled: cfg.Reports.Screenshot,
		AIAnalysisEnabled: cfg.OpenAI.AnalysisEnabled,
		ScreenshotDir:     cfg.Reports.Dir + "/screenshots",
	}, engine.NewBrowserSessions(sessions), an, store, log)

	srv := server.New(cfg, log, eng, store)
	if err := srv.Run(context.Background()); err != nil {
		log.Fatal("Ошибка сервера", zap.Error(err))
	}
}
