package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scriptRunner/internal/logger"
	"scriptRunner/internal/report"
)

// ReportRepository реализует report.Store поверх Postgres.
type ReportRepository struct {
	db  *gorm.DB
	log *logger.Zap
}

func NewReportRepository(db *gorm.DB, log *logger.Zap) *ReportRepository {
	return &ReportRepository{db: db, log: log}
}

func (r *ReportRepository) Put(ctx context.Context, rep *report.Report) error {
	stripped := *rep
	stripped.AIAnalysis = nil

	body, err := json.Marshal(&stripped)
	if err != nil {
		return fmt.Errorf("сериализация отчета: %w", err)
	}

	row := ReportRow{
		ID:              rep.ID,
		Status:          string(rep.Status),
		ExecutionTimeMs: rep.ExecutionTimeMs,
		Timestamp:       rep.Timestamp,
		ReportJSON:      string(body),
	}

	if rep.AIAnalysis != nil {
		analysis, err := json.Marshal(rep.AIAnalysis)
		if err != nil {
			return fmt.Errorf("сериализация анализа: %w", err)
		}
		s := string(analysis)
		row.AnalysisJSON = &s
	}

	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *ReportRepository) Get(ctx context.Context, id string) (*report.Report, error) {
	var row ReportRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrNotFound
		}
		return nil, fmt.Errorf("чтение отчета %s: %w", id, err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(row.ReportJSON), &rep); err != nil {
		return nil, fmt.Errorf("разбор отчета %s: %w", id, err)
	}

	if row.AnalysisJSON != nil {
		var a report.Analysis
		if err := json.Unmarshal([]byte(*row.AnalysisJSON), &a); err != nil {
			return nil, fmt.Errorf("разбор анализа %s: %w", id, err)
		}
		rep.AIAnalysis = &a
	}

	return &rep, nil
}

func (r *ReportRepository) List(ctx context.Context) ([]report.Summary, error) {
	var rows []ReportRow
	err := r.db.WithContext(ctx).
		Select("id", "status", "execution_time_ms", "timestamp").
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("чтение списка отчетов: %w", err)
	}

	summaries := make([]report.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, report.Summary{
			ID:              row.ID,
			Status:          report.Status(row.Status),
			ExecutionTimeMs: row.ExecutionTimeMs,
			Timestamp:       row.Timestamp,
		})
	}

	if len(summaries) == 0 {
		r.log.Debug("Хранилище отчетов пусто", zap.String("backend", "postgres"))
	}

	return summaries, nil
}
