package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"scriptRunner/internal/logger"
)

var ErrNotFound = errors.New("отчет не найден")

// Store — контракт хранилища отчетов. Put вызывается ровно один раз на попытку,
// после того как известен итоговый статус, и до возврата отчета вызывающему.
type Store interface {
	Put(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context) ([]Summary, error)
}

// FileStore хранит отчеты на диске: <dir>/<id>/report.json.
// Результат анализа пишется отдельным файлом analysis.json и подмердживается при чтении.
type FileStore struct {
	dir string
	log *logger.Zap
}

func NewFileStore(dir string, log *logger.Zap) *FileStore {
	return &FileStore{dir: dir, log: log}
}

const (
	reportFile   = "report.json"
	analysisFile = "analysis.json"
)

func (s *FileStore) Put(ctx context.Context, r *Report) error {
	reportDir := filepath.Join(s.dir, r.ID)
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return fmt.Errorf("создание каталога отчета: %w", err)
	}

	// Отчет и анализ пишутся раздельно
	stripped := *r
	stripped.AIAnalysis = nil

	data, err := json.MarshalIndent(&stripped, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация отчета: %w", err)
	}
	if err := os.WriteFile(filepath.Join(reportDir, reportFile), data, 0o644); err != nil {
		return fmt.Errorf("запись отчета: %w", err)
	}

	if r.AIAnalysis != nil {
		data, err := json.MarshalIndent(r.AIAnalysis, "", "  ")
		if err != nil {
			return fmt.Errorf("сериализация анализа: %w", err)
		}
		if err := os.WriteFile(filepath.Join(reportDir, analysisFile), data, 0o644); err != nil {
			return fmt.Errorf("запись анализа: %w", err)
		}
	}

	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id, reportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("чтение отчета %s: %w", id, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("разбор отчета %s: %w", id, err)
	}

	// Анализ может отсутствовать — это не ошибка
	adata, err := os.ReadFile(filepath.Join(s.dir, id, analysisFile))
	if err == nil {
		var a Analysis
		if err := json.Unmarshal(adata, &a); err != nil {
			return nil, fmt.Errorf("разбор анализа %s: %w", id, err)
		}
		r.AIAnalysis = &a
	}

	return &r, nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("чтение каталога отчетов: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name(), reportFile))
		if err != nil {
			s.log.Warn("Нечитаемый отчет пропущен", zap.String("id", entry.Name()), zap.Error(err))
			continue
		}

		var sum Summary
		if err := json.Unmarshal(data, &sum); err != nil {
			s.log.Warn("Поврежденный отчет пропущен", zap.String("id", entry.Name()), zap.Error(err))
			continue
		}
		summaries = append(summaries, sum)
	}

	// Свежие отчеты первыми
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})

	return summaries, nil
}
