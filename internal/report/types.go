// Package report определяет модель отчета о выполнении скрипта и хранилище отчетов.
// Отчет создается ровно один раз на каждую попытку выполнения и неизменяем после записи.
package report

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Report — итоговый результат одной попытки выполнения скрипта.
type Report struct {
	ID              string     `json:"id"`
	Status          Status     `json:"status"`
	ExecutionTimeMs int64      `json:"execution_time_ms"`
	Result          any        `json:"result,omitempty"`
	Error           *ExecError `json:"error,omitempty"`
	Screenshot      string     `json:"screenshot,omitempty"`
	AIAnalysis      *Analysis  `json:"ai_analysis,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// ExecError присутствует только при Status == error.
type ExecError struct {
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

// Analysis — диагностический результат анализа ошибки.
// Форма одинакова для обоих вариантов (ai_analysis и fallback_analysis),
// отличаются только наличием Model и TokenUsage.
type Analysis struct {
	Source                      string               `json:"source"` // ai_analysis или fallback_analysis
	Model                       string               `json:"model,omitempty"`
	Timestamp                   time.Time            `json:"timestamp"`
	TokenUsage                  *TokenUsage          `json:"token_usage,omitempty"`
	SelectorSuggestions         []SelectorSuggestion `json:"selector_suggestions"`
	WaitStrategyRecommendations []string             `json:"wait_strategy_recommendations"`
	BugReport                   BugReport            `json:"bug_report"`
}

const (
	SourceAI       = "ai_analysis"
	SourceFallback = "fallback_analysis"
)

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type SelectorSuggestion struct {
	Original    string   `json:"original"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
}

type BugReport struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ReproductionSteps []string `json:"reproduction_steps"`
	SuggestedFixes    []string `json:"suggested_fixes"`
}

// Summary — краткая запись для списка отчетов.
type Summary struct {
	ID              string    `json:"id"`
	Status          Status    `json:"status"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewID возвращает уникальный, упорядоченный по времени идентификатор отчета (UUID v7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 падает только при отказе источника энтропии
		return uuid.New().String()
	}
	return id.String()
}
