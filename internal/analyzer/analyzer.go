// Package analyzer строит диагностический разбор упавшего скрипта: запрос к
// LLM-провайдеру с гонкой против таймаута и гарантированным fallback-вариантом.
// Любой путь через Analyze завершается валидным результатом, никогда ошибкой.
package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"scriptRunner/internal/logger"
	"scriptRunner/internal/report"
	"scriptRunner/internal/sanitizer"
)

type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Enabled     bool
}

// completionClient — минимальный контракт провайдера, который нужен анализатору.
// Реализуется openai.Client.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Analyzer struct {
	cfg       Config
	client    completionClient
	log       *logger.Zap
	sanitizer *sanitizer.DataSanitizer
	limiter   *RateLimiter
}

func New(cfg Config, log *logger.Zap, requestsPerMinute int) *Analyzer {
	a := &Analyzer{
		cfg:       cfg,
		log:       log,
		sanitizer: sanitizer.New(),
		limiter:   NewRateLimiter(requestsPerMinute),
	}
	if cfg.APIKey != "" {
		a.client = openai.NewClient(cfg.APIKey)
	}
	return a
}

// providerPayload — ожидаемая форма JSON-ответа провайдера.
type providerPayload struct {
	SelectorSuggestions         []report.SelectorSuggestion `json:"selector_suggestions"`
	WaitStrategyRecommendations []string                    `json:"wait_strategy_recommendations"`
	BugReport                   report.BugReport            `json:"bug_report"`
}

// Analyze разбирает ошибку выполнения скрипта. Если анализ выключен, нет
// ключа провайдера или вызов не уложился в таймаут — возвращается fallback-вариант.
func (a *Analyzer) Analyze(ctx context.Context, execErr error, script string, logs []string) *report.Analysis {
	if !a.cfg.Enabled || a.client == nil {
		return fallbackResult(execErr)
	}

	if err := a.limiter.Allow(); err != nil {
		a.log.Warn("AI-анализ пропущен", zap.Error(err))
		return fallbackResult(execErr)
	}

	systemMsg, prompt := a.buildPrompt(execErr, script, logs)
	req := shapeRequest(a.cfg.Model, a.cfg.MaxTokens, a.cfg.Temperature, systemMsg, prompt)

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	type outcome struct {
		resp openai.ChatCompletionResponse
		err  error
	}
	// Буферизованный канал: результат проигравшего гонку явно отбрасывается,
	// горутина не блокируется
	ch := make(chan outcome, 1)
	go func() {
		resp, err := a.client.CreateChatCompletion(callCtx, req)
		ch <- outcome{resp: resp, err: err}
	}()

	select {
	case <-callCtx.Done():
		a.log.Warn("AI-анализ не уложился в таймаут",
			zap.Duration("timeout", a.cfg.Timeout))
		return fallbackResult(execErr)
	case out := <-ch:
		if out.err != nil {
			a.log.Warn("Ошибка запроса к провайдеру", zap.Error(out.err))
			return fallbackResult(execErr)
		}
		return a.parseResponse(out.resp, execErr)
	}
}

func (a *Analyzer) parseResponse(resp openai.ChatCompletionResponse, execErr error) *report.Analysis {
	if len(resp.Choices) == 0 {
		a.log.Warn("Пустой ответ провайдера")
		return fallbackResult(execErr)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		a.log.Warn("Провайдер вернул пустой текст")
		return fallbackResult(execErr)
	}

	var payload providerPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		a.log.Warn("Ответ провайдера не является валидным JSON", zap.Error(err))
		return fallbackResult(execErr)
	}

	result := &report.Analysis{
		Source:                      report.SourceAI,
		Model:                       a.cfg.Model,
		Timestamp:                   time.Now().UTC(),
		SelectorSuggestions:         payload.SelectorSuggestions,
		WaitStrategyRecommendations: payload.WaitStrategyRecommendations,
		BugReport:                   payload.BugReport,
	}
	if result.SelectorSuggestions == nil {
		result.SelectorSuggestions = []report.SelectorSuggestion{}
	}
	if result.WaitStrategyRecommendations == nil {
		result.WaitStrategyRecommendations = []string{}
	}

	// Провайдер может не сообщать usage
	if resp.Usage.TotalTokens > 0 {
		result.TokenUsage = &report.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return result
}

func (a *Analyzer) buildPrompt(execErr error, script string, logs []string) (systemMsg, prompt string) {
	message := ""
	if execErr != nil {
		message = execErr.Error()
	}

	var b strings.Builder
	b.WriteString("Скрипт автоматизации браузера завершился ошибкой.\n\n")
	b.WriteString("Ошибка:\n")
	b.WriteString(a.sanitizer.Sanitize(message))
	b.WriteString("\n\nСкрипт:\n")
	b.WriteString(a.sanitizer.Sanitize(script))
	if len(logs) > 0 {
		b.WriteString("\n\nЖурнал операций:\n")
		b.WriteString(a.sanitizer.Sanitize(strings.Join(logs, "\n")))
	}
	b.WriteString(`

Верни JSON-объект строго следующей формы:
{
  "selector_suggestions": [{"original": "...", "suggestions": ["..."], "confidence": 0.0}],
  "wait_strategy_recommendations": ["..."],
  "bug_report": {"title": "...", "description": "...", "reproduction_steps": ["..."], "suggested_fixes": ["..."]}
}`)

	systemMsg = "Ты — эксперт по отладке скриптов автоматизации браузера. " +
		"Анализируй ошибку и предлагай исправления. Отвечай только валидным JSON."

	return systemMsg, b.String()
}
