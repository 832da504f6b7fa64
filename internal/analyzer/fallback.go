package analyzer

import (
	"regexp"
	"time"

	"scriptRunner/internal/report"
)

var quotedSelectorRe = regexp.MustCompile(`['"]([#.\[][^'"]+)['"]`)

// fallbackResult строит эвристический вариант анализа без обращения к провайдеру.
// Форма идентична AI-варианту, отсутствуют только Model и TokenUsage.
func fallbackResult(execErr error) *report.Analysis {
	suggestions := []report.SelectorSuggestion{}
	message := ""
	if execErr != nil {
		message = execErr.Error()
	}

	// Селекторы из текста ошибки получают типовые альтернативы
	for _, m := range quotedSelectorRe.FindAllStringSubmatch(message, 3) {
		suggestions = append(suggestions, report.SelectorSuggestion{
			Original: m[1],
			Suggestions: []string{
				"использовать атрибут data-testid вместо CSS-класса",
				"использовать текстовый селектор :has-text(...)",
				"проверить селектор в DevTools перед запуском",
			},
			Confidence: 0.3,
		})
	}

	steps := []string{
		"Запустить скрипт повторно с теми же параметрами",
		"Сравнить селекторы скрипта с актуальной разметкой страницы",
	}
	fixes := []string{
		"Добавить page.waitForSelector перед взаимодействием с элементом",
		"Проверить, что страница полностью загрузилась до начала действий",
		"Убедиться, что элемент не скрыт попапом или оверлеем",
	}

	return &report.Analysis{
		Source:              report.SourceFallback,
		Timestamp:           time.Now().UTC(),
		SelectorSuggestions: suggestions,
		WaitStrategyRecommendations: []string{
			"Ожидать появления селектора (state: attached) перед кликом и вводом",
			"После навигации дожидаться состояния load или networkidle",
			"Увеличить таймаут операций, если страница загружается медленно",
		},
		BugReport: report.BugReport{
			Title:             "Ошибка выполнения автоматизационного скрипта",
			Description:       message,
			ReproductionSteps: steps,
			SuggestedFixes:    fixes,
		},
	}
}
