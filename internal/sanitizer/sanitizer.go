// Package sanitizer вычищает чувствительные данные из текста перед отправкой
// во внешний LLM-провайдер и перед записью в логи.
package sanitizer

import "strings"

type Rule interface {
	Sanitize(text string) string
}

type DataSanitizer struct {
	rules []Rule
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []Rule{
			&PasswordRule{},
			&TokenRule{},
			&APIKeyRule{},
			&CardRule{},
			&EmailRule{},
		},
	}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	// Схлопываем подряд идущие маркеры после нескольких правил
	for strings.Contains(result, "[FILTERED] [FILTERED]") {
		result = strings.ReplaceAll(result, "[FILTERED] [FILTERED]", "[FILTERED]")
	}

	return result
}
