package sandbox

import "regexp"

// ExecContext — контекст выполнения скрипта.
type ExecContext string

const (
	// ContextPage — выполнение с доступом к разрешенным операциям страницы.
	ContextPage ExecContext = "page"
	// ContextDOM — выполнение внутри страницы, виден только DOM.
	ContextDOM ExecContext = "dom"
	// ContextAuto — контекст не объявлен, используется эвристика.
	ContextAuto ExecContext = ""
)

// Примитивы взаимодействия со страницей, по которым классифицируется скрипт.
var pagePrimitiveRe = regexp.MustCompile(
	`\bpage\s*\.\s*(goto|navigate|click|fill|type|waitForSelector|waitFor|evaluate|textContent|innerText|text|getAttribute|attribute|url|title)\b`)

// Classify выбирает контекст выполнения. Явно объявленное намерение вызывающего
// имеет приоритет; эвристика по тексту скрипта применяется только когда контекст
// не объявлен. Текстовая классификация поддается подделке и не является границей
// безопасности — разрешенный набор операций ограничен в любом случае.
func Classify(script string, declared ExecContext) ExecContext {
	switch declared {
	case ContextPage, ContextDOM:
		return declared
	}

	if pagePrimitiveRe.MatchString(script) {
		return ContextPage
	}
	return ContextDOM
}
