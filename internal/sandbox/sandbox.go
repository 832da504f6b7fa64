// Package sandbox выполняет пользовательский скрипт против сессии браузера.
// Скрипт получает либо разрешенный набор операций страницы (page-контекст),
// либо выполняется внутри самой страницы без доступа к сессии (dom-контекст).
package sandbox

import (
	"context"
	"fmt"
	"strings"
)

// Page — разрешенные операции над страницей, доступные скрипту в page-контексте.
// Реализуется browser.Session; скрипт никогда не видит сам playwright-объект.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	WaitForSelector(ctx context.Context, selector string) error
	Evaluate(ctx context.Context, expression string) (any, error)
	Text(ctx context.Context, selector string) (string, error)
	Attribute(ctx context.Context, selector, name string) (string, error)
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// Run выполняет скрипт в выбранном контексте. Любая ошибка скрипта возвращается
// с нормализованным префиксом, оригинальное сообщение сохраняется.
// Отдельного таймаута песочница не накладывает — зависание внутри скрипта
// проявится как таймаут операции на уровне сессии.
func Run(ctx context.Context, script string, page Page, declared ExecContext) (any, error) {
	switch Classify(script, declared) {
	case ContextPage:
		return runPage(ctx, script, page)
	default:
		return runDOM(ctx, script, page)
	}
}

func scriptErr(err error) error {
	return fmt.Errorf("ошибка выполнения скрипта: %w", err)
}

// runDOM заворачивает тело скрипта в функцию и выполняет его внутри страницы.
func runDOM(ctx context.Context, script string, page Page) (any, error) {
	result, err := page.Evaluate(ctx, fmt.Sprintf("() => {\n%s\n}", script))
	if err != nil {
		return nil, scriptErr(err)
	}
	return result, nil
}

// runPage интерпретирует скрипт как последовательность операторов. Вызовы
// page.* диспетчеризуются на разрешенные операции; оператор return и прочие
// выражения вычисляются внутри страницы.
func runPage(ctx context.Context, script string, page Page) (any, error) {
	var result any

	for _, stmt := range parseStatements(script) {
		if expr, ok := strings.CutPrefix(stmt, "return "); ok {
			value, err := page.Evaluate(ctx, fmt.Sprintf("() => (%s)", strings.TrimSpace(expr)))
			if err != nil {
				return nil, scriptErr(err)
			}
			return value, nil
		}
		if stmt == "return" {
			return nil, nil
		}

		m := pageCallRe.FindStringSubmatch(stmt)
		if m == nil {
			// Не page-вызов — выполняем внутри страницы
			value, err := page.Evaluate(ctx, fmt.Sprintf("() => { %s }", stmt))
			if err != nil {
				return nil, scriptErr(err)
			}
			if value != nil {
				result = value
			}
			continue
		}

		value, err := dispatch(ctx, page, m[1], splitArgs(m[2]))
		if err != nil {
			return nil, scriptErr(err)
		}
		if value != nil {
			result = value
		}
	}

	return result, nil
}

func dispatch(ctx context.Context, page Page, method string, args []string) (any, error) {
	arg := func(i int) string {
		if i < len(args) {
			return unquote(args[i])
		}
		return ""
	}

	switch method {
	case "goto", "navigate":
		return nil, page.Navigate(ctx, arg(0))
	case "click":
		return nil, page.Click(ctx, arg(0))
	case "fill", "type":
		return nil, page.Fill(ctx, arg(0), arg(1))
	case "waitForSelector", "waitFor":
		return nil, page.WaitForSelector(ctx, arg(0))
	case "evaluate":
		return page.Evaluate(ctx, arg(0))
	case "textContent", "innerText", "text":
		return page.Text(ctx, arg(0))
	case "getAttribute", "attribute":
		return page.Attribute(ctx, arg(0), arg(1))
	case "url":
		return page.URL(ctx)
	case "title":
		return page.Title(ctx)
	default:
		return nil, fmt.Errorf("недопустимая операция page.%s", method)
	}
}
