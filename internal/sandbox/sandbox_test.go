package sandbox

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage записывает вызовы разрешенных операций.
type fakePage struct {
	calls     []string
	evalValue any
	failOn    string
	failErr   error
}

func (f *fakePage) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && call == f.failOn {
		return f.failErr
	}
	return nil
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	return f.record("navigate " + url)
}

func (f *fakePage) Click(ctx context.Context, selector string) error {
	return f.record("click " + selector)
}

func (f *fakePage) Fill(ctx context.Context, selector, value string) error {
	return f.record(fmt.Sprintf("fill %s=%s", selector, value))
}

func (f *fakePage) WaitForSelector(ctx context.Context, selector string) error {
	return f.record("waitForSelector " + selector)
}

func (f *fakePage) Evaluate(ctx context.Context, expression string) (any, error) {
	if err := f.record("evaluate " + expression); err != nil {
		return nil, err
	}
	return f.evalValue, nil
}

func (f *fakePage) Text(ctx context.Context, selector string) (string, error) {
	return "текст", f.record("text " + selector)
}

func (f *fakePage) Attribute(ctx context.Context, selector, name string) (string, error) {
	return "значение", f.record(fmt.Sprintf("attribute %s[%s]", selector, name))
}

func (f *fakePage) URL(ctx context.Context) (string, error) {
	return "https://example.com", f.record("url")
}

func (f *fakePage) Title(ctx context.Context) (string, error) {
	return "Example", f.record("title")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		declared ExecContext
		want     ExecContext
	}{
		{"plain expression goes to dom", "return 1+1;", ContextAuto, ContextDOM},
		{"page.click goes to page", "page.click('#btn')", ContextAuto, ContextPage},
		{"page.goto goes to page", "await page.goto('https://example.com')", ContextAuto, ContextPage},
		{"declared dom wins over heuristic", "page.click('#btn')", ContextDOM, ContextDOM},
		{"declared page wins over heuristic", "return 2+2;", ContextPage, ContextPage},
		{"unrelated page word stays dom", "const homepage = document.title; return homepage;", ContextAuto, ContextDOM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.script, tt.declared))
		})
	}
}

func TestRun_DOMContext(t *testing.T) {
	page := &fakePage{evalValue: float64(2)}

	result, err := Run(context.Background(), "return 1+1;", page, ContextAuto)
	require.NoError(t, err)
	assert.Equal(t, float64(2), result)

	// Весь скрипт завернут в одну функцию и выполнен внутри страницы
	require.Len(t, page.calls, 1)
	assert.Contains(t, page.calls[0], "return 1+1;")
}

func TestRun_PageContext(t *testing.T) {
	page := &fakePage{}

	script := `await page.goto('https://example.com');
page.waitForSelector('#login');
page.fill('#login', 'user');
page.click('#submit');`

	_, err := Run(context.Background(), script, page, ContextAuto)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"navigate https://example.com",
		"waitForSelector #login",
		"fill #login=user",
		"click #submit",
	}, page.calls)
}

func TestRun_PageContextReturn(t *testing.T) {
	page := &fakePage{evalValue: "Example"}

	script := `page.click('#open');
return document.title;`

	result, err := Run(context.Background(), script, page, ContextAuto)
	require.NoError(t, err)
	assert.Equal(t, "Example", result)

	// return вычисляется внутри страницы
	assert.Equal(t, "click #open", page.calls[0])
	assert.Contains(t, page.calls[1], "document.title")
}

func TestRun_PageContextValueOps(t *testing.T) {
	page := &fakePage{}

	result, err := Run(context.Background(), "page.click('#x'); page.title()", page, ContextAuto)
	require.NoError(t, err)
	assert.Equal(t, "Example", result)
}

func TestRun_ErrorPrefix(t *testing.T) {
	cause := errors.New("элемент не найден: #missing")
	page := &fakePage{failOn: "click #missing", failErr: cause}

	_, err := Run(context.Background(), "page.click('#missing')", page, ContextAuto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка выполнения скрипта")
	assert.Contains(t, err.Error(), "#missing")
	assert.ErrorIs(t, err, cause)
}

func TestRun_DisallowedOperation(t *testing.T) {
	page := &fakePage{}

	_, err := Run(context.Background(), "page.close()", page, ContextPage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимая операция page.close")
}

func TestParseStatements(t *testing.T) {
	stmts := parseStatements(`page.goto('https://example.com/a;b');
// комментарий
page.fill('#q', 'a, b');

return 1;`)

	require.Equal(t, []string{
		"page.goto('https://example.com/a;b')",
		"page.fill('#q', 'a, b')",
		"return 1",
	}, stmts)
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"'#q'", "'a, b'"}, splitArgs("'#q', 'a, b'"))
	assert.Equal(t, []string{"fn(1, 2)", "3"}, splitArgs("fn(1, 2), 3"))
	assert.Nil(t, splitArgs(""))
}
