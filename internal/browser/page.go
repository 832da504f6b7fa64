package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Разрешенный набор операций над страницей. Песочница получает только эти
// методы, а не сам playwright-объект.

func (s *Session) logOp(format string, args ...any) {
	s.ops = append(s.ops, fmt.Sprintf(format, args...))
}

// Ops возвращает журнал выполненных операций для диагностики.
func (s *Session) Ops() []string {
	return s.ops
}

func (s *Session) requirePage() (playwright.Page, error) {
	if s == nil || s.page == nil {
		return nil, fmt.Errorf("сессия не инициализирована")
	}
	return s.page, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	page, err := s.requirePage()
	if err != nil {
		return err
	}
	s.logOp("navigate %s", url)

	navCtx, cancel := context.WithTimeout(ctx, s.navigateTimeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(s.navigateTimeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("navigate timeout после %v", s.navigateTimeout)
	case err := <-errChan:
		return err
	}
}

func (s *Session) Click(ctx context.Context, selector string) error {
	page, err := s.requirePage()
	if err != nil {
		return err
	}
	s.logOp("click %s", selector)
	return page.Click(selector)
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	page, err := s.requirePage()
	if err != nil {
		return err
	}
	s.logOp("fill %s", selector)
	return page.Fill(selector, value)
}

func (s *Session) WaitForSelector(ctx context.Context, selector string) error {
	page, err := s.requirePage()
	if err != nil {
		return err
	}
	s.logOp("waitForSelector %s", selector)
	_, err = page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateAttached,
	})
	return err
}

// Evaluate выполняет выражение в контексте страницы (DOM-песочница).
func (s *Session) Evaluate(ctx context.Context, expression string) (any, error) {
	page, err := s.requirePage()
	if err != nil {
		return nil, err
	}
	s.logOp("evaluate")
	return page.Evaluate(expression)
}

func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	page, err := s.requirePage()
	if err != nil {
		return "", err
	}
	s.logOp("text %s", selector)
	return page.TextContent(selector)
}

func (s *Session) Attribute(ctx context.Context, selector, name string) (string, error) {
	page, err := s.requirePage()
	if err != nil {
		return "", err
	}
	s.logOp("attribute %s[%s]", selector, name)
	return page.GetAttribute(selector, name)
}

func (s *Session) URL(ctx context.Context) (string, error) {
	page, err := s.requirePage()
	if err != nil {
		return "", err
	}
	s.logOp("url")
	return page.URL(), nil
}

func (s *Session) Title(ctx context.Context) (string, error) {
	page, err := s.requirePage()
	if err != nil {
		return "", err
	}
	s.logOp("title")
	return page.Title()
}

// Screenshot снимает полную страницу и сохраняет в указанный файл.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	page, err := s.requirePage()
	if err != nil {
		return err
	}
	s.logOp("screenshot %s", path)
	_, err = page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}
