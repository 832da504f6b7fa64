package engine

import (
	"context"

	"scriptRunner/internal/browser"
)

// browserSessions адаптирует browser.Manager к интерфейсу Sessions.
type browserSessions struct {
	m *browser.Manager
}

func NewBrowserSessions(m *browser.Manager) Sessions {
	return &browserSessions{m: m}
}

func (b *browserSessions) Acquire(ctx context.Context) (Session, error) {
	s, err := b.m.Acquire(ctx)
	if s == nil {
		return nil, err
	}
	return s, err
}

func (b *browserSessions) Release(s Session) {
	if s == nil {
		b.m.Release(nil)
		return
	}
	b.m.Release(s.(*browser.Session))
}
