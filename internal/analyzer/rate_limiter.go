package analyzer

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter ограничивает частоту запросов к провайдеру по алгоритму token bucket.
type RateLimiter struct {
	requestsPerMinute int

	mu        sync.Mutex
	tokens    float64
	lastCheck time.Time
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokens:            float64(requestsPerMinute),
		lastCheck:         time.Now(),
	}
}

// Allow проверяет, можно ли выполнить запрос. Исчерпание лимита — не ошибка
// уровня попытки: анализатор деградирует до fallback-варианта.
func (rl *RateLimiter) Allow() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastCheck)
	rl.lastCheck = now

	rl.tokens += elapsed.Minutes() * float64(rl.requestsPerMinute)
	if rl.tokens > float64(rl.requestsPerMinute) {
		rl.tokens = float64(rl.requestsPerMinute)
	}

	if rl.tokens < 1 {
		return fmt.Errorf("превышен лимит запросов к провайдеру (%d RPM)", rl.requestsPerMinute)
	}

	rl.tokens--
	return nil
}
