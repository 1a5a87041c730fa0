// Package ratelimit реализует счётчики с фиксированным окном для
// анти-спам ограничений (сброс пароля, логин).
package ratelimit

import (
	"context"
	"time"
)

// Policy: не больше Limit запросов на ключ за Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result: итог одной попытки.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store считает попытки по ключу. Реализации обязаны быть безопасными
// для конкурентного использования.
type Store interface {
	Take(ctx context.Context, key string, p Policy) (Result, error)
}

// Limiter связывает Store с политикой и префиксом ключа.
type Limiter struct {
	store  Store
	prefix string
	policy Policy
}

func NewLimiter(store Store, prefix string, p Policy) *Limiter {
	return &Limiter{store: store, prefix: prefix, policy: p}
}

// Allow учитывает попытку для идентификатора (email, IP).
func (l *Limiter) Allow(ctx context.Context, id string) (Result, error) {
	return l.store.Take(ctx, l.prefix+":"+id, l.policy)
}
