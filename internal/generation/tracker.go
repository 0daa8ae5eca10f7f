// Package generation выдает поколения поисков по сессиям, чтобы отрисовывался
// только последний поиск сессии.
package generation

import (
	"context"
	"sync"
)

// Tracker выдает монотонно растущие поколения для ключа сессии.
type Tracker interface {
	// Next начинает новое поколение для key и возвращает его.
	Next(ctx context.Context, key string) (int64, error)
	// Current возвращает последнее выданное поколение для key, 0 если его нет.
	Current(ctx context.Context, key string) (int64, error)
}

// Memory хранит поколения в процессе. Подходит для одной реплики.
type Memory struct {
	mu   sync.Mutex
	gens map[string]int64
}

func NewMemory() *Memory {
	return &Memory{gens: make(map[string]int64)}
}

func (m *Memory) Next(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[key]++
	return m.gens[key], nil
}

func (m *Memory) Current(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[key], nil
}
