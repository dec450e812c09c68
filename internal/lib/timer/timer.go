// Package timer содержит группу отменяемых таймеров, привязанных ко времени жизни владельца.
package timer

import (
	"sync"
	"time"
)

// Group запускает отложенные функции и останавливает все ещё не сработавшие при Stop.
// После Stop новые таймеры не запускаются.
type Group struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewGroup создает пустую группу.
func NewGroup() *Group {
	return &Group{timers: make(map[*time.Timer]struct{})}
}

// AfterFunc вызывает f через d, если группа не будет остановлена раньше.
// Возвращает функцию отмены конкретного таймера.
func (g *Group) AfterFunc(d time.Duration, f func()) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return func() {}
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		g.mu.Lock()
		_, live := g.timers[t]
		delete(g.timers, t)
		g.mu.Unlock()
		if live {
			f()
		}
	})
	g.timers[t] = struct{}{}

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.timers[t]; ok {
			t.Stop()
			delete(g.timers, t)
		}
	}
}

// Pending возвращает количество таймеров, которые ещё не сработали.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Stop останавливает все таймеры группы.
func (g *Group) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	for t := range g.timers {
		t.Stop()
		delete(g.timers, t)
	}
}
