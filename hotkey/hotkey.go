// Package hotkey registers global keyboard shortcuts.
package hotkey

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// DefaultDebounce swallows the key-repeat KeyDown events a held combo produces.
const DefaultDebounce = 300 * time.Millisecond

type handler struct {
	binding Binding
	fn      func()

	mu   sync.Mutex
	last time.Time
}

// fire runs fn on its own goroutine unless it fired within debounce.
func (h *handler) fire(now time.Time, debounce time.Duration) bool {
	h.mu.Lock()
	if !h.last.IsZero() && now.Sub(h.last) < debounce {
		h.mu.Unlock()
		return false
	}
	h.last = now
	h.mu.Unlock()

	go h.fn()
	return true
}

// Manager owns the process-wide keyboard hook. gohook keeps global state,
// so only one Manager should be started at a time.
type Manager struct {
	mu       sync.Mutex
	handlers []*handler
	debounce time.Duration
	running  bool
	done     chan struct{}
}

// NewManager creates a Manager with no bindings.
func NewManager() *Manager {
	return &Manager{debounce: DefaultDebounce}
}

// Bind registers fn for combo. Bindings added after Start take effect on
// the next Start.
func (m *Manager) Bind(combo string, fn func()) error {
	b, err := ParseBinding(combo)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.handlers {
		if h.binding.String() == b.String() {
			return fmt.Errorf("hotkey %s already bound", b)
		}
	}
	m.handlers = append(m.handlers, &handler{binding: b, fn: fn})
	return nil
}

// Bindings returns the registered shortcuts.
func (m *Manager) Bindings() []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Binding, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.binding
	}
	return out
}

// Start installs the keyboard hook and begins dispatching. With nothing
// bound it does nothing and the hook is never installed.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	if len(m.handlers) == 0 {
		slog.Debug("no hotkeys bound, keyboard hook not installed")
		return nil
	}

	for _, h := range m.handlers {
		h := h
		hook.Register(hook.KeyDown, h.binding.Keys(), func(hook.Event) {
			if h.fire(time.Now(), m.debounce) {
				slog.Debug("hotkey pressed", "binding", h.binding.String())
			}
		})
	}

	events := hook.Start()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-hook.Process(events)
	}()

	m.done = done
	m.running = true
	slog.Info("hotkeys registered", "count", len(m.handlers))
	return nil
}

// Stop removes the hook and waits briefly for the dispatcher to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	hook.End()

	select {
	case <-m.done:
	case <-time.After(time.Second):
		slog.Warn("hotkey dispatcher did not stop in time")
	}
	m.running = false
	m.done = nil
}
