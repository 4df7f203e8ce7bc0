package shutdown

import (
	"os"
	"sync"
)

// Handler ends the process after an update has been applied.
type Handler func(reason string)

// DefaultHandler exits with status 0 so the replaced binary starts fresh on
// the next run.
func DefaultHandler(string) {
	os.Exit(0)
}

type Manager struct {
	handler Handler
	mu      sync.RWMutex
	before  []func()
}

func New() *Manager {
	return &Manager{handler: DefaultHandler}
}

// SetHandler replaces the termination handler. Nil is ignored.
func (m *Manager) SetHandler(handler Handler) {
	if handler == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// BeforeTerminate registers fn to run, in registration order, before the
// handler is invoked.
func (m *Manager) BeforeTerminate(fn func()) {
	if fn == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.before = append(m.before, fn)
}

func (m *Manager) Terminate(reason string) {
	m.mu.RLock()
	handler := m.handler
	before := append([]func(){}, m.before...)
	m.mu.RUnlock()

	for _, fn := range before {
		fn()
	}
	handler(reason)
}
