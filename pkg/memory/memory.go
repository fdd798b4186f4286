package memory

import (
	"context"
	"sync"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/messaging"
)

// Memory keeps the most recent transitions in a fixed-size ring. It is
// never written anywhere; dropping it drops the history.
type Memory struct {
	ring     []core.Transition
	next     int
	full     bool
	capacity int
	mu       sync.RWMutex
}

func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{
		ring:     make([]core.Transition, capacity),
		capacity: capacity,
	}
}

// Store appends t, evicting the oldest entry once the ring is full.
func (m *Memory) Store(t core.Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capacity == 0 {
		return
	}
	m.ring[m.next] = t
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
}

// All returns a copy of the stored transitions, oldest first.
func (m *Memory) All() []core.Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.full {
		return append([]core.Transition(nil), m.ring[:m.next]...)
	}
	out := make([]core.Transition, 0, m.capacity)
	out = append(out, m.ring[m.next:]...)
	return append(out, m.ring[:m.next]...)
}

// Last returns up to n of the newest transitions, oldest first.
func (m *Memory) Last(n int) []core.Transition {
	all := m.All()
	if n >= len(all) {
		return all
	}
	if n <= 0 {
		return nil
	}
	return all[len(all)-n:]
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.full {
		return m.capacity
	}
	return m.next
}

func (m *Memory) Capacity() int { return m.capacity }

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next, m.full = 0, false
}

// Record stores every event r delivers until ctx is done or the receive
// channel closes. It returns a channel closed once recording stops.
func (m *Memory) Record(ctx context.Context, r messaging.Receiver) <-chan struct{} {
	done := make(chan struct{})
	events := r.Receive()
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				m.Store(ev.Transition)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
