package messaging

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrSubscriberFull    = errors.New("subscriber channel is full")
)

// SimpleBroker implements the Broker interface.
// subscribers maps subscriber IDs to the channels that receive their events.
type SimpleBroker struct {
	subscribers map[string]chan<- Event
	mu          sync.RWMutex
}

// NewBroker creates a new event broker
func NewBroker() *SimpleBroker {
	return &SimpleBroker{
		subscribers: make(map[string]chan<- Event),
	}
}

// Publish never blocks. A subscriber whose channel is full misses the
// event and is reported in the returned error; the others still get it.
func (b *SimpleBroker) Publish(ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	recipients := ev.To
	if len(recipients) == 0 {
		for id := range b.subscribers {
			if id != ev.From {
				recipients = append(recipients, id)
			}
		}
	}

	var errs []error
	for _, id := range recipients {
		ch, ok := b.subscribers[id]
		if !ok {
			continue
		}
		select {
		case ch <- ev:
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrSubscriberFull, id))
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers ch to receive events addressed to id
func (b *SimpleBroker) Subscribe(id string, ch chan<- Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadySubscribed, id)
	}
	b.subscribers[id] = ch
	return nil
}

// Unsubscribe removes a subscription
func (b *SimpleBroker) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, id)
	}
	delete(b.subscribers, id)
	return nil
}

// Len reports the number of subscribers
func (b *SimpleBroker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *SimpleBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string]chan<- Event)
}
