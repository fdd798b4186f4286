package messaging

import "sync"

// Subscription owns a buffered channel registered with a broker.
type Subscription struct {
	id     string
	ch     chan Event
	broker Broker
	once   sync.Once
	err    error
}

var _ Receiver = (*Subscription)(nil)

// NewSubscription registers a channel of the given buffer size under id.
func NewSubscription(b Broker, id string, buffer int) (*Subscription, error) {
	ch := make(chan Event, buffer)
	if err := b.Subscribe(id, ch); err != nil {
		return nil, err
	}
	return &Subscription{id: id, ch: ch, broker: b}, nil
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Receive() <-chan Event {
	return s.ch
}

// Close unsubscribes and then closes the channel, so readers drain what
// was already delivered and stop. Calling it again is a no-op.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.err = s.broker.Unsubscribe(s.id)
		close(s.ch)
	})
	return s.err
}
