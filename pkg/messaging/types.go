package messaging

import (
	"time"

	"github.com/boristopalov/mdpsim/pkg/core"
)

// Event carries one realized transition to subscribers
type Event struct {
	From       string          // ID of the publishing environment or runner
	To         []string        // Subscriber IDs (empty means broadcast)
	Transition core.Transition // The step that happened
	Timestamp  time.Time       // When the step was published
}

// Receiver exposes the channel a subscriber reads events from
type Receiver interface {
	Receive() <-chan Event
}

// Broker routes transition events to subscribers
type Broker interface {
	// Publish sends an event to the listed subscribers, or all of them
	Publish(ev Event) error
	// Subscribe registers a channel under an ID
	Subscribe(id string, ch chan<- Event) error
	// Unsubscribe removes a subscription
	Unsubscribe(id string) error
}
