package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boristopalov/mdpsim/pkg/core"
)

func step(n int) core.Transition {
	return core.Transition{EnvID: "env-1", Step: n, From: 0, Action: 2, To: 1}
}

func TestBroker(t *testing.T) {
	t.Run("direct event", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(broker.Reset)
		ch1 := make(chan Event, 1)
		ch2 := make(chan Event, 1)
		require.NoError(t, broker.Subscribe("viewer", ch1))
		require.NoError(t, broker.Subscribe("recorder", ch2))

		ev := Event{From: "env-1", To: []string{"recorder"}, Transition: step(1), Timestamp: time.Now()}
		require.NoError(t, broker.Publish(ev))

		select {
		case got := <-ch2:
			assert.Equal(t, "env-1", got.From)
			assert.Equal(t, step(1), got.Transition)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
		assert.Empty(t, ch1)
	})

	t.Run("broadcast skips the sender", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(broker.Reset)
		subs := map[string]chan Event{
			"env-1":    make(chan Event, 1),
			"viewer":   make(chan Event, 1),
			"recorder": make(chan Event, 1),
		}
		for id, ch := range subs {
			require.NoError(t, broker.Subscribe(id, ch))
		}
		assert.Equal(t, 3, broker.Len())

		require.NoError(t, broker.Publish(Event{From: "env-1", Transition: step(2)}))

		assert.Empty(t, subs["env-1"])
		for _, id := range []string{"viewer", "recorder"} {
			require.Len(t, subs[id], 1, id)
			got := <-subs[id]
			assert.Equal(t, 2, got.Transition.Step)
		}
	})

	t.Run("subscription management", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(broker.Reset)
		ch := make(chan Event, 1)

		require.NoError(t, broker.Subscribe("viewer", ch))
		assert.ErrorIs(t, broker.Subscribe("viewer", ch), ErrAlreadySubscribed)
		require.NoError(t, broker.Unsubscribe("viewer"))
		assert.ErrorIs(t, broker.Unsubscribe("viewer"), ErrNotSubscribed)
		assert.Zero(t, broker.Len())
	})

	t.Run("full channel drops the event for that subscriber only", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(broker.Reset)
		slow := make(chan Event, 1)
		fast := make(chan Event, 4)
		require.NoError(t, broker.Subscribe("slow", slow))
		require.NoError(t, broker.Subscribe("fast", fast))

		require.NoError(t, broker.Publish(Event{From: "env-1", Transition: step(1)}))
		err := broker.Publish(Event{From: "env-1", Transition: step(2)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSubscriberFull)
		assert.Contains(t, err.Error(), "slow")

		assert.Len(t, slow, 1)
		assert.Len(t, fast, 2)
	})

	t.Run("unknown recipients are ignored", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(broker.Reset)
		assert.NoError(t, broker.Publish(Event{From: "env-1", To: []string{"ghost"}}))
	})
}

func TestSubscription(t *testing.T) {
	broker := NewBroker()
	t.Cleanup(broker.Reset)

	sub, err := NewSubscription(broker, "recorder", 4)
	require.NoError(t, err)
	assert.Equal(t, "recorder", sub.ID())
	assert.Equal(t, 1, broker.Len())

	_, err = NewSubscription(broker, "recorder", 4)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	require.NoError(t, broker.Publish(Event{From: "env-1", Transition: step(1)}))
	require.NoError(t, broker.Publish(Event{From: "env-1", Transition: step(2)}))
	require.NoError(t, sub.Close())
	assert.Zero(t, broker.Len())
	assert.NoError(t, sub.Close())

	var got []int
	for ev := range sub.Receive() {
		got = append(got, ev.Transition.Step)
	}
	assert.Equal(t, []int{1, 2}, got)

	require.NoError(t, broker.Publish(Event{From: "env-1", Transition: step(3)}))
}
