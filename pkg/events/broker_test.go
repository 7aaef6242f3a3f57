package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/events"
	"github.com/flagmate/flagmate/pkg/traits"
)

func TestBrokerFanOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	broker := events.NewBroker()
	defer broker.Close()

	subA := broker.Subscribe()
	subB := broker.Subscribe()

	event := events.NewFeatureStateChanged(events.FeatureStateChanged{
		EnvironmentID: 1,
		FeatureID:     2,
		FeatureName:   "f",
		Enabled:       true,
		Value:         traits.NewString("v"),
	})
	require.NoError(t, broker.Emit(ctx, event))

	for _, sub := range []<-chan events.Event{subA, subB} {
		select {
		case got := <-sub:
			assert.Equal(t, events.KindFeatureStateChanged, got.Kind())
			assert.Equal(t, event.EventID(), got.EventID())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBrokerDropsWhenBufferFull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	broker := events.NewBroker(events.WithBufferSize(1))
	defer broker.Close()

	_ = broker.Subscribe() // never read

	for range 3 {
		require.NoError(t, broker.Emit(ctx, events.NewTraitsUpdated(events.TraitsUpdated{})))
	}

	assert.Equal(t, int64(2), broker.Dropped())
}

func TestBrokerEmitAfterClose(t *testing.T) {
	t.Parallel()

	broker := events.NewBroker()
	require.NoError(t, broker.Close())

	err := broker.Emit(context.Background(), events.NewTraitsUpdated(events.TraitsUpdated{}))
	assert.ErrorIs(t, err, events.ErrBrokerClosed)
}

func TestBrokerCloseClosesSubscribers(t *testing.T) {
	t.Parallel()

	broker := events.NewBroker()
	sub := broker.Subscribe()
	require.NoError(t, broker.Close())

	_, open := <-sub
	assert.False(t, open)
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	t.Parallel()

	broker := events.NewBroker()
	require.NoError(t, broker.Close())

	sub := broker.Subscribe()
	_, open := <-sub
	assert.False(t, open)
}

func TestEventMetadata(t *testing.T) {
	t.Parallel()

	event := events.NewTraitsUpdated(events.TraitsUpdated{Identifier: "user1"})
	assert.NotEmpty(t, event.EventID())
	assert.WithinDuration(t, time.Now(), event.OccurredAt(), time.Minute)
	assert.Equal(t, events.KindTraitsUpdated, event.Kind())
}
