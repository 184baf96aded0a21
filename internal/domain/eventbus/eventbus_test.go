package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncEventBus_Delivery(t *testing.T) {
	bus := NewAsyncEventBus(2)
	bus.Start()
	defer bus.Stop()

	var got atomic.Int32
	require.NoError(t, bus.SubscribeAsync(EventAnalysisCompleted, func(data AnalysisEventData) {
		got.Add(1)
	}))

	for i := 0; i < 5; i++ {
		bus.PublishAsync(EventAnalysisCompleted, AnalysisEventData{AnalysisID: "a", Timestamp: time.Now()})
	}

	assert.Eventually(t, func() bool {
		return got.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAsyncEventBus_SubscriberPanicDoesNotKillWorker(t *testing.T) {
	bus := NewAsyncEventBus(1)
	bus.Start()
	defer bus.Stop()

	var survived atomic.Bool
	require.NoError(t, bus.SubscribeAsync("panicky", func() {
		panic("subscriber bug")
	}))
	require.NoError(t, bus.SubscribeAsync("after", func() {
		survived.Store(true)
	}))

	bus.PublishAsync("panicky")
	bus.PublishAsync("after")

	assert.Eventually(t, survived.Load, 2*time.Second, 10*time.Millisecond)
}

func TestSyncPublish(t *testing.T) {
	bus := NewAsyncEventBus(1)
	var called bool
	require.NoError(t, bus.Subscribe("sync-topic", func(v int) {
		called = true
		assert.Equal(t, 42, v)
	}))
	bus.Publish("sync-topic", 42)
	assert.True(t, called)
}
