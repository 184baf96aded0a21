// Package eventbus is the in-process pub/sub fabric. Pipeline lifecycle
// events flow through it so side concerns (history recording, logging)
// stay out of the analysis path.
package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

var (
	instance evbus.Bus
	asyncBus *AsyncEventBus
	once     sync.Once

	defaultWorkers = 4
)

// Configure sets the async worker count. Only effective before first use.
func Configure(workers int) {
	if workers > 0 {
		defaultWorkers = workers
	}
}

// Get returns the shared synchronous bus.
func Get() evbus.Bus {
	once.Do(initBuses)
	return instance
}

// GetAsync returns the shared async bus.
func GetAsync() *AsyncEventBus {
	once.Do(initBuses)
	return asyncBus
}

func initBuses() {
	instance = evbus.New()
	asyncBus = NewAsyncEventBus(defaultWorkers)
	asyncBus.Start()
}

// Publish delivers an event synchronously to all subscribers.
func Publish(topic string, args ...interface{}) {
	Get().Publish(topic, args...)
}

// PublishAsync queues an event for delivery by the worker pool.
func PublishAsync(topic string, args ...interface{}) {
	GetAsync().PublishAsync(topic, args...)
}

func Subscribe(topic string, fn interface{}) error {
	return Get().Subscribe(topic, fn)
}

func SubscribeAsync(topic string, fn interface{}) error {
	return GetAsync().SubscribeAsync(topic, fn)
}

// Shutdown drains the async worker pool.
func Shutdown() {
	if asyncBus != nil {
		asyncBus.Stop()
	}
}
