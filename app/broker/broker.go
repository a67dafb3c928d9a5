package broker

import (
	"log"
	"sync"

	"nitready/app/models"
)

// Observer receives a full feed snapshot after every mutation. The snapshot
// is a defensive copy; observers may retain it.
type Observer func(snapshot []*models.Post)

// Broker fans feed snapshots out to registered observers. Observers are
// notified in registration order, each call isolated so one misbehaving
// subscriber cannot block the rest.
type Broker struct {
	mu        sync.Mutex
	seq       int
	observers map[int]Observer
	order     []int
	snapshot  func() []*models.Post
}

// New creates a broker. snapshot provides the current feed state for the
// immediate replay a new subscriber receives.
func New(snapshot func() []*models.Post) *Broker {
	return &Broker{
		observers: make(map[int]Observer),
		snapshot:  snapshot,
	}
}

// Subscribe registers the observer, immediately invokes it once with the
// current snapshot, and returns a cancel capability. Releasing the
// subscription is the caller's responsibility; cancelling twice is a no-op.
func (b *Broker) Subscribe(fn Observer) (cancel func()) {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.observers[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	// Replay outside the lock: the callback may subscribe or cancel.
	b.invoke(fn, b.snapshot())

	return func() { b.unsubscribe(id) }
}

func (b *Broker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.observers[id]; !exists {
		return
	}
	delete(b.observers, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// NotifyAll invokes every observer registered at the moment of the call with
// the same snapshot value, in registration order. Iteration runs over a
// stable copy of the subscriber set, so observers subscribing or cancelling
// from inside a callback never corrupt the batch.
func (b *Broker) NotifyAll(snapshot []*models.Post) {
	b.mu.Lock()
	batch := make([]Observer, 0, len(b.order))
	for _, id := range b.order {
		batch = append(batch, b.observers[id])
	}
	b.mu.Unlock()

	for _, fn := range batch {
		b.invoke(fn, snapshot)
	}
}

// invoke runs one observer callback, containing any panic it raises.
func (b *Broker) invoke(fn Observer, snapshot []*models.Post) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("feed: observer panicked: %v", r)
		}
	}()
	fn(snapshot)
}

// Count reports the number of registered observers.
func (b *Broker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}
