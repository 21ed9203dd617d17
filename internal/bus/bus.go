// Package bus is the cross-screen invalidation bus: process-wide broadcast
// channels carrying entity-level change events between independently loaded
// screens.
package bus

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/entities"
)

var log = logrus.WithField("package", "bus")

// subscriber channels are buffered so a publisher is not coupled to every
// consumer's pace; a full buffer blocks the publisher rather than dropping,
// delivery is at-least-once for current subscribers.
const subscriberBuffer = 16

// Bus ...
type Bus struct {
	mu sync.Mutex

	nextID      int
	postUpdated map[int]chan *entities.Post
	postDeleted map[int]chan string
	refresh     map[int]chan bool

	// level-triggered: replayed to late subscribers.
	refreshRequested bool
}

// New creates new instance of Bus.
func New() *Bus {
	return &Bus{
		postUpdated: make(map[int]chan *entities.Post),
		postDeleted: make(map[int]chan string),
		refresh:     make(map[int]chan bool),
	}
}

// PublishPostUpdated broadcasts a confirmed post mutation.
func (b *Bus) PublishPostUpdated(p *entities.Post) {
	b.mu.Lock()
	subs := make([]chan *entities.Post, 0, len(b.postUpdated))
	for _, ch := range b.postUpdated {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	log.WithField("post", p.ID).Debug("publish post updated")

	for _, ch := range subs {
		ch <- p.Clone()
	}
}

// SubscribePostUpdated returns a channel of updated posts and an unsubscribe
// function. Events published before the subscription are not replayed.
func (b *Bus) SubscribePostUpdated() (<-chan *entities.Post, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan *entities.Post, subscriberBuffer)
	b.postUpdated[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.postUpdated, id)
	}
}

// PublishPostDeleted broadcasts a post removal.
func (b *Bus) PublishPostDeleted(id string) {
	b.mu.Lock()
	subs := make([]chan string, 0, len(b.postDeleted))
	for _, ch := range b.postDeleted {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	log.WithField("post", id).Debug("publish post deleted")

	for _, ch := range subs {
		ch <- id
	}
}

// SubscribePostDeleted ...
func (b *Bus) SubscribePostDeleted() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan string, subscriberBuffer)
	b.postDeleted[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.postDeleted, id)
	}
}

// RequestRefresh sets the level-triggered refresh flag and broadcasts its new
// value. Consumers reset it with RequestRefresh(false) exactly once after
// acting on it.
func (b *Bus) RequestRefresh(v bool) {
	b.mu.Lock()
	b.refreshRequested = v
	subs := make([]chan bool, 0, len(b.refresh))
	for _, ch := range b.refresh {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		ch <- v
	}
}

// RefreshRequested returns the current value of the flag.
func (b *Bus) RefreshRequested() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.refreshRequested
}

// SubscribeRefresh returns a channel of flag values. The current value is
// replayed to the new subscriber immediately.
func (b *Bus) SubscribeRefresh() (<-chan bool, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan bool, subscriberBuffer)
	ch <- b.refreshRequested
	b.refresh[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.refresh, id)
	}
}
