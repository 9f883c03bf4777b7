package events

import (
	"context"
	"sync"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBuffer = 16

// Subscription receives the badge events of one user. Events published
// before Subscribe returned are never replayed.
type Subscription struct {
	ID     uuid.UUID
	UserID string
	C      <-chan domain.BadgeUnlockedEvent

	out  chan domain.BadgeUnlockedEvent
	once sync.Once
}

// Bus is an in-process observer registry. Create one per process and pass
// it to whoever publishes or listens.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[uuid.UUID]*Subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[uuid.UUID]*Subscription)}
}

// Subscribe registers a listener for userID's events. buffer <= 0 uses DefaultBuffer.
func (b *Bus) Subscribe(userID string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	out := make(chan domain.BadgeUnlockedEvent, buffer)
	sub := &Subscription{ID: uuid.New(), UserID: userID, C: out, out: out}

	b.mu.Lock()
	defer b.mu.Unlock()
	clients, ok := b.subs[userID]
	if !ok {
		clients = make(map[uuid.UUID]*Subscription)
		b.subs[userID] = clients
	}
	clients[sub.ID] = sub

	logger.Get().Debug("Event subscriber added", zap.String("user_id", userID), zap.String("subscription_id", sub.ID.String()))
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	if clients, ok := b.subs[sub.UserID]; ok {
		delete(clients, sub.ID)
		if len(clients) == 0 {
			delete(b.subs, sub.UserID)
		}
	}
	b.mu.Unlock()

	sub.once.Do(func() { close(sub.out) })
}

// Publish hands event to every current subscriber of event.UserID without
// blocking. A subscriber whose buffer is full misses the event.
func (b *Bus) Publish(_ context.Context, event domain.BadgeUnlockedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[event.UserID] {
		select {
		case sub.out <- event:
		default:
			logger.Get().Warn("Dropping badge event; subscriber buffer full",
				zap.String("user_id", event.UserID),
				zap.String("subscription_id", sub.ID.String()),
				zap.String("badge_id", event.ID))
		}
	}
}

// SubscriberCount reports how many listeners userID has.
func (b *Bus) SubscriberCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

var _ domain.EventPublisher = (*Bus)(nil)
