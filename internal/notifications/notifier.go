package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tienda3x1/storefront/pkg/enums"
	"github.com/tienda3x1/storefront/pkg/logger"
)

const defaultCapacity = 50

// Notification is one user-facing message emitted by cart or checkout flows.
type Notification struct {
	ID        uuid.UUID               `json:"id"`
	Level     enums.NotificationLevel `json:"level"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"created_at"`
}

// Notifier logs and retains a bounded window of recent notifications for the
// rendering boundary to poll.
type Notifier struct {
	mu       sync.Mutex
	recent   []Notification
	capacity int
	logg     *logger.Logger
}

// NewNotifier builds a notifier retaining up to capacity entries; capacity
// values below one fall back to the default window.
func NewNotifier(logg *logger.Logger, capacity int) *Notifier {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &Notifier{capacity: capacity, logg: logg}
}

// Notify records a notification and mirrors it to the structured log.
func (n *Notifier) Notify(ctx context.Context, level enums.NotificationLevel, message string) {
	entry := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	n.mu.Lock()
	n.recent = append(n.recent, entry)
	if len(n.recent) > n.capacity {
		n.recent = n.recent[len(n.recent)-n.capacity:]
	}
	n.mu.Unlock()

	if n.logg != nil {
		ctx = n.logg.WithFields(ctx, map[string]any{
			"notification_id": entry.ID.String(),
			"level":           string(level),
		})
		n.logg.Info(ctx, message)
	}
}

// Recent returns the retained notifications, newest first, capped at limit
// (zero or negative means all retained entries).
func (n *Notifier) Recent(limit int) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := len(n.recent)
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]Notification, 0, count)
	for i := len(n.recent) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, n.recent[i])
	}
	return out
}
