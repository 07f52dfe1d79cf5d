package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

// Clock returns the current time; tests pass a fixed one.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

type journal struct {
	events repository.EventRepository
	clock  Clock
}

// record journals one catalog action. A journal failure never fails the action.
func (j journal) record(ctx context.Context, action, details string) {
	if j.events == nil {
		return
	}
	event := entity.CatalogEvent{
		ID:        uuid.New().String(),
		Action:    action,
		Details:   details,
		Timestamp: j.clock(),
	}
	if err := j.events.LogEvent(ctx, event); err != nil {
		logx.Warn().Err(err).Str("action", action).Msg("failed to journal catalog event")
	}
}
