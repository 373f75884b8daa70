package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/stockroomhq/stockroom-backend/internal/images"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type objectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// CleanupConsumer drains the image-cleanup subscription and removes the
// referenced bucket objects.
type CleanupConsumer struct {
	store        objectDeleter
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewCleanupConsumer wires the dependencies for the cleanup worker.
func NewCleanupConsumer(store objectDeleter, subscription *pubsub.Subscriber, logg *logger.Logger) (*CleanupConsumer, error) {
	if store == nil {
		return nil, errors.New("object store is required")
	}
	if subscription == nil {
		return nil, errors.New("cleanup subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &CleanupConsumer{
		store:        store,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes cleanup events until the context is canceled.
func (c *CleanupConsumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process returns true when the message should be acked.
func (c *CleanupConsumer) process(ctx context.Context, msg *pubsub.Message) bool {
	logCtx := c.logg.WithFields(ctx, map[string]any{"message_id": msg.ID})

	var event images.CleanupEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal cleanup event", err)
		return true
	}

	key := strings.TrimSpace(event.ObjectKey)
	if key == "" {
		c.logg.Warn(logCtx, "cleanup event missing object key")
		return true
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"object_key": key,
		"reason":     event.Reason,
	})

	if err := c.store.DeleteObject(ctx, key); err != nil {
		// transient storage failures get redelivered
		c.logg.Error(logCtx, "failed to delete object", err)
		return false
	}

	c.logg.Info(logCtx, "removed unreferenced image object")
	return true
}
