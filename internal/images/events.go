package images

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

const publishTimeout = 10 * time.Second

// Cleanup event reasons.
const (
	CleanupReasonReplaced       = "replaced"
	CleanupReasonProductDeleted = "product_deleted"
)

// CleanupEvent asks the worker to remove a bucket object that no product
// references anymore.
type CleanupEvent struct {
	ObjectKey string    `json:"objectKey"`
	Reason    string    `json:"reason"`
	EmittedAt time.Time `json:"emittedAt"`
}

// CleanupPublisher emits cleanup events onto the image-cleanup topic. A nil
// publisher disables the pipeline; callers treat publish failures as
// non-fatal since the mutation has already committed.
type CleanupPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewCleanupPublisher wraps the topic publisher. Publisher may be nil when
// the pipeline is not configured.
func NewCleanupPublisher(publisher *pubsub.Publisher, logg *logger.Logger) *CleanupPublisher {
	return &CleanupPublisher{publisher: publisher, logg: logg}
}

// Publish emits one cleanup event. Failures are logged and swallowed; a
// leaked object is preferable to failing a committed mutation.
func (p *CleanupPublisher) Publish(ctx context.Context, objectKey, reason string) {
	if p == nil || p.publisher == nil || objectKey == "" {
		return
	}

	data, err := json.Marshal(CleanupEvent{
		ObjectKey: objectKey,
		Reason:    reason,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		p.warn(ctx, objectKey, err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := p.publisher.Publish(publishCtx, &pubsub.Message{Data: data})
	if result == nil {
		p.warn(ctx, objectKey, fmt.Errorf("publisher returned nil result"))
		return
	}
	if _, err := result.Get(publishCtx); err != nil {
		p.warn(ctx, objectKey, err)
	}
}

func (p *CleanupPublisher) warn(ctx context.Context, objectKey string, err error) {
	if p.logg == nil {
		return
	}
	ctx = p.logg.WithFields(ctx, map[string]any{"object_key": objectKey})
	p.logg.Warn(ctx, fmt.Sprintf("image cleanup publish failed: %v", err))
}
