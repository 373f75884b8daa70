package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/images"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteObject(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestConsumer(store objectDeleter) *CleanupConsumer {
	return &CleanupConsumer{
		store: store,
		logg:  logger.New(logger.Options{ServiceName: "consumer-test"}),
	}
}

func eventMessage(t *testing.T, key, reason string) *pubsub.Message {
	t.Helper()
	data, err := json.Marshal(images.CleanupEvent{
		ObjectKey: key,
		Reason:    reason,
		EmittedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return &pubsub.Message{ID: "m1", Data: data}
}

func TestProcess_DeletesReferencedObject(t *testing.T) {
	store := &fakeDeleter{}
	c := newTestConsumer(store)

	ack := c.process(context.Background(), eventMessage(t, "products/abc.png", images.CleanupReasonReplaced))
	assert.True(t, ack)
	assert.Equal(t, []string{"products/abc.png"}, store.deleted)
}

func TestProcess_AcksMalformedPayload(t *testing.T) {
	store := &fakeDeleter{}
	c := newTestConsumer(store)

	// garbage is unrecoverable; redelivery would loop forever
	ack := c.process(context.Background(), &pubsub.Message{ID: "m2", Data: []byte("{not json")})
	assert.True(t, ack)
	assert.Empty(t, store.deleted)
}

func TestProcess_AcksMissingObjectKey(t *testing.T) {
	store := &fakeDeleter{}
	c := newTestConsumer(store)

	ack := c.process(context.Background(), eventMessage(t, "   ", images.CleanupReasonProductDeleted))
	assert.True(t, ack)
	assert.Empty(t, store.deleted)
}

func TestProcess_NacksStorageFailure(t *testing.T) {
	store := &fakeDeleter{err: errors.New("storage unavailable")}
	c := newTestConsumer(store)

	ack := c.process(context.Background(), eventMessage(t, "products/abc.png", images.CleanupReasonReplaced))
	assert.False(t, ack)
}

func TestNewCleanupConsumer_RequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "consumer-test"})

	_, err := NewCleanupConsumer(nil, &pubsub.Subscriber{}, logg)
	require.Error(t, err)

	_, err = NewCleanupConsumer(&fakeDeleter{}, nil, logg)
	require.Error(t, err)

	_, err = NewCleanupConsumer(&fakeDeleter{}, &pubsub.Subscriber{}, nil)
	require.Error(t, err)
}
