package changelog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
)

func TestNewPoller_RequiresCallbacks(t *testing.T) {
	fetch := func(ctx context.Context) ([]changelog.EntryDTO, error) { return nil, nil }
	onUpdate := func(entries []changelog.EntryDTO) {}

	_, err := NewPoller(time.Second, nil, onUpdate, nil)
	require.Error(t, err)

	_, err = NewPoller(time.Second, fetch, nil, nil)
	require.Error(t, err)

	p, err := NewPoller(0, fetch, onUpdate, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestPoller_FetchesImmediatelyAndTicks(t *testing.T) {
	var fetches atomic.Int64
	updated := make(chan []changelog.EntryDTO, 16)

	fetch := func(ctx context.Context) ([]changelog.EntryDTO, error) {
		fetches.Add(1)
		return []changelog.EntryDTO{{ItemName: "Potion"}}, nil
	}
	onUpdate := func(entries []changelog.EntryDTO) { updated <- entries }

	p, err := NewPoller(10*time.Millisecond, fetch, onUpdate, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// the first refresh happens before the first tick
	select {
	case entries := <-updated:
		require.Len(t, entries, 1)
		assert.Equal(t, "Potion", entries[0].ItemName)
	case <-time.After(time.Second):
		t.Fatal("no initial refresh")
	}

	// at least one tick-driven refresh follows
	select {
	case <-updated:
	case <-time.After(time.Second):
		t.Fatal("no tick refresh")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}

	assert.GreaterOrEqual(t, fetches.Load(), int64(2))
}

func TestPoller_FetchFailureSkipsUpdate(t *testing.T) {
	var updates atomic.Int64
	fetch := func(ctx context.Context) ([]changelog.EntryDTO, error) {
		return nil, errors.New("backend down")
	}
	onUpdate := func(entries []changelog.EntryDTO) { updates.Add(1) }

	p, err := NewPoller(5*time.Millisecond, fetch, onUpdate, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	assert.Equal(t, int64(0), updates.Load())
}
