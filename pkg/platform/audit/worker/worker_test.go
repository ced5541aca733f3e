package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "innoport/pkg/domain"
	audit "innoport/pkg/platform/audit"
	auditmemory "innoport/pkg/platform/audit/store/memory"
)

func TestRunConsumesUntilCancelled(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	inbox := make(chan audit.Event, 4)
	w := NewWorker(store, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	userID := id.NewUserID()
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventCollabRequested)}
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventCollabResponded)}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := store.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		if len(events) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancellation")
	}

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRunFlushesBufferedEventsOnCancel(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	inbox := make(chan audit.Event, 4)
	w := NewWorker(store, inbox, nil)

	userID := id.NewUserID()
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventStartupVerified)}
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventInterestExpressed)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	events, err2 := store.ListByUser(context.Background(), userID)
	require.NoError(t, err2)
	assert.Len(t, events, 2)
}

// failOnceStore rejects the first append, then behaves.
type failOnceStore struct {
	*auditmemory.InMemoryStore

	mu     sync.Mutex
	failed bool
}

func (s *failOnceStore) Append(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	first := !s.failed
	s.failed = true
	s.mu.Unlock()
	if first {
		return assert.AnError
	}
	return s.InMemoryStore.Append(ctx, event)
}

func TestAppendFailureDoesNotStopTheDrain(t *testing.T) {
	store := &failOnceStore{InMemoryStore: auditmemory.NewInMemoryStore()}
	inbox := make(chan audit.Event, 4)
	w := NewWorker(store, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	userID := id.NewUserID()
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventPatentFiled)}
	inbox <- audit.Event{UserID: userID, Action: string(audit.EventPatentStatusChanged)}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := store.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		if len(events) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 1, "the failed append is dropped, the next one lands")
}
