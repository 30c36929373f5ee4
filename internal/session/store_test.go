package session

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscope/internal/errors"
	"talentscope/internal/types"
)

func newTestStore() *Store {
	logger, _ := errors.New("error")
	return NewStore(time.Hour, time.Hour, logger)
}

func TestStorePutGet(t *testing.T) {
	store := newTestStore()
	sess := &types.InterviewSession{ID: "s1", Status: "in_progress"}

	store.Put(sess)

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore()

	_, err := store.Get("nope")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeSessionNotFound, appErr.Code)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore()
	store.Put(&types.InterviewSession{ID: "s1"})

	store.Delete("s1")

	_, err := store.Get("s1")
	assert.Error(t, err, "deleted session still present")
}

func TestStoreList(t *testing.T) {
	store := newTestStore()
	store.Put(&types.InterviewSession{ID: "a"})
	store.Put(&types.InterviewSession{ID: "b"})
	store.Put(&types.InterviewSession{ID: "c"})

	assert.Len(t, store.List(), 3)
}

func TestStoreTTLExpiry(t *testing.T) {
	logger, _ := errors.New("error")
	store := NewStore(10*time.Millisecond, time.Millisecond, logger)
	store.Put(&types.InterviewSession{ID: "ephemeral"})

	time.Sleep(50 * time.Millisecond)

	_, err := store.Get("ephemeral")
	assert.Error(t, err, "expired session still present")
}

func TestStoreWithLockMissing(t *testing.T) {
	store := newTestStore()
	err := store.WithLock("nope", func(*types.InterviewSession) error { return nil })
	assert.Error(t, err)
}

func TestStoreWithLockPropagatesError(t *testing.T) {
	store := newTestStore()
	store.Put(&types.InterviewSession{ID: "s1"})

	sentinel := fmt.Errorf("boom")
	err := store.WithLock("s1", func(*types.InterviewSession) error { return sentinel })
	assert.True(t, stderrors.Is(err, sentinel))
}

// Concurrent mutations of one session must serialize under its lock.
func TestStoreWithLockSerializes(t *testing.T) {
	store := newTestStore()
	store.Put(&types.InterviewSession{ID: "s1"})

	const workers = 32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithLock("s1", func(sess *types.InterviewSession) error {
				sess.Responses = append(sess.Responses, "r")
				return nil
			})
		}()
	}
	wg.Wait()

	sess, err := store.Get("s1")
	require.NoError(t, err)
	assert.Len(t, sess.Responses, workers)
}
