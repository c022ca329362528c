package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

func startDispatcher(t *testing.T, workers int) (*Dispatcher, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(workers, zerolog.Nop())
	d.Start(ctx)
	t.Cleanup(cancel)
	return d, cancel
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	for _, key := range []string{"a", "user-1", "65f0c0ffee"} {
		idx := d.shardIndex(key)
		assert.Equal(t, idx, d.shardIndex(key))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_DoReturnsResult(t *testing.T) {
	d, _ := startDispatcher(t, 2)
	boom := errors.New("boom")

	require.NoError(t, d.Do(context.Background(), "u1", func(context.Context) error { return nil }))
	assert.ErrorIs(t, d.Do(context.Background(), "u1", func(context.Context) error { return boom }), boom)
}

func TestDispatcher_SameKeyNeverOverlaps(t *testing.T) {
	d, _ := startDispatcher(t, 4)

	var (
		running int32
		overlap int32
		counter int
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.Do(context.Background(), "same-user", func(context.Context) error {
				if atomic.AddInt32(&running, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				counter++
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlap), "jobs for one key ran concurrently")
	assert.Equal(t, 50, counter)
}

func TestDispatcher_DifferentKeysProgress(t *testing.T) {
	d, _ := startDispatcher(t, 8)

	var done int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := d.Do(context.Background(), fmt.Sprintf("user-%d", i), func(context.Context) error {
				atomic.AddInt32(&done, 1)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 20, atomic.LoadInt32(&done))
}

func TestDispatcher_PanicBecomesError(t *testing.T) {
	d, _ := startDispatcher(t, 1)

	err := d.Do(context.Background(), "u1", func(context.Context) error { panic("bad job") })
	require.Error(t, err)

	// The shard keeps serving.
	assert.NoError(t, d.Do(context.Background(), "u1", func(context.Context) error { return nil }))
}

func TestDispatcher_CancelledCaller(t *testing.T) {
	d, _ := startDispatcher(t, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), "u1", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	defer close(release)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Do(ctx, "u1", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_StoppedAfterShutdown(t *testing.T) {
	d, cancel := startDispatcher(t, 1)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case <-d.stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	ran := false
	err := d.Do(context.Background(), "u1", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrStopped)
	assert.False(t, ran)
}

func TestErrStopped_IsTransient(t *testing.T) {
	assert.Equal(t, domain.KindTransient, domain.KindOf(ErrStopped))
}
