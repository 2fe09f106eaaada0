package tower_test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
	"tower"
)

func TestResolved(t *testing.T) {
	f := tower.Resolved(42, nil)
	assert.True(t, f.IsDone())

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResolved_WinsOverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errBoom := errors.New("boom")
	v, err := tower.Resolved("v", errBoom).Await(ctx)
	assert.Same(t, errBoom, err)
	assert.Equal(t, "v", v)
}

func TestSpawn(t *testing.T) {
	release := make(chan struct{})
	f := tower.Spawn(context.Background(), func(context.Context) (string, error) {
		<-release
		return "done", nil
	})
	assert.False(t, f.IsDone())

	close(release)
	<-f.Done()

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestAwait_ContextEnds(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := tower.Spawn(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	v, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, v)
}

func TestInspect_ResolvedRunsSynchronously(t *testing.T) {
	var seen string
	f := tower.Inspect(tower.Resolved("x", nil), func(v string, err error) {
		seen = v
	})
	assert.Equal(t, "x", seen)
	assert.True(t, f.IsDone())
}

func TestInspect_PendingRunsAfterResolution(t *testing.T) {
	release := make(chan struct{})
	inner := tower.Spawn(context.Background(), func(context.Context) (int, error) {
		<-release
		return 0, errors.New("late")
	})

	var inspected error
	f := tower.Inspect(inner, func(_ int, err error) {
		inspected = err
	})
	assert.False(t, f.IsDone())

	close(release)
	_, err := f.Await(context.Background())
	assert.EqualError(t, err, "late")
	assert.Equal(t, err, inspected)
}
