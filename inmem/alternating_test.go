package inmem_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"tower"
	"tower/inmem"
)

const notReady = "service not ready; PollReady must be called first"

type countingWaker struct {
	n atomic.Int64
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func TestAlternatingReadyService_PollReady(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()

	var w countingWaker
	assert.True(t, tower.IsPending(svc.PollReady(&w)))
	assert.EqualValues(t, 1, w.n.Load())
	assert.NoError(t, svc.PollReady(&w))
	assert.EqualValues(t, 1, w.n.Load(), "ready polls do not wake")
}

func TestAlternatingReadyService_Alternates(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()

	var w countingWaker
	for i := 1; i <= 100; i++ {
		err := svc.PollReady(&w)
		if i%2 == 1 {
			require.Truef(t, tower.IsPending(err), "poll %d: want pending, got %v", i, err)
		} else {
			require.NoErrorf(t, err, "poll %d", i)
		}
	}
	assert.EqualValues(t, 50, w.n.Load())
}

func TestAlternatingReadyService_AlternatesAcrossCalls(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()

	for i := 0; i < 10; i++ {
		require.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))
		require.NoError(t, svc.PollReady(tower.NoopWaker))

		_, err := svc.Call(context.Background(), tower.AlternatingReadyRequest{}).Await(context.Background())
		require.NoError(t, err)
	}
}

func TestAlternatingReadyService_ZeroValue(t *testing.T) {
	var svc inmem.AlternatingReadyService
	assert.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))
	assert.NoError(t, svc.PollReady(tower.NoopWaker))
}

func TestAlternatingReadyService_CallAfterPendingPanics(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()
	require.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))

	assert.PanicsWithValue(t, notReady, func() {
		svc.Call(context.Background(), tower.AlternatingReadyRequest{})
	})
}

func TestAlternatingReadyService_CallWithoutPollPanics(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()

	assert.PanicsWithValue(t, notReady, func() {
		svc.Call(context.Background(), tower.AlternatingReadyRequest{})
	})
}

func TestAlternatingReadyService_OneCallPerReadiness(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()
	require.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))
	require.NoError(t, svc.PollReady(tower.NoopWaker))

	f := svc.Call(context.Background(), tower.AlternatingReadyRequest{})
	require.True(t, f.IsDone())
	response, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tower.AlternatingReadyResponse{}, response)

	assert.PanicsWithValue(t, notReady, func() {
		svc.Call(context.Background(), tower.AlternatingReadyRequest{})
	})
}

func TestAlternatingReadyService_PendingWithdrawsAuthorization(t *testing.T) {
	svc := inmem.NewAlternatingReadyService()
	require.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))
	require.NoError(t, svc.PollReady(tower.NoopWaker))
	require.True(t, tower.IsPending(svc.PollReady(tower.NoopWaker)))

	assert.PanicsWithValue(t, notReady, func() {
		svc.Call(context.Background(), tower.AlternatingReadyRequest{})
	})
}

func TestAlternatingReadyService_Oneshot(t *testing.T) {
	for i := 0; i < 3; i++ {
		_, err := tower.Oneshot(context.Background(), inmem.NewAlternatingReadyService(), tower.AlternatingReadyRequest{})
		require.NoError(t, err)
	}
}
