package tower_test

import (
	"code.hybscloud.com/iox"
	"context"
	"strings"
	"sync/atomic"
	"tower"
)

// pendingService reports Pending for its first `pending` polls, handing the
// waker to wake each time, and is ready afterwards. Call upper-cases the request.
type pendingService struct {
	pending    int
	wake       func(w tower.Waker)
	polls      int
	calls      int
	authorized bool
}

func (s *pendingService) PollReady(w tower.Waker) error {
	s.polls++
	if s.polls <= s.pending {
		s.authorized = false
		if s.wake != nil {
			s.wake(w)
		}
		return iox.ErrWouldBlock
	}
	s.authorized = true
	return nil
}

func (s *pendingService) Call(_ context.Context, req string) *tower.Future[string] {
	if !s.authorized {
		panic("pendingService called without readiness")
	}
	s.authorized = false
	s.calls++
	return tower.Resolved(strings.ToUpper(req), nil)
}

// brokenService is never usable: PollReady reports err.
type brokenService struct {
	err error
}

func (s brokenService) PollReady(tower.Waker) error { return s.err }

func (s brokenService) Call(context.Context, string) *tower.Future[string] {
	panic("brokenService must never be called")
}

// countingWaker counts wake-ups.
type countingWaker struct {
	n atomic.Int64
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func (w *countingWaker) Count() int { return int(w.n.Load()) }
