// Package ratelimit provides a layer that holds services back until a token
// bucket grants a permit.
package ratelimit

import (
	"code.hybscloud.com/iox"
	"context"
	"golang.org/x/time/rate"
	"time"
	"tower"
)

// NewLayer returns a layer limiting wrapped services with limiter. The limiter
// may be shared by any number of wrapped services.
func NewLayer[Req, Resp any](limiter *rate.Limiter) tower.Layer[Req, Resp] {
	return tower.Middleware[Req, Resp](func(inner tower.Service[Req, Resp]) tower.Service[Req, Resp] {
		return NewService(limiter, inner)
	})
}

// Service is ready only when its limiter has granted a permit and the inner
// service is ready. A permit is spent by Call.
type Service[Req, Resp any] struct {
	inner   tower.Service[Req, Resp]
	limiter *rate.Limiter

	// Set once a token has been taken for the next Call.
	permitted bool
}

// NewService returns a Service owning inner.
func NewService[Req, Resp any](limiter *rate.Limiter, inner tower.Service[Req, Resp]) *Service[Req, Resp] {
	return &Service[Req, Resp]{
		inner:   inner,
		limiter: limiter,
	}
}

// PollReady takes a token from the limiter, then polls the inner service.
// When no token is available it reports Pending and wakes w once one is due.
// A limiter that can never grant a token yields an ENOTREADY error.
func (s *Service[Req, Resp]) PollReady(w tower.Waker) error {
	if !s.permitted {
		r := s.limiter.Reserve()
		if !r.OK() {
			return tower.Errorf(tower.ENOTREADY, "Rate limit burst of %d can never be satisfied.", s.limiter.Burst())
		}
		if d := r.Delay(); d > 0 {
			r.Cancel()
			time.AfterFunc(d, w.Wake)
			return iox.ErrWouldBlock
		}
		s.permitted = true
	}
	return s.inner.PollReady(w)
}

// Call spends the permit and delegates to the inner service.
//
// It panics if PollReady has not granted a permit.
func (s *Service[Req, Resp]) Call(ctx context.Context, req Req) *tower.Future[Resp] {
	if !s.permitted {
		panic("service not ready; PollReady must be called first")
	}
	s.permitted = false
	return s.inner.Call(ctx, req)
}
