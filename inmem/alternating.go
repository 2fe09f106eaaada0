package inmem

import (
	"code.hybscloud.com/iox"
	"context"
	"tower"
)

// AlternatingReadyService models a service under backpressure: starting from
// construction its readiness alternates Pending, Ready, Pending, Ready on
// successive polls. It never fails.
//
// The zero value is ready for use.
type AlternatingReadyService struct {
	// Whether the next PollReady reports ready.
	readyNext bool

	// Set by a successful PollReady, cleared by Call or a Pending poll.
	authorized bool
}

// NewAlternatingReadyService returns a new instance of AlternatingReadyService.
func NewAlternatingReadyService() tower.AlternatingReadyService {
	return &AlternatingReadyService{}
}

// PollReady alternately reports Pending and ready. On Pending it wakes w right
// away so the driver polls again, and that next poll is always ready.
func (s *AlternatingReadyService) PollReady(w tower.Waker) error {
	if !s.readyNext {
		s.readyNext = true
		s.authorized = false
		w.Wake()
		return iox.ErrWouldBlock
	}

	s.readyNext = false
	s.authorized = true
	return nil
}

// Call returns a resolved AlternatingReadyResponse.
//
// It panics unless the last PollReady reported ready and no Call has consumed
// that authorization yet.
func (s *AlternatingReadyService) Call(_ context.Context, _ tower.AlternatingReadyRequest) *tower.Future[tower.AlternatingReadyResponse] {
	if !s.authorized {
		panic("service not ready; PollReady must be called first")
	}
	s.authorized = false
	return tower.Resolved(tower.AlternatingReadyResponse{}, nil)
}
