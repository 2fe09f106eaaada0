package inmem

import (
	"context"
	"tower"
)

// EchoService answers every request with a response holding the same text.
// It is always ready and never fails.
type EchoService struct{}

// NewEchoService returns a new instance of EchoService.
func NewEchoService() tower.EchoService {
	return EchoService{}
}

// PollReady always reports ready.
func (EchoService) PollReady(tower.Waker) error {
	return nil
}

// Call returns a future already resolved to the request's text.
func (EchoService) Call(_ context.Context, req tower.EchoRequest) *tower.Future[tower.EchoResponse] {
	return tower.Resolved(tower.EchoResponse{Text: req.Text}, nil)
}
