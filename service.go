package tower

import (
	"code.hybscloud.com/iox"
	"context"
)

// Service is an asynchronous function from a request to a response, guarded by
// an explicit readiness check.
//
// PollReady is non-blocking. It returns iox.ErrWouldBlock while the service
// is not ready, after arranging for w to be woken once polling again is worth
// it. A nil return authorizes exactly one subsequent Call. Any other error
// means the service cannot accept requests and must be surfaced to the caller.
//
// Call consumes the authorization granted by the last successful PollReady.
// Calling it without one is a programming error and implementations panic
// rather than returning an error.
//
// A Service instance is owned by a single caller; readiness and invocation are
// not atomic across goroutines.
type Service[Req, Resp any] interface {
	PollReady(w Waker) error
	Call(ctx context.Context, req Req) *Future[Resp]
}

// Waker is handed to PollReady so a pending service can ask to be polled again.
type Waker interface {
	Wake()
}

// WakerFunc adapts an ordinary function to a Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// NoopWaker discards wake-ups. Useful when polling by hand.
var NoopWaker Waker = WakerFunc(func() {})

// IsPending reports whether err is the Pending signal returned by PollReady.
func IsPending(err error) bool {
	return iox.IsWouldBlock(err)
}

// Layer wraps a service to produce another service with the same contract and
// added behavior. Layers are stateless factories.
type Layer[Req, Resp any] interface {
	Layer(inner Service[Req, Resp]) Service[Req, Resp]
}

// Middleware describes a service (as opposed to endpoint) middleware. It is
// the function form of a Layer.
type Middleware[Req, Resp any] func(inner Service[Req, Resp]) Service[Req, Resp]

// Layer calls m.
func (m Middleware[Req, Resp]) Layer(inner Service[Req, Resp]) Service[Req, Resp] {
	return m(inner)
}

// Chain composes layers into one. The first layer is the outermost, so its
// Call runs first.
func Chain[Req, Resp any](outer Layer[Req, Resp], others ...Layer[Req, Resp]) Layer[Req, Resp] {
	return Middleware[Req, Resp](func(inner Service[Req, Resp]) Service[Req, Resp] {
		for i := len(others) - 1; i >= 0; i-- {
			inner = others[i].Layer(inner)
		}
		return outer.Layer(inner)
	})
}

// Builder stacks layers in the order they are added and applies them to a
// service. The zero value is an empty builder.
type Builder[Req, Resp any] struct {
	layers []Layer[Req, Resp]
}

// NewBuilder returns an empty Builder.
func NewBuilder[Req, Resp any]() *Builder[Req, Resp] {
	return &Builder[Req, Resp]{}
}

// Layer adds l beneath any previously added layers.
func (b *Builder[Req, Resp]) Layer(l Layer[Req, Resp]) *Builder[Req, Resp] {
	b.layers = append(b.layers, l)
	return b
}

// Service wraps svc with all added layers, the first added being outermost.
func (b *Builder[Req, Resp]) Service(svc Service[Req, Resp]) Service[Req, Resp] {
	for i := len(b.layers) - 1; i >= 0; i-- {
		svc = b.layers[i].Layer(svc)
	}
	return svc
}
