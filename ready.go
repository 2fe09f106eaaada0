package tower

import "context"

// chanWaker turns wake-ups into a signal on a channel with capacity one, so a
// wake that happens before the driver starts waiting is not lost.
type chanWaker struct {
	c chan struct{}
}

func newChanWaker() *chanWaker {
	return &chanWaker{c: make(chan struct{}, 1)}
}

func (w *chanWaker) Wake() {
	select {
	case w.c <- struct{}{}:
	default:
	}
}

// Ready polls svc until it is ready. Between Pending results it waits for the
// service to wake it. On a nil return svc is authorized for exactly one Call.
// Errors reported by the service are returned unchanged; if ctx ends first its
// error is returned.
func Ready[Req, Resp any](ctx context.Context, svc Service[Req, Resp]) error {
	w := newChanWaker()
	for {
		err := svc.PollReady(w)
		if !IsPending(err) {
			return err
		}

		select {
		case <-w.c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ReadyOneshot waits for svc to become ready and hands it back, authorized for
// one Call.
func ReadyOneshot[Req, Resp any](ctx context.Context, svc Service[Req, Resp]) (Service[Req, Resp], error) {
	if err := Ready(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Oneshot waits for svc to become ready, calls it once with req and awaits the
// response. svc must not be used afterwards.
func Oneshot[Req, Resp any](ctx context.Context, svc Service[Req, Resp], req Req) (Resp, error) {
	if err := Ready(ctx, svc); err != nil {
		var zero Resp
		return zero, err
	}
	return svc.Call(ctx, req).Await(ctx)
}

// CallReady calls svc and awaits the response. The caller must already hold
// the authorization from a successful Ready.
func CallReady[Req, Resp any](ctx context.Context, svc Service[Req, Resp], req Req) (Resp, error) {
	return svc.Call(ctx, req).Await(ctx)
}
