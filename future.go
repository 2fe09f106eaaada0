package tower

import "context"

// Future holds the eventual result of a Call.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Resolved returns a future that is already resolved to (v, err).
func Resolved[T any](v T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v, err: err}
	close(f.done)
	return f
}

// Spawn runs fn on its own goroutine and returns a future resolving to its
// result.
func Spawn[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.val, f.err = fn(ctx)
		close(f.done)
	}()
	return f
}

// Done returns a channel closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future is resolved.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future resolves or ctx is done. A resolved future
// always wins over a cancelled ctx.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f.IsDone() {
		return f.val, f.err
	}
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Inspect returns a future resolving to the same result as f, after fn has
// observed that result. fn runs on the calling goroutine when f is already
// resolved.
func Inspect[T any](f *Future[T], fn func(v T, err error)) *Future[T] {
	if f.IsDone() {
		fn(f.val, f.err)
		return f
	}

	out := &Future[T]{done: make(chan struct{})}
	go func() {
		<-f.done
		fn(f.val, f.err)
		out.val, out.err = f.val, f.err
		close(out.done)
	}()
	return out
}
