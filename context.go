package tower

import "context"

// contextKey represents an internal key for adding context fields.
// Other packages cannot construct it, so they cannot collide with our keys.
type contextKey int

// List of context keys.
// These are used to store request-scoped information.
const (
	// Stores the identifier of the call in flight.
	callIDContextKey = contextKey(iota + 1)
)

// NewContextWithCallID returns a new context carrying the given call ID.
func NewContextWithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDContextKey, id)
}

// CallIDFromContext returns the ID of the current call, or a blank string if
// none has been assigned.
func CallIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callIDContextKey).(string)
	return id
}
