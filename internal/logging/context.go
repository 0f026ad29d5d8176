package logging

import "context"

type requestIDKey struct{}

// WithRequestID tags ctx with the id sent as X-Request-ID. Both Logger
// implementations add it to every line logged under ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
