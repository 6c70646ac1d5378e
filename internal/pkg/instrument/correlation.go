package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the correlation id in the context so it can be
// attached to every log line and outgoing message for this request.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// GetCorrelationID returns the correlation id stored in the context, or an
// empty string when none was set.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return ""
	}
	return cid
}
