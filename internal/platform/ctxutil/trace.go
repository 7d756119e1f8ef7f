package ctxutil

import "context"

type traceDataKey struct{}

// TraceData is the per-request correlation carrier. ActorID is the raw
// X-Actor-Id header value when present; it is attribution only and is
// never trusted for authorization.
type TraceData struct {
	TraceID   string
	RequestID string
	ActorID   string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}
