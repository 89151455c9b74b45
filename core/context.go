package core

import (
	"context"
)

// stackContextKey is the key type of Stack in Context.
type stackContextKey int

// stackContextKeyValue is the key value of Stack in Context.
const stackContextKeyValue stackContextKey = 1

// FromContext returns the Stack carried by ctx, or nil if absent.
func FromContext(ctx context.Context) *Stack {
	if s, ok := ctx.Value(stackContextKeyValue).(*Stack); ok {
		return s
	}
	return nil
}

// MustFromContext returns the Stack carried by ctx, or panics if absent.
func MustFromContext(ctx context.Context) *Stack {
	s := FromContext(ctx)
	if s == nil {
		panic("no Stack in context")
	}
	return s
}

// WithStack returns a derived context carrying s, for handlers that need to
// reach back into the facade (e.g. the IP upper-layer demux hook).
func WithStack(ctx context.Context, s *Stack) context.Context {
	return context.WithValue(ctx, stackContextKeyValue, s)
}
