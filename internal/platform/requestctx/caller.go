// Package requestctx carries the authenticated caller through request context.
package requestctx

import "context"

// callerContextKey is the context key for the resolved caller identity.
type callerContextKey struct{}

// Caller identifies the authenticated user behind a request.
type Caller struct {
	// UserID is the internal user directory ID.
	UserID string
	// Subject is the external identity provider subject.
	Subject string
}

// WithCaller stores the resolved caller identity in context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// SubjectFromContext returns the verified identity subject stored in
// context. The subject is available even before the caller has a directory
// record.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	if !ok || caller.Subject == "" {
		return "", false
	}
	return caller.Subject, true
}

// CallerFromContext returns the caller identity stored in context.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	if !ok || caller.UserID == "" {
		return Caller{}, false
	}
	return caller, true
}
