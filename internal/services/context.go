package services

import "context"

type contextKey string

const (
	setNumberKey contextKey = "set_number"
	jobIDKey     contextKey = "job_id"
)

// WithSetNumber annotates context with the set being processed.
func WithSetNumber(ctx context.Context, setNumber string) context.Context {
	if setNumber == "" {
		return ctx
	}
	return context.WithValue(ctx, setNumberKey, setNumber)
}

// SetNumberFromContext extracts the set number if present.
func SetNumberFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(setNumberKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithJobID annotates context with a job correlation identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the job correlation identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
