package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context
type LogContext struct {
	TraceID   string    // Correlation ID for one CLI invocation or caller request
	Operation string    // encode, decode, layout
	Source    string    // Input origin (file path, "stdin", "arg")
	MID       uint16    // SMB1 multiplex ID, once known
	TID       uint16    // SMB1 tree ID, once known
	UID       uint16    // SMB1 user ID, once known
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given operation
func NewLogContext(traceID, operation string) *LogContext {
	return &LogContext{
		TraceID:   traceID,
		Operation: operation,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithIDs returns a copy with the SMB1 identifiers set
func (lc *LogContext) WithIDs(mid, tid, uid uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.MID = mid
		clone.TID = tid
		clone.UID = uid
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
