package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently so log lines from the codec, the CLI and the
// callers that embed them can be queried together.
const (
	// ========================================================================
	// Correlation
	// ========================================================================
	KeyTraceID   = "trace_id"  // Per-invocation correlation ID
	KeyOperation = "operation" // encode, decode, layout
	KeySource    = "source"    // Where the bytes came from (file, stdin, arg)

	// ========================================================================
	// SMB1 Envelope
	// ========================================================================
	KeyCommand    = "command"    // SMB_COM_* name
	KeySubcommand = "subcommand" // TRANS2_* name from Setup[0]
	KeyMID        = "mid"        // Multiplex ID
	KeyTID        = "tid"        // Tree ID
	KeyUID        = "uid"        // User ID
	KeyStatus     = "status"     // NT_STATUS name

	// ========================================================================
	// Layout
	// ========================================================================
	KeyField      = "field"       // Wire field name (parameter_offset, ...)
	KeyOffset     = "offset"      // Absolute byte offset
	KeyCount      = "count"       // Byte or word count
	KeySetupCount = "setup_count" // Number of setup words
	KeyLength     = "length"      // Total message length
	KeyStrictness = "strictness"  // Decode strictness level

	// ========================================================================
	// Outcome
	// ========================================================================
	KeyError      = "error"       // Error message
	KeyDurationMs = "duration_ms" // Elapsed time in milliseconds
)

// TraceID returns a slog.Attr for the correlation ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// Operation returns a slog.Attr for the codec operation
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Command returns a slog.Attr for an SMB1 command name
func Command(name fmt.Stringer) slog.Attr {
	return slog.String(KeyCommand, name.String())
}

// Subcommand returns a slog.Attr for a TRANS2 sub-command name
func Subcommand(name fmt.Stringer) slog.Attr {
	return slog.String(KeySubcommand, name.String())
}

// MID returns a slog.Attr for the multiplex ID
func MID(mid uint16) slog.Attr {
	return slog.Int(KeyMID, int(mid))
}

// Field returns a slog.Attr naming a wire field
func Field(name string) slog.Attr {
	return slog.String(KeyField, name)
}

// Offset returns a slog.Attr for an absolute byte offset
func Offset(off int) slog.Attr {
	return slog.Int(KeyOffset, off)
}

// Count returns a slog.Attr for a byte count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Length returns a slog.Attr for a message length
func Length(n int) slog.Attr {
	return slog.Int(KeyLength, n)
}

// Strictness returns a slog.Attr for the decode strictness
func Strictness(s fmt.Stringer) slog.Attr {
	return slog.String(KeyStrictness, s.String())
}

// Err returns a slog.Attr for an error; nil errors produce an empty attr
// that handlers skip.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// DurationMs returns a slog.Attr for elapsed milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}
