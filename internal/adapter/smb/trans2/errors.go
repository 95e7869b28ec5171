package trans2

import (
	"errors"
	"fmt"
)

// Codec errors. Every failure returned by Encode or Decode wraps exactly one
// of these; test with errors.Is.
var (
	// ErrOversizePayload indicates a length, offset or count does not fit its
	// wire field during encode.
	ErrOversizePayload = errors.New("trans2: oversize payload")

	// ErrTruncatedBuffer indicates a fixed field or a payload runs past the
	// end of the message.
	ErrTruncatedBuffer = errors.New("trans2: truncated buffer")

	// ErrMisalignedOffset indicates ParameterOffset or DataOffset is not a
	// multiple of 4. Only returned when strictness is above lenient.
	ErrMisalignedOffset = errors.New("trans2: misaligned offset")

	// ErrMalformedLayout indicates the message is not a TRANSACTION2 request
	// or its stated layout is unusable (offset outside the message, payload
	// overlapping the fixed fields, non-canonical placement).
	ErrMalformedLayout = errors.New("trans2: malformed layout")

	// ErrInvalidSetupLength indicates WordCount and SetupCount disagree.
	ErrInvalidSetupLength = errors.New("trans2: invalid setup length")
)

func oversize(field string, value, limit int) error {
	return fmt.Errorf("%w: %s is %d, limit %d", ErrOversizePayload, field, value, limit)
}

// errorLabel maps a codec error to a short metric label.
func errorLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOversizePayload):
		return "oversize"
	case errors.Is(err, ErrTruncatedBuffer):
		return "truncated"
	case errors.Is(err, ErrMisalignedOffset):
		return "misaligned"
	case errors.Is(err, ErrInvalidSetupLength):
		return "invalid_setup"
	case errors.Is(err, ErrMalformedLayout):
		return "malformed"
	default:
		return "error"
	}
}
