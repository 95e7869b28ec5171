package trans2

import (
	"context"
	"fmt"
	"strings"
)

// Strictness selects how Decode treats offsets that are in bounds but not
// where the encoder would have put them.
type Strictness int

const (
	// StrictnessLenient accepts misaligned offsets, logging a warning.
	StrictnessLenient Strictness = iota

	// StrictnessStrict rejects misaligned offsets.
	StrictnessStrict

	// StrictnessCanonical rejects any layout that differs from the one Plan
	// would produce for the same payloads.
	StrictnessCanonical
)

var strictnessNames = [...]string{
	StrictnessLenient:   "lenient",
	StrictnessStrict:    "strict",
	StrictnessCanonical: "canonical",
}

// String returns the lowercase name of the strictness level.
func (s Strictness) String() string {
	if s >= 0 && int(s) < len(strictnessNames) {
		return strictnessNames[s]
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// ParseStrictness parses a strictness name, case-insensitively.
func ParseStrictness(name string) (Strictness, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range strictnessNames {
		if s == n {
			return Strictness(i), nil
		}
	}
	return StrictnessLenient, fmt.Errorf("invalid strictness %q (valid: lenient, strict, canonical)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strictness) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strictness) UnmarshalText(text []byte) error {
	v, err := ParseStrictness(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Options configures a Codec.
type Options struct {
	// Strictness controls decode validation. The zero value is lenient.
	Strictness Strictness

	// Metrics receives codec counters. Nil disables metrics.
	Metrics *Metrics
}

// Codec encodes and decodes TRANSACTION2 requests.
type Codec struct {
	opts Options
}

// NewCodec creates a Codec with the given options.
func NewCodec(opts Options) *Codec {
	return &Codec{opts: opts}
}

// Strictness returns the decode strictness of the codec.
func (c *Codec) Strictness() Strictness {
	return c.opts.Strictness
}

var defaultCodec = NewCodec(Options{})

// Encode serializes req with a lenient, metric-less codec.
func Encode(req *Request) ([]byte, error) {
	return defaultCodec.Encode(req)
}

// Decode parses buf with a lenient, metric-less codec.
func Decode(buf []byte) (*Request, *Layout, error) {
	return defaultCodec.Decode(buf)
}

// Encode serializes req into a complete SMB1 message.
func (c *Codec) Encode(req *Request) ([]byte, error) {
	return c.EncodeContext(context.Background(), req)
}

// Decode parses a complete SMB1 message into a Request and the layout it
// was found in.
func (c *Codec) Decode(buf []byte) (*Request, *Layout, error) {
	return c.DecodeContext(context.Background(), buf)
}
