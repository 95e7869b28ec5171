// Package bytesize parses the section sizes accepted by trans2ctl flags,
// such as "12", "4Ki" or "1.5KB".
package bytesize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ByteSize is a size in bytes. It implements pflag.Value so it can be bound
// directly to a command-line flag.
type ByteSize uint64

// Units accepted by ParseByteSize.
const (
	B   ByteSize = 1
	KB  ByteSize = 1000
	KiB ByteSize = 1024
	MB  ByteSize = 1000 * KB
	MiB ByteSize = 1024 * KiB
)

var byteSizePattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*([a-z]*)\s*$`)

var unitMultipliers = map[string]ByteSize{
	"":    B,
	"b":   B,
	"k":   KB,
	"kb":  KB,
	"ki":  KiB,
	"kib": KiB,
	"m":   MB,
	"mb":  MB,
	"mi":  MiB,
	"mib": MiB,
}

// ParseByteSize parses a number with an optional B, K(B), Ki(B), M(B) or
// Mi(B) suffix, case-insensitively. Fractions are truncated to whole bytes.
func ParseByteSize(s string) (ByteSize, error) {
	m := byteSizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	mult, ok := unitMultipliers[strings.ToLower(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
	}

	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || n > math.MaxUint64/uint64(mult) {
			return 0, fmt.Errorf("byte size out of range: %q", s)
		}
		return ByteSize(n) * mult, nil
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in byte size: %q", m[1])
	}
	v := f * float64(mult)
	if v >= math.MaxUint64 {
		return 0, fmt.Errorf("byte size out of range: %q", s)
	}
	return ByteSize(v), nil
}

// Int returns the size as an int, failing when it exceeds limit.
func (b ByteSize) Int(limit int) (int, error) {
	if uint64(b) > uint64(limit) {
		return 0, fmt.Errorf("%s exceeds the limit of %d bytes", b, limit)
	}
	return int(b), nil
}

// String renders the size with the largest binary unit that keeps it exact,
// so the result parses back to the same value.
func (b ByteSize) String() string {
	switch {
	case b != 0 && b%MiB == 0:
		return fmt.Sprintf("%dMiB", b/MiB)
	case b != 0 && b%KiB == 0:
		return fmt.Sprintf("%dKiB", b/KiB)
	default:
		return fmt.Sprintf("%dB", uint64(b))
	}
}

// Set implements pflag.Value.
func (b *ByteSize) Set(s string) error {
	v, err := ParseByteSize(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Type implements pflag.Value.
func (b *ByteSize) Type() string {
	return "bytes"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	return b.Set(string(text))
}

// MarshalText implements encoding.TextMarshaler.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
