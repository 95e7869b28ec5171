package trans2

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

// Absolute offsets of the derived fields in an encoded request.
const (
	offParameterCount  = 51
	offParameterOffset = 53
	offDataCount       = 55
	offDataOffset      = 57
	offSetupCount      = 59
)

func seq(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func putU16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:], v)
}

func getU16(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off:])
}

func mustEncode(t *testing.T, req *Request) []byte {
	t.Helper()
	raw, err := Encode(req)
	require.NoError(t, err)
	return raw
}

func TestEncodeQueryPathInformation(t *testing.T) {
	req := &Request{
		Setup:      []uint16{uint16(types.Trans2QueryPathInformation)},
		Parameters: seq(12, 1),
	}

	raw := mustEncode(t, req)

	require.Len(t, raw, 80)
	assert.Equal(t, []byte{0xFF, 'S', 'M', 'B', 0x32}, raw[:5])
	assert.Equal(t, byte(15), raw[header.Size], "word count")
	assert.Equal(t, uint16(12), getU16(raw, 33), "total parameter count")
	assert.Equal(t, uint16(0), getU16(raw, 35), "total data count")
	assert.Equal(t, uint16(12), getU16(raw, offParameterCount))
	assert.Equal(t, uint16(68), getU16(raw, offParameterOffset))
	assert.Equal(t, uint16(0), getU16(raw, offDataCount))
	assert.Equal(t, uint16(80), getU16(raw, offDataOffset))
	assert.Equal(t, byte(1), raw[offSetupCount])
	assert.Equal(t, uint16(0x0005), getU16(raw, 61), "setup[0]")
	assert.Equal(t, uint16(15), getU16(raw, 63), "byte count")
	assert.Equal(t, []byte{0, 0, 0}, raw[65:68], "name and pad1")
	assert.Equal(t, seq(12, 1), raw[68:80])
}

func TestPlan(t *testing.T) {
	l, err := Plan(&Request{Setup: []uint16{5}, Parameters: make([]byte, 12)})
	require.NoError(t, err)

	assert.Equal(t, &Layout{
		WordCount:       15,
		SetupCount:      1,
		ParameterCount:  12,
		ParameterOffset: 68,
		DataCount:       0,
		DataOffset:      80,
		ByteCount:       15,
		NameOffset:      65,
		Pad1:            2,
		Pad2:            0,
		Length:          80,
	}, l)
}

func TestPlanNilRequest(t *testing.T) {
	_, err := Plan(nil)
	assert.ErrorIs(t, err, ErrMalformedLayout)
}

func TestEncodeLayout(t *testing.T) {
	req := &Request{Setup: []uint16{5}, Parameters: seq(12, 0), Data: seq(3, 0x40)}
	want, err := Plan(req)
	require.NoError(t, err)

	raw, l, err := NewCodec(Options{}).EncodeLayout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want, l)
	assert.Len(t, raw, l.Length)

	_, l, err = NewCodec(Options{}).EncodeLayout(context.Background(), &Request{Parameters: make([]byte, 1<<16)})
	assert.ErrorIs(t, err, ErrOversizePayload)
	assert.Nil(t, l)
}

func TestEncodeEmptyPayloads(t *testing.T) {
	raw := mustEncode(t, &Request{Setup: []uint16{uint16(types.Trans2QueryFSInformation)}})

	// Name at 65, both sections collapse onto the aligned offset 68.
	assert.Len(t, raw, 68)
	assert.Equal(t, uint16(68), getU16(raw, offParameterOffset))
	assert.Equal(t, uint16(68), getU16(raw, offDataOffset))
	assert.Equal(t, uint16(3), getU16(raw, 63), "byte count is name plus pad1")

	req, l, err := Decode(raw)
	require.NoError(t, err)
	assert.Empty(t, req.Parameters)
	assert.Empty(t, req.Data)
	assert.Equal(t, uint16(0), l.ParameterCount)
	assert.Equal(t, uint16(0), l.DataCount)
}

func TestEncodeWithoutSetup(t *testing.T) {
	raw := mustEncode(t, &Request{Parameters: []byte{1, 2}})

	// Name at 63, parameters at 64, empty data aligned up to 68.
	assert.Equal(t, byte(FixedWords), raw[header.Size])
	assert.Equal(t, uint16(64), getU16(raw, offParameterOffset))
	assert.Equal(t, uint16(68), getU16(raw, offDataOffset))
	assert.Equal(t, uint16(5), getU16(raw, 61), "byte count")
	assert.Len(t, raw, 68)
}

func TestRoundTripMatrix(t *testing.T) {
	for setupCount := 0; setupCount <= 3; setupCount++ {
		for _, pLen := range []int{0, 1, 2, 3, 4, 5, 12, 13} {
			for _, dLen := range []int{0, 1, 3, 4, 7} {
				name := fmt.Sprintf("setup=%d/params=%d/data=%d", setupCount, pLen, dLen)
				t.Run(name, func(t *testing.T) {
					setup := make([]uint16, setupCount)
					for i := range setup {
						setup[i] = uint16(0x0100 + i)
					}
					in := &Request{
						Header:            &header.Header{Command: types.CommandTransaction2, MID: 9, TID: 2, UID: 100},
						MaxParameterCount: 10,
						MaxDataCount:      4096,
						MaxSetupCount:     2,
						Flags:             types.Trans2FlagNoResponse,
						Timeout:           1500,
						Setup:             setup,
						Parameters:        seq(pLen, 0x10),
						Data:              seq(dLen, 0x80),
					}

					raw := mustEncode(t, in)
					out, l, err := NewCodec(Options{Strictness: StrictnessCanonical}).Decode(raw)
					require.NoError(t, err)

					assert.Equal(t, *in.Header, *out.Header)
					assert.Equal(t, uint16(pLen), out.TotalParameterCount)
					assert.Equal(t, uint16(dLen), out.TotalDataCount)
					assert.Equal(t, in.MaxParameterCount, out.MaxParameterCount)
					assert.Equal(t, in.MaxDataCount, out.MaxDataCount)
					assert.Equal(t, in.MaxSetupCount, out.MaxSetupCount)
					assert.Equal(t, in.Flags, out.Flags)
					assert.Equal(t, in.Timeout, out.Timeout)
					assert.Equal(t, len(setup), len(out.Setup))
					for i := range setup {
						assert.Equal(t, setup[i], out.Setup[i])
					}
					assert.True(t, bytes.Equal(in.Parameters, out.Parameters))
					assert.True(t, bytes.Equal(in.Data, out.Data))

					nameOffset := 63 + 2*setupCount
					assert.Equal(t, nameOffset, l.NameOffset)
					assert.Equal(t, uint8(FixedWords+setupCount), l.WordCount)
					assert.Zero(t, l.ParameterOffset%4)
					assert.Zero(t, l.DataOffset%4)
					assert.GreaterOrEqual(t, int(l.ParameterOffset), nameOffset+1)
					assert.Less(t, int(l.ParameterOffset), nameOffset+1+4, "parameter offset not minimal")
					assert.GreaterOrEqual(t, int(l.DataOffset), int(l.ParameterOffset)+pLen)
					assert.Less(t, int(l.DataOffset), int(l.ParameterOffset)+pLen+4, "data offset not minimal")
					assert.Equal(t, 1+l.Pad1+pLen+l.Pad2+dLen, int(l.ByteCount))
					assert.Equal(t, len(raw), nameOffset+int(l.ByteCount))
				})
			}
		}
	}
}

func TestEncodeTotals(t *testing.T) {
	t.Run("ZeroDefaultsToSectionLength", func(t *testing.T) {
		raw := mustEncode(t, &Request{Parameters: seq(6, 0), Data: seq(10, 0)})
		assert.Equal(t, uint16(6), getU16(raw, 33))
		assert.Equal(t, uint16(10), getU16(raw, 35))
	})

	t.Run("ExplicitTotalsKeptForFragments", func(t *testing.T) {
		raw := mustEncode(t, &Request{
			TotalParameterCount: 100,
			TotalDataCount:      4000,
			Parameters:          seq(6, 0),
			Data:                seq(10, 0),
		})
		req, _, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, uint16(100), req.TotalParameterCount)
		assert.Equal(t, uint16(4000), req.TotalDataCount)
		assert.Len(t, req.Parameters, 6)
	})
}

func TestEncodeHeader(t *testing.T) {
	t.Run("DefaultsWhenNil", func(t *testing.T) {
		raw := mustEncode(t, &Request{})
		hdr, err := header.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, types.CommandTransaction2, hdr.Command)
		assert.Equal(t, types.DefaultHeaderFlags, hdr.Flags)
		assert.Equal(t, types.DefaultHeaderFlags2, hdr.Flags2)
	})

	t.Run("CommandForcedWithoutMutatingCaller", func(t *testing.T) {
		h := header.New(types.CommandEcho)
		h.MID = 77
		h.SetPID(0x00012345)

		raw := mustEncode(t, &Request{Header: h})
		assert.Equal(t, byte(types.CommandTransaction2), raw[4])
		assert.Equal(t, types.CommandEcho, h.Command)

		req, _, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, uint16(77), req.Header.MID)
		assert.Equal(t, uint32(0x00012345), req.Header.PID())
	})
}

func TestEncodeOversize(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{"ParametersOver16Bits", &Request{Parameters: make([]byte, 65536)}},
		{"DataOver16Bits", &Request{Data: make([]byte, 65536)}},
		{"SetupOverWordCount", &Request{Setup: make([]uint16, MaxSetupWords+1)}},
		{"FullParameterSectionPushesDataOffset", &Request{Setup: []uint16{1}, Parameters: make([]byte, 65535)}},
		{"AlignedDataOffsetPast16Bits", &Request{Setup: []uint16{1}, Parameters: make([]byte, 65465)}},
		{"ByteCountOverflow", &Request{Setup: []uint16{1}, Parameters: make([]byte, 65400), Data: make([]byte, 200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.req)
			assert.ErrorIs(t, err, ErrOversizePayload)
			assert.Nil(t, raw)
		})
	}
}

func TestEncodeLimits(t *testing.T) {
	t.Run("MaxSetupWords", func(t *testing.T) {
		setup := make([]uint16, MaxSetupWords)
		raw := mustEncode(t, &Request{Setup: setup, Parameters: []byte{1}})
		assert.Equal(t, byte(0xFF), raw[header.Size])

		req, _, err := Decode(raw)
		require.NoError(t, err)
		assert.Len(t, req.Setup, MaxSetupWords)
	})

	t.Run("LargestParameterSection", func(t *testing.T) {
		// Parameters at 68 ending at 65532, the last aligned data offset.
		params := seq(65464, 0)
		raw := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: params})
		assert.Equal(t, uint16(65532), getU16(raw, offDataOffset))
		assert.Equal(t, uint16(65467), getU16(raw, 63), "byte count")

		req, _, err := Decode(raw)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(params, req.Parameters))
	})
}

func TestDecodeTruncatedPrefixes(t *testing.T) {
	raw := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(12, 0), Data: seq(4, 0)})

	for n := 0; n < len(raw); n++ {
		_, _, err := Decode(raw[:n])
		assert.ErrorIs(t, err, ErrTruncatedBuffer, "prefix of %d bytes", n)
	}
}

func TestDecodeLayoutErrors(t *testing.T) {
	// Setup [1], 12 parameter bytes at 68, 4 data bytes at 80, 84 bytes total.
	base := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(12, 0), Data: seq(4, 0)})

	tests := []struct {
		name   string
		mutate func(b []byte) []byte
		want   error
	}{
		{"ParameterOffsetInFixedFields", func(b []byte) []byte { putU16(b, offParameterOffset, 64); return b }, ErrMalformedLayout},
		{"ParameterOffsetOnNameByte", func(b []byte) []byte { putU16(b, offParameterOffset, 65); return b }, ErrMalformedLayout},
		{"ParameterOffsetPastEnd", func(b []byte) []byte { putU16(b, offParameterOffset, 200); return b }, ErrMalformedLayout},
		{"ParameterCountPastEnd", func(b []byte) []byte { putU16(b, offParameterCount, 100); return b }, ErrTruncatedBuffer},
		{"DataCountPastEnd", func(b []byte) []byte { putU16(b, offDataCount, 5); return b }, ErrTruncatedBuffer},
		{"ByteCountPastEnd", func(b []byte) []byte { putU16(b, 63, 30); return b }, ErrTruncatedBuffer},
		{"SetupCountMismatch", func(b []byte) []byte { b[offSetupCount] = 2; return b }, ErrInvalidSetupLength},
		{"WordCountBelowFixed", func(b []byte) []byte { b[header.Size] = 13; return b }, ErrInvalidSetupLength},
		{"WrongCommand", func(b []byte) []byte { b[4] = byte(types.CommandEcho); return b }, ErrMalformedLayout},
		{"SMB2Protocol", func(b []byte) []byte { b[0] = 0xFE; return b }, ErrMalformedLayout},
		{"UnknownProtocol", func(b []byte) []byte { b[1] = 'X'; return b }, ErrMalformedLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.mutate(bytes.Clone(base))
			req, l, err := Decode(raw)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, req)
			assert.Nil(t, l)
			if tt.name == "SMB2Protocol" {
				assert.ErrorContains(t, err, "SMB2 message")
			} else {
				assert.NotContains(t, err.Error(), "SMB2 message")
			}
		})
	}
}

func TestDecodeEmptySectionOffsets(t *testing.T) {
	raw := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)})

	t.Run("ZeroOffsetForEmptyData", func(t *testing.T) {
		b := bytes.Clone(raw)
		putU16(b, offDataOffset, 0)
		req, _, err := NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		require.NoError(t, err)
		assert.Empty(t, req.Data)
	})

	t.Run("OffsetAtMessageEnd", func(t *testing.T) {
		_, l, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, len(raw), int(l.DataOffset))
	})
}

func TestDecodeMisalignedOffset(t *testing.T) {
	base := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(12, 1), Data: seq(4, 0)})
	misaligned := bytes.Clone(base)
	putU16(misaligned, offParameterOffset, 67) // one pad byte + first 11 parameter bytes

	t.Run("Lenient", func(t *testing.T) {
		req, l, err := NewCodec(Options{Strictness: StrictnessLenient}).Decode(misaligned)
		require.NoError(t, err)
		assert.Equal(t, uint16(67), l.ParameterOffset)
		assert.Equal(t, 1, l.Pad1)
		assert.Equal(t, append([]byte{0}, seq(11, 1)...), req.Parameters)
	})

	t.Run("Strict", func(t *testing.T) {
		_, _, err := NewCodec(Options{Strictness: StrictnessStrict}).Decode(misaligned)
		assert.ErrorIs(t, err, ErrMisalignedOffset)
	})

	t.Run("Canonical", func(t *testing.T) {
		_, _, err := NewCodec(Options{Strictness: StrictnessCanonical}).Decode(misaligned)
		assert.ErrorIs(t, err, ErrMisalignedOffset)
	})

	t.Run("EmptyDataWithOddOffset", func(t *testing.T) {
		b := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)})
		putU16(b, offDataOffset, 71)

		_, _, err := Decode(b)
		require.NoError(t, err)

		_, _, err = NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		assert.ErrorIs(t, err, ErrMisalignedOffset)
	})
}

func TestDecodeStrictContainment(t *testing.T) {
	t.Run("SectionsOverlap", func(t *testing.T) {
		b := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(8, 0), Data: seq(8, 0x40)})
		putU16(b, offDataOffset, 72)

		req, _, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, append(seq(4, 4), seq(4, 0x40)...), req.Data)

		_, _, err = NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		assert.ErrorIs(t, err, ErrMalformedLayout)
	})

	t.Run("SectionOutsideByteCount", func(t *testing.T) {
		b := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)})
		putU16(b, 63, 3)

		_, _, err := Decode(b)
		require.NoError(t, err)

		_, _, err = NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		assert.ErrorIs(t, err, ErrMalformedLayout)
	})
}

func TestDecodeCanonical(t *testing.T) {
	t.Run("ExtraPaddingBeforeParameters", func(t *testing.T) {
		// Canonical: name 65, parameters at 68, 72 bytes total. Shift the
		// parameters to 72 by appending them again.
		b := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)})
		b = append(b, seq(4, 0x20)...)
		putU16(b, offParameterOffset, 72)
		putU16(b, offDataOffset, 76)
		putU16(b, 63, 11)

		req, _, err := NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		require.NoError(t, err)
		assert.Equal(t, seq(4, 0x20), req.Parameters)

		_, _, err = NewCodec(Options{Strictness: StrictnessCanonical}).Decode(b)
		assert.ErrorIs(t, err, ErrMalformedLayout)
	})

	t.Run("TrailingBytes", func(t *testing.T) {
		b := append(mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)}), 0, 0, 0)

		_, _, err := NewCodec(Options{Strictness: StrictnessStrict}).Decode(b)
		require.NoError(t, err)

		_, _, err = NewCodec(Options{Strictness: StrictnessCanonical}).Decode(b)
		assert.ErrorIs(t, err, ErrMalformedLayout)
	})
}

func TestDecodeIgnoresReservedFields(t *testing.T) {
	b := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 0)})
	b[42] = 0xAA // Reserved
	b[49] = 0xBB // Reserved2
	b[60] = 0xCC // Reserved3
	b[65] = 0x55 // Name
	b[66] = 0xDD // Pad1

	req, _, err := NewCodec(Options{Strictness: StrictnessCanonical}).Decode(b)
	require.NoError(t, err)
	assert.Equal(t, seq(4, 0), req.Parameters)
}

func TestDecodeCopiesPayloads(t *testing.T) {
	raw := mustEncode(t, &Request{Setup: []uint16{1}, Parameters: seq(4, 1), Data: seq(4, 9)})
	req, _, err := Decode(raw)
	require.NoError(t, err)

	for i := range raw {
		raw[i] = 0
	}
	assert.Equal(t, seq(4, 1), req.Parameters)
	assert.Equal(t, seq(4, 9), req.Data)
}

func TestRequestSubcommand(t *testing.T) {
	_, ok := (&Request{}).Subcommand()
	assert.False(t, ok)

	sub, ok := (&Request{Setup: []uint16{0x0001, 0xFFFF}}).Subcommand()
	assert.True(t, ok)
	assert.Equal(t, types.Trans2FindFirst2, sub)
}

func TestStrictness(t *testing.T) {
	for _, s := range []Strictness{StrictnessLenient, StrictnessStrict, StrictnessCanonical} {
		parsed, err := ParseStrictness(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseStrictness(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, StrictnessStrict, parsed)

	_, err = ParseStrictness("paranoid")
	assert.Error(t, err)
	assert.Equal(t, "Strictness(9)", Strictness(9).String())

	var s Strictness
	require.NoError(t, s.UnmarshalText([]byte("canonical")))
	assert.Equal(t, StrictnessCanonical, s)
	assert.Error(t, s.UnmarshalText([]byte("loose")))

	text, err := StrictnessStrict.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "strict", string(text))

	assert.Equal(t, StrictnessLenient, NewCodec(Options{}).Strictness())
}
