package trans2

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/layout"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/smbenc"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
	"github.com/marmos91/smbtrans2/internal/logger"
	"github.com/marmos91/smbtrans2/internal/telemetry"
)

// DecodeContext parses a complete SMB1 message into a Request and the layout
// it was found in. ctx carries logging fields and the parent trace span.
//
// The stated counts and offsets locate the payloads; they are checked
// against the buffer before any slice is taken:
//
//   - an offset past the end of the message, or a non-empty section starting
//     at or before the Name byte, is ErrMalformedLayout
//   - a section whose end runs past the message is ErrTruncatedBuffer
//   - WordCount != 14 + SetupCount is ErrInvalidSetupLength
//   - a misaligned offset is logged (lenient) or ErrMisalignedOffset
//
// Strict and canonical decoding additionally require both sections to lie
// inside ByteCount and not to overlap each other. Canonical decoding requires
// the exact layout Plan would produce.
//
// Reserved fields and the Name byte are not checked.
func (c *Codec) DecodeContext(ctx context.Context, buf []byte) (*Request, *Layout, error) {
	ctx, span := c.startSpan(ctx, telemetry.SpanTrans2Decode, telemetry.MessageLength(len(buf)))
	req, l, err := c.decode(ctx, buf)
	c.opts.Metrics.RecordDecode(err, l)
	endSpan(span, req, l, err)
	if err != nil {
		logger.DebugCtx(ctx, "trans2 decode rejected",
			logger.Length(len(buf)),
			logger.Strictness(c.opts.Strictness),
			logger.Err(err),
		)
		return nil, nil, err
	}

	logger.DebugCtx(ctx, "trans2 decoded",
		logger.MID(req.Header.MID),
		subcommandAttr(req),
		logger.Length(l.Length),
		logger.KeySetupCount, l.SetupCount,
	)
	return req, l, nil
}

func (c *Codec) decode(ctx context.Context, buf []byte) (*Request, *Layout, error) {
	if header.IsSMB2Message(buf) {
		return nil, nil, fmt.Errorf("%w: SMB2 message (protocol 0xFE 'SMB'), want SMB1", ErrMalformedLayout)
	}

	hdr, err := header.Parse(buf)
	switch {
	case errors.Is(err, header.ErrMessageTooShort):
		return nil, nil, fmt.Errorf("%w: %w", ErrTruncatedBuffer, err)
	case err != nil:
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedLayout, err)
	}
	if hdr.Command != types.CommandTransaction2 {
		return nil, nil, fmt.Errorf("%w: command is %s, want %s",
			ErrMalformedLayout, hdr.Command, types.CommandTransaction2)
	}

	r := smbenc.NewReader(buf)
	r.Skip(header.Size)

	wordCount := int(r.ReadUint8())
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: word count: %w", ErrTruncatedBuffer, err)
	}
	if wordCount < FixedWords {
		return nil, nil, fmt.Errorf("%w: word_count %d is below the %d fixed words",
			ErrInvalidSetupLength, wordCount, FixedWords)
	}

	req := &Request{Header: hdr}
	req.TotalParameterCount = r.ReadUint16()
	req.TotalDataCount = r.ReadUint16()
	req.MaxParameterCount = r.ReadUint16()
	req.MaxDataCount = r.ReadUint16()
	req.MaxSetupCount = r.ReadUint8()
	r.Skip(1) // Reserved
	req.Flags = types.Trans2Flags(r.ReadUint16())
	req.Timeout = r.ReadUint32()
	r.Skip(2) // Reserved2

	l := &Layout{WordCount: uint8(wordCount), Length: len(buf)}
	l.ParameterCount = r.ReadUint16()
	l.ParameterOffset = r.ReadUint16()
	l.DataCount = r.ReadUint16()
	l.DataOffset = r.ReadUint16()
	l.SetupCount = r.ReadUint8()
	r.Skip(1) // Reserved3
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: parameter words: %w", ErrTruncatedBuffer, err)
	}

	setupCount := int(l.SetupCount)
	if setupCount != wordCount-FixedWords {
		return nil, nil, fmt.Errorf("%w: word_count %d implies %d setup words, setup_count is %d",
			ErrInvalidSetupLength, wordCount, wordCount-FixedWords, setupCount)
	}
	if setupCount > 0 {
		req.Setup = r.ReadUint16s(setupCount)
	}
	l.ByteCount = r.ReadUint16()
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: setup words: %w", ErrTruncatedBuffer, err)
	}

	l.NameOffset = r.Position()
	if int(l.ByteCount) > r.Remaining() {
		return nil, nil, fmt.Errorf("%w: byte_count %d exceeds the %d bytes left",
			ErrTruncatedBuffer, l.ByteCount, r.Remaining())
	}

	params := section{name: "parameter", offset: int(l.ParameterOffset), count: int(l.ParameterCount)}
	data := section{name: "data", offset: int(l.DataOffset), count: int(l.DataCount)}
	l.Pad1 = params.offset - (l.NameOffset + 1)
	l.Pad2 = data.offset - params.end()

	for _, s := range []section{params, data} {
		if err := s.checkBounds(l.NameOffset, len(buf)); err != nil {
			return nil, nil, err
		}
	}
	if c.opts.Strictness >= StrictnessStrict {
		if err := checkContained(l, params, data); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range []section{params, data} {
		if err := c.checkAlignment(ctx, s); err != nil {
			return nil, nil, err
		}
	}
	if c.opts.Strictness == StrictnessCanonical {
		if err := checkCanonical(l); err != nil {
			return nil, nil, err
		}
	}

	req.Parameters = params.copyFrom(r)
	req.Data = data.copyFrom(r)
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTruncatedBuffer, err)
	}
	return req, l, nil
}

// section is one stated (offset, count) pair.
type section struct {
	name   string
	offset int
	count  int
}

func (s section) end() int { return s.offset + s.count }

func (s section) field() string { return s.name + "_offset" }

// checkBounds rejects a section whose slice would be undefined.
// Empty sections may carry any offset up to the message end.
func (s section) checkBounds(nameOffset, msgLen int) error {
	if s.offset > msgLen {
		return fmt.Errorf("%w: %s %d is past the message end %d",
			ErrMalformedLayout, s.field(), s.offset, msgLen)
	}
	if s.end() > msgLen {
		return fmt.Errorf("%w: %s section [%d, %d) runs past the message end %d",
			ErrTruncatedBuffer, s.name, s.offset, s.end(), msgLen)
	}
	if s.count > 0 && s.offset <= nameOffset {
		return fmt.Errorf("%w: %s %d overlaps the fixed fields ending at %d",
			ErrMalformedLayout, s.field(), s.offset, nameOffset+1)
	}
	return nil
}

func (s section) copyFrom(r *smbenc.Reader) []byte {
	if s.count == 0 {
		return nil
	}
	return r.Slice(s.offset, s.count)
}

// checkContained requires both sections inside the ByteCount region and
// disjoint from each other.
func checkContained(l *Layout, params, data section) error {
	blockEnd := l.NameOffset + int(l.ByteCount)
	for _, s := range []section{params, data} {
		if s.count > 0 && s.end() > blockEnd {
			return fmt.Errorf("%w: %s section ends at %d, byte_count ends at %d",
				ErrMalformedLayout, s.name, s.end(), blockEnd)
		}
	}
	if params.count > 0 && data.count > 0 &&
		params.offset < data.end() && data.offset < params.end() {
		return fmt.Errorf("%w: parameter section [%d, %d) overlaps data section [%d, %d)",
			ErrMalformedLayout, params.offset, params.end(), data.offset, data.end())
	}
	return nil
}

func (c *Codec) checkAlignment(ctx context.Context, s section) error {
	if layout.Aligned(s.offset) {
		return nil
	}
	if c.opts.Strictness == StrictnessLenient {
		c.opts.Metrics.RecordMisaligned(s.field())
		logger.WarnCtx(ctx, "trans2 offset not 4-byte aligned",
			logger.Field(s.field()),
			logger.Offset(s.offset),
			logger.Strictness(c.opts.Strictness),
		)
		return nil
	}
	return fmt.Errorf("%w: %s %d", ErrMisalignedOffset, s.field(), s.offset)
}

// checkCanonical requires the layout Plan produces for the same counts.
func checkCanonical(l *Layout) error {
	placed := layout.Resolve(l.NameOffset+1,
		layout.Region{Length: int(l.ParameterCount)},
		layout.Region{Length: int(l.DataCount)},
	)
	want := placed[1].End() - l.NameOffset
	switch {
	case int(l.ParameterOffset) != placed[0].Offset:
		return fmt.Errorf("%w: parameter_offset %d, canonical %d",
			ErrMalformedLayout, l.ParameterOffset, placed[0].Offset)
	case int(l.DataOffset) != placed[1].Offset:
		return fmt.Errorf("%w: data_offset %d, canonical %d",
			ErrMalformedLayout, l.DataOffset, placed[1].Offset)
	case int(l.ByteCount) != want:
		return fmt.Errorf("%w: byte_count %d, canonical %d",
			ErrMalformedLayout, l.ByteCount, want)
	case l.NameOffset+want != l.Length:
		return fmt.Errorf("%w: %d trailing bytes after the data block",
			ErrMalformedLayout, l.Length-l.NameOffset-want)
	}
	return nil
}

func subcommandAttr(req *Request) slog.Attr {
	sub, ok := req.Subcommand()
	if !ok {
		return slog.Attr{}
	}
	return logger.Subcommand(sub)
}
