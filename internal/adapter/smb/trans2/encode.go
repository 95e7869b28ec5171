package trans2

import (
	"context"
	"fmt"
	"math"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/layout"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/smbenc"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
	"github.com/marmos91/smbtrans2/internal/logger"
	"github.com/marmos91/smbtrans2/internal/telemetry"
)

// Plan resolves where the variable sections of req go on the wire, without
// writing anything.
//
// The parameters start at the first 4-aligned offset after the Name byte and
// the data at the first 4-aligned offset after the parameters. Every derived
// value must fit its wire field, otherwise ErrOversizePayload is returned.
// Note that the data offset is always aligned past the parameters, even when
// the data section is empty, so a parameter section ending past 65532 cannot
// be sent.
func Plan(req *Request) (*Layout, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrMalformedLayout)
	}

	setupCount := len(req.Setup)
	if setupCount > MaxSetupWords {
		return nil, oversize("setup_count", setupCount, MaxSetupWords)
	}
	if n := len(req.Parameters); n > math.MaxUint16 {
		return nil, oversize("parameter_count", n, math.MaxUint16)
	}
	if n := len(req.Data); n > math.MaxUint16 {
		return nil, oversize("data_count", n, math.MaxUint16)
	}

	nameOffset := byteCountOffset(setupCount) + 2
	placed := layout.Resolve(nameOffset+1,
		layout.Region{Length: len(req.Parameters)},
		layout.Region{Length: len(req.Data)},
	)
	params, data := placed[0], placed[1]
	end := layout.End(nameOffset+1, placed)
	byteCount := end - nameOffset

	if params.Offset > math.MaxUint16 {
		return nil, oversize("parameter_offset", params.Offset, math.MaxUint16)
	}
	if data.Offset > math.MaxUint16 {
		return nil, oversize("data_offset", data.Offset, math.MaxUint16)
	}
	if byteCount > math.MaxUint16 {
		return nil, oversize("byte_count", byteCount, math.MaxUint16)
	}

	return &Layout{
		WordCount:       uint8(FixedWords + setupCount),
		SetupCount:      uint8(setupCount),
		ParameterCount:  uint16(params.Length),
		ParameterOffset: uint16(params.Offset),
		DataCount:       uint16(data.Length),
		DataOffset:      uint16(data.Offset),
		ByteCount:       uint16(byteCount),
		NameOffset:      nameOffset,
		Pad1:            params.Pad,
		Pad2:            data.Pad,
		Length:          end,
	}, nil
}

// EncodeContext serializes req into a complete SMB1 message. ctx carries
// logging fields and the parent trace span.
//
// **Wire format:** see the package documentation. Reserved fields, the Name
// byte and all pad bytes are written as zero.
func (c *Codec) EncodeContext(ctx context.Context, req *Request) ([]byte, error) {
	raw, _, err := c.EncodeLayout(ctx, req)
	return raw, err
}

// EncodeLayout is EncodeContext that also returns the layout the message
// was written with.
func (c *Codec) EncodeLayout(ctx context.Context, req *Request) ([]byte, *Layout, error) {
	ctx, span := c.startSpan(ctx, telemetry.SpanTrans2Encode)
	raw, l, err := c.encode(ctx, req)
	c.opts.Metrics.RecordEncode(err, l)
	endSpan(span, req, l, err)
	return raw, l, err
}

func (c *Codec) encode(ctx context.Context, req *Request) ([]byte, *Layout, error) {
	l, err := Plan(req)
	if err != nil {
		logger.DebugCtx(ctx, "trans2 encode rejected", logger.Err(err))
		return nil, nil, err
	}

	hdr := header.New(types.CommandTransaction2)
	if req.Header != nil {
		h := *req.Header
		h.Command = types.CommandTransaction2
		hdr = &h
	}
	totalParams, totalData := req.totals()

	w := smbenc.NewWriter(l.Length)
	hdr.WriteTo(w)

	w.WriteUint8(l.WordCount)
	w.WriteUint16(totalParams)
	w.WriteUint16(totalData)
	w.WriteUint16(req.MaxParameterCount)
	w.WriteUint16(req.MaxDataCount)
	w.WriteUint8(req.MaxSetupCount)
	w.WriteUint8(0) // Reserved
	w.WriteUint16(uint16(req.Flags))
	w.WriteUint32(req.Timeout)
	w.WriteUint16(0) // Reserved2
	w.WriteUint16(l.ParameterCount)
	w.WriteUint16(l.ParameterOffset)
	w.WriteUint16(l.DataCount)
	w.WriteUint16(l.DataOffset)
	w.WriteUint8(l.SetupCount)
	w.WriteUint8(0) // Reserved3
	w.WriteUint16s(req.Setup)

	w.WriteUint16(l.ByteCount)
	w.WriteUint8(0) // Name
	w.Pad(layout.Alignment)
	w.WriteBytes(req.Parameters)
	w.Pad(layout.Alignment)
	w.WriteBytes(req.Data)

	if err := w.Err(); err != nil {
		return nil, nil, fmt.Errorf("trans2: encode: %w", err)
	}
	if w.Len() != l.Length {
		return nil, nil, fmt.Errorf("trans2: encoded %d bytes, planned %d", w.Len(), l.Length)
	}

	logger.DebugCtx(ctx, "trans2 encoded",
		logger.MID(hdr.MID),
		subcommandAttr(req),
		logger.Length(l.Length),
		logger.KeySetupCount, l.SetupCount,
	)
	return w.Bytes(), l, nil
}
