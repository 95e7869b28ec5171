// Package smb carries the transport framing shared by the SMB1 codecs.
//
// On port 139 and 445 every SMB message travels inside a NetBIOS session
// service frame: 1 byte type followed by a 3 byte big-endian length.
// Keepalive frames carry no payload and are skipped by the reader.
package smb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/logger"
)

// NetBIOS session service frame types.
const (
	FrameSessionMessage   byte = 0x00
	FrameSessionKeepAlive byte = 0x85
)

const (
	// FrameHeaderSize is the size of the NetBIOS session header.
	FrameHeaderSize = 4

	// MaxFrameLength is the largest payload a 24-bit length field can carry.
	MaxFrameLength = 1<<24 - 1
)

var (
	// ErrFrameTooLarge is returned when a payload exceeds the frame or
	// caller limit.
	ErrFrameTooLarge = errors.New("smb: frame too large")

	// ErrFrameTooSmall is returned when a session message cannot hold an
	// SMB1 header.
	ErrFrameTooSmall = errors.New("smb: frame too small")

	// ErrUnexpectedFrameType is returned for frame types other than a
	// session message or keepalive.
	ErrUnexpectedFrameType = errors.New("smb: unexpected frame type")
)

// AppendFrame appends payload wrapped in a session message frame to dst.
func AppendFrame(dst, payload []byte) ([]byte, error) {
	n := len(payload)
	if n > MaxFrameLength {
		return dst, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	dst = append(dst, FrameSessionMessage, byte(n>>16), byte(n>>8), byte(n))
	return append(dst, payload...), nil
}

// WriteFrame writes payload to w as a single session message frame.
func WriteFrame(w io.Writer, payload []byte) error {
	frame, err := AppendFrame(make([]byte, 0, FrameHeaderSize+len(payload)), payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write SMB message: %w", err)
	}
	return nil
}

// ReadFrame reads the next session message from r and returns its payload.
//
// Keepalive frames are consumed and skipped. maxSize bounds the accepted
// payload length (0 means MaxFrameLength). The payload must be large enough
// to hold an SMB1 header. ctx is checked between frames.
func ReadFrame(ctx context.Context, r io.Reader, maxSize int) ([]byte, error) {
	if maxSize <= 0 || maxSize > MaxFrameLength {
		maxSize = MaxFrameLength
	}

	var hdr [FrameHeaderSize]byte
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		n := int(binary.BigEndian.Uint32(hdr[:]) & MaxFrameLength)

		switch hdr[0] {
		case FrameSessionKeepAlive:
			logger.DebugCtx(ctx, "skipping NetBIOS keepalive")
			if n > 0 {
				if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
					return nil, fmt.Errorf("read keepalive: %w", err)
				}
			}
			continue
		case FrameSessionMessage:
		default:
			return nil, fmt.Errorf("%w: 0x%02X", ErrUnexpectedFrameType, hdr[0])
		}

		if n > maxSize {
			return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrFrameTooLarge, n, maxSize)
		}
		if n < header.Size {
			return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooSmall, n)
		}

		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("read frame payload: %w", err)
		}
		return payload, nil
	}
}
