package smbenc

import (
	"encoding/binary"
	"fmt"
)

// Writer provides sequential writing of little-endian encoded SMB wire data
// with append-based growth and pre-allocated capacity.
type Writer struct {
	buf []byte
	err error
}

// NewWriter creates a new Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: make([]byte, 0, capacity),
	}
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint16s appends each word as a little-endian uint16.
func (w *Writer) WriteUint16s(words []uint16) {
	for _, v := range words {
		w.WriteUint16(v)
	}
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, data...)
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	if w.err != nil {
		return
	}
	if n < 0 {
		w.err = fmt.Errorf("smbenc: negative zero-fill length %d", n)
		return
	}
	w.buf = append(w.buf, make([]byte, n)...)
}

// Pad pads the buffer to the given alignment boundary by appending zero bytes.
// For example, Pad(4) pads to the next 4-byte boundary. If already aligned,
// no padding is added.
func (w *Writer) Pad(alignment int) {
	if w.err != nil {
		return
	}
	if alignment <= 0 {
		return
	}
	remainder := len(w.buf) % alignment
	if remainder == 0 {
		return
	}
	w.buf = append(w.buf, make([]byte, alignment-remainder)...)
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current length of the buffer.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the first error encountered, or nil.
func (w *Writer) Err() error {
	return w.err
}
