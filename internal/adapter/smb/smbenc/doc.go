// Package smbenc provides binary encoding and decoding utilities for the SMB1
// wire protocol.
//
// The package uses an error-accumulation pattern inspired by bufio.Scanner:
// callers perform multiple read/write operations and check for errors once at
// the end, rather than after every individual operation.
//
// Reader wraps a byte slice with a position cursor and accumulates the first
// error. Once an error occurs, all subsequent reads become no-ops returning
// zero values:
//
//	r := smbenc.NewReader(msg)
//	wordCount := r.ReadUint8()
//	totalParams := r.ReadUint16()
//	setup := r.ReadUint16s(int(setupCount))
//	if r.Err() != nil {
//	    return r.Err() // handles any short read in the sequence
//	}
//
// Besides sequential reads, Reader.Slice copies a region addressed by an
// absolute offset without moving the cursor. SMB1 transactions describe their
// payloads that way (ParameterOffset/DataOffset count from the first header
// byte).
//
// Writer appends to a byte buffer with pre-allocated capacity. Counts and
// offsets are known before the first byte is written, so fields are emitted
// in wire order and Pad aligns the next section to an absolute offset:
//
//	w := smbenc.NewWriter(l.Length)
//	w.WriteUint8(l.WordCount)
//	w.WriteUint16s(setup)
//	w.WriteUint16(l.ByteCount)
//	w.WriteUint8(0) // Name
//	w.Pad(4)
//	w.WriteBytes(params)
//	if w.Err() != nil {
//	    return nil, w.Err()
//	}
//	return w.Bytes(), nil
//
// All integer operations use little-endian byte order as required by
// [MS-CIFS] 2.1.
package smbenc
