package header

import (
	"encoding/binary"
	"errors"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/smbenc"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

// Parsing errors
var (
	// ErrInvalidProtocolID indicates the message doesn't start with 0xFF 'S' 'M' 'B'.
	ErrInvalidProtocolID = errors.New("invalid SMB1 protocol ID")

	// ErrMessageTooShort indicates the message is too short to contain an SMB1 header.
	// Valid SMB1 messages must be at least 32 bytes.
	ErrMessageTooShort = errors.New("message too short for SMB1 header")
)

// Parse extracts a Header from wire format (little-endian).
//
// The input data must be at least 32 bytes and start with the SMB1 protocol
// ID. The Reserved field is read and discarded.
//
// Example:
//
//	hdr, err := Parse(msg)
//	if err != nil {
//	    return fmt.Errorf("invalid SMB1 header: %w", err)
//	}
//	if hdr.Command != types.CommandTransaction2 { ... }
func Parse(data []byte) (*Header, error) {
	if len(data) < Size {
		return nil, ErrMessageTooShort
	}
	if !IsSMB1Message(data) {
		return nil, ErrInvalidProtocolID
	}

	r := smbenc.NewReader(data[:Size])
	r.Skip(4) // Protocol
	h := &Header{
		Command: types.Command(r.ReadUint8()),
		Status:  types.Status(r.ReadUint32()),
		Flags:   types.HeaderFlags(r.ReadUint8()),
		Flags2:  types.HeaderFlags2(r.ReadUint16()),
		PIDHigh: r.ReadUint16(),
	}
	copy(h.SecurityFeatures[:], r.ReadBytes(8))
	r.Skip(2) // Reserved
	h.TID = r.ReadUint16()
	h.PIDLow = r.ReadUint16()
	h.UID = r.ReadUint16()
	h.MID = r.ReadUint16()
	if r.Err() != nil {
		return nil, r.Err()
	}

	return h, nil
}

// IsSMB1Message checks if the data starts with a valid SMB1 protocol ID.
//
// This is a fast check that only examines the first 4 bytes.
func IsSMB1Message(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(data[0:4]) == types.SMB1ProtocolID
}

// IsSMB2Message checks if the data starts with the SMB2 protocol ID.
// Used to give a precise error when SMB2 traffic reaches the SMB1 codec.
func IsSMB2Message(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(data[0:4]) == types.SMB2ProtocolID
}
