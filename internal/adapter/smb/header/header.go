package header

import (
	"fmt"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/smbenc"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

// Size is the fixed size of the SMB1 header (32 bytes).
const Size = 32

// Header is the SMB1 message header [MS-CIFS] 2.2.3.1.
type Header struct {
	// Command is the SMB_COM_* code of the message body.
	Command types.Command

	// Status is the NT_STATUS (or DOS error class/code) of a response.
	// Requests send StatusSuccess.
	Status types.Status

	// Flags carries case sensitivity, canonicalization and the reply bit.
	Flags types.HeaderFlags

	// Flags2 carries unicode, NT status and extended security bits.
	Flags2 types.HeaderFlags2

	// PIDHigh is the high 16 bits of the client process ID.
	PIDHigh uint16

	// SecurityFeatures holds the message signature when signing is active.
	SecurityFeatures [8]byte

	// TID identifies the tree connect the request targets.
	TID uint16

	// PIDLow is the low 16 bits of the client process ID.
	PIDLow uint16

	// UID identifies the authenticated session.
	UID uint16

	// MID correlates a request with its response(s).
	MID uint16
}

// New returns a request header for command with the default client flags.
func New(command types.Command) *Header {
	return &Header{
		Command: command,
		Status:  types.StatusSuccess,
		Flags:   types.DefaultHeaderFlags,
		Flags2:  types.DefaultHeaderFlags2,
	}
}

// PID returns the full 32-bit process ID.
func (h *Header) PID() uint32 {
	return uint32(h.PIDHigh)<<16 | uint32(h.PIDLow)
}

// SetPID splits a 32-bit process ID into PIDHigh and PIDLow.
func (h *Header) SetPID(pid uint32) {
	h.PIDHigh = uint16(pid >> 16)
	h.PIDLow = uint16(pid)
}

// WriteTo appends the 32-byte wire form of the header to w.
// The Reserved field is always written as 0.
func (h *Header) WriteTo(w *smbenc.Writer) {
	w.WriteUint32(types.SMB1ProtocolID)
	w.WriteUint8(uint8(h.Command))
	w.WriteUint32(uint32(h.Status))
	w.WriteUint8(uint8(h.Flags))
	w.WriteUint16(uint16(h.Flags2))
	w.WriteUint16(h.PIDHigh)
	w.WriteBytes(h.SecurityFeatures[:])
	w.WriteZeros(2) // Reserved
	w.WriteUint16(h.TID)
	w.WriteUint16(h.PIDLow)
	w.WriteUint16(h.UID)
	w.WriteUint16(h.MID)
}

// Encode serializes the header to its 32-byte wire format.
func (h *Header) Encode() []byte {
	w := smbenc.NewWriter(Size)
	h.WriteTo(w)
	return w.Bytes()
}

// String returns a compact description used in logs.
func (h *Header) String() string {
	return fmt.Sprintf("%s mid=%d tid=%d uid=%d pid=%d", h.Command, h.MID, h.TID, h.UID, h.PID())
}
