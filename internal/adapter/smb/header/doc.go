// Package header provides SMB1 message header parsing and encoding.
//
// # Overview
//
// Every SMB1 message starts with a fixed 32-byte header carrying the command
// code, status, flags and the PID/UID/TID/MID identifiers. Command bodies
// (parameter block and data block) follow immediately, so offsets inside a
// body that are "absolute" count from byte 0 of this header.
//
// # Header Structure
//
//	Offset  Size  Field             Description
//	------  ----  ----------------  ----------------------------------
//	0       4     Protocol          Magic: 0xFF 'S' 'M' 'B' (0x424D53FF LE)
//	4       1     Command           SMB_COM_* code
//	5       4     Status            NT_STATUS (responses only)
//	9       1     Flags             Header flags
//	10      2     Flags2            Extended header flags
//	12      2     PIDHigh           High 16 bits of the process ID
//	14      8     SecurityFeatures  Signature or connectionless fields
//	22      2     Reserved          Must be 0
//	24      2     TID               Tree identifier
//	26      2     PIDLow            Low 16 bits of the process ID
//	28      2     UID               User identifier
//	30      2     MID               Multiplex identifier
//
// # Byte Order
//
// All fields are little-endian.
//
// # Encoding Flow
//
//	hdr := header.New(types.CommandTransaction2)
//	hdr.TID, hdr.UID, hdr.MID = tid, uid, mid
//	w := smbenc.NewWriter(header.Size + bodyLen)
//	hdr.WriteTo(w)
//
// # Thread Safety
//
// Parsing and encoding are stateless. A Header value should not be modified
// concurrently.
//
// # References
//
//   - [MS-CIFS] Section 2.2.3.1 - The SMB Header
package header
