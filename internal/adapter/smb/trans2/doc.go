// Package trans2 encodes and decodes SMB1 TRANSACTION2 requests
// ([MS-CIFS] 2.2.4.46.1).
//
// # Overview
//
// TRANSACTION2 is an envelope: the sub-operation (FIND_FIRST2,
// QUERY_PATH_INFORMATION, SET_FILE_INFORMATION, ...) is selected by the first
// setup word, and its arguments travel as two opaque byte sections, the
// transaction parameters and the transaction data. This package treats both
// sections as opaque and only owns the envelope layout.
//
// # Wire Format
//
//	Offset      Size   Field                 Notes
//	----------  -----  --------------------  ------------------------------
//	0           32     SMB1 header           Command = 0x32
//	32          1      WordCount             14 + SetupCount
//	33          2      TotalParameterCount
//	35          2      TotalDataCount
//	37          2      MaxParameterCount
//	39          2      MaxDataCount
//	41          1      MaxSetupCount
//	42          1      Reserved              0
//	43          2      Flags                 DISCONNECT_TID, NO_RESPONSE
//	45          4      Timeout               milliseconds
//	49          2      Reserved2             0
//	51          2      ParameterCount        derived
//	53          2      ParameterOffset       derived, absolute
//	55          2      DataCount             derived
//	57          2      DataOffset            derived, absolute
//	59          1      SetupCount
//	60          1      Reserved3             0
//	61          2*N    Setup[N]
//	61+2N       2      ByteCount             bytes that follow
//	63+2N       1      Name                  0
//	64+2N       0..3   Pad1                  aligns parameters to 4
//	            P      Parameters
//	            0..3   Pad2                  aligns data to 4
//	            D      Data
//
// # Encoding
//
// Encoding is two-phase. Plan resolves the layout (pads, offsets, counts) with
// the layout package, then the writer emits the bytes in wire order with the
// derived fields already known:
//
//	raw, err := trans2.Encode(&trans2.Request{
//	    Setup:      []uint16{uint16(types.Trans2QueryPathInformation)},
//	    Parameters: params,
//	})
//
// # Decoding
//
// Decoding trusts the stated counts and offsets to locate the payloads, then
// re-checks them: bounds, overlap with the fixed region, alignment and
// setup-count consistency. How strictly alignment and canonical placement are
// enforced is chosen with Strictness.
//
// # Thread Safety
//
// Codec holds only immutable options and may be shared between goroutines.
// Decoded payloads are copies and never alias the input buffer.
package trans2
