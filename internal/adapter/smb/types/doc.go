// Package types contains SMB1 protocol constants and type-safe codes used by
// the TRANSACTION2 request codec.
//
// # Overview
//
// This package provides typed definitions for the SMB1 elements the codec
// touches:
//
//   - Command codes (only TRANSACTION2 and its secondary are encoded here,
//     the rest are listed so headers print readable names)
//   - Header flags and flags2 bitmasks
//   - TRANSACTION2 sub-command codes carried in Setup[0]
//   - TRANSACTION2 request flags (DISCONNECT_TID, NO_RESPONSE)
//   - NT_STATUS codes for the header Status field
//
// # Command Codes
//
// SMB1 commands are a single byte in the header:
//
//	const (
//	    CommandTransaction2          Command = 0x32
//	    CommandTransaction2Secondary Command = 0x33
//	)
//
// # TRANSACTION2 Sub-commands
//
// The first setup word selects the sub-operation:
//
//	Trans2FindFirst2           Trans2Subcommand = 0x0001
//	Trans2QueryPathInformation Trans2Subcommand = 0x0005
//	Trans2SetFileInformation   Trans2Subcommand = 0x0008
//
// # References
//
//   - [MS-CIFS] Common Internet File System (CIFS) Protocol
//   - [MS-SMB] Server Message Block (SMB) Protocol
//   - [MS-ERREF] Windows Error Codes
package types
