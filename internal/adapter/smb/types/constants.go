package types

import "fmt"

// SMB1ProtocolID is the SMB1 protocol identifier (little-endian: 0xFF 'S' 'M' 'B').
const SMB1ProtocolID uint32 = 0x424D53FF

// SMB2ProtocolID is the SMB2 protocol identifier (little-endian: 0xFE 'S' 'M' 'B').
// Only used to recognize and reject SMB2 traffic handed to the SMB1 parser.
const SMB2ProtocolID uint32 = 0x424D53FE

// =============================================================================
// Command Codes
// =============================================================================

// Command is an SMB1 command code [MS-CIFS] 2.2.2.1.
type Command uint8

const (
	CommandCreateDirectory       Command = 0x00
	CommandDeleteDirectory       Command = 0x01
	CommandClose                 Command = 0x04
	CommandDelete                Command = 0x06
	CommandRename                Command = 0x07
	CommandTransaction           Command = 0x25
	CommandEcho                  Command = 0x2B
	CommandReadAndX              Command = 0x2E
	CommandWriteAndX             Command = 0x2F
	CommandTransaction2          Command = 0x32
	CommandTransaction2Secondary Command = 0x33
	CommandFindClose2            Command = 0x34
	CommandTreeDisconnect        Command = 0x71
	CommandNegotiate             Command = 0x72
	CommandSessionSetupAndX      Command = 0x73
	CommandLogoffAndX            Command = 0x74
	CommandTreeConnectAndX       Command = 0x75
	CommandNTTransact            Command = 0xA0
	CommandNTCreateAndX          Command = 0xA2
)

// String returns the SMB_COM_* name of the command.
func (c Command) String() string {
	switch c {
	case CommandCreateDirectory:
		return "SMB_COM_CREATE_DIRECTORY"
	case CommandDeleteDirectory:
		return "SMB_COM_DELETE_DIRECTORY"
	case CommandClose:
		return "SMB_COM_CLOSE"
	case CommandDelete:
		return "SMB_COM_DELETE"
	case CommandRename:
		return "SMB_COM_RENAME"
	case CommandTransaction:
		return "SMB_COM_TRANSACTION"
	case CommandEcho:
		return "SMB_COM_ECHO"
	case CommandReadAndX:
		return "SMB_COM_READ_ANDX"
	case CommandWriteAndX:
		return "SMB_COM_WRITE_ANDX"
	case CommandTransaction2:
		return "SMB_COM_TRANSACTION2"
	case CommandTransaction2Secondary:
		return "SMB_COM_TRANSACTION2_SECONDARY"
	case CommandFindClose2:
		return "SMB_COM_FIND_CLOSE2"
	case CommandTreeDisconnect:
		return "SMB_COM_TREE_DISCONNECT"
	case CommandNegotiate:
		return "SMB_COM_NEGOTIATE"
	case CommandSessionSetupAndX:
		return "SMB_COM_SESSION_SETUP_ANDX"
	case CommandLogoffAndX:
		return "SMB_COM_LOGOFF_ANDX"
	case CommandTreeConnectAndX:
		return "SMB_COM_TREE_CONNECT_ANDX"
	case CommandNTTransact:
		return "SMB_COM_NT_TRANSACT"
	case CommandNTCreateAndX:
		return "SMB_COM_NT_CREATE_ANDX"
	default:
		return fmt.Sprintf("SMB_COM_UNKNOWN(0x%02X)", uint8(c))
	}
}

// =============================================================================
// Header Flags
// =============================================================================

// HeaderFlags is the one-byte Flags field of the SMB1 header [MS-CIFS] 2.2.3.1.
type HeaderFlags uint8

const (
	FlagsLockAndReadOK   HeaderFlags = 0x01
	FlagsBufAvail        HeaderFlags = 0x02
	FlagsCaseInsensitive HeaderFlags = 0x08
	FlagsCanonicalized   HeaderFlags = 0x10
	FlagsOplock          HeaderFlags = 0x20
	FlagsOpbatch         HeaderFlags = 0x40
	FlagsReply           HeaderFlags = 0x80

	// DefaultHeaderFlags marks paths as case-insensitive and canonicalized.
	DefaultHeaderFlags = FlagsCaseInsensitive | FlagsCanonicalized
)

// IsReply reports whether the message is a server response.
func (f HeaderFlags) IsReply() bool {
	return f&FlagsReply != 0
}

// HeaderFlags2 is the two-byte Flags2 field of the SMB1 header.
type HeaderFlags2 uint16

const (
	Flags2LongNames         HeaderFlags2 = 0x0001
	Flags2EAS               HeaderFlags2 = 0x0002
	Flags2SecuritySignature HeaderFlags2 = 0x0004
	Flags2IsLongName        HeaderFlags2 = 0x0040
	Flags2ExtendedSecurity  HeaderFlags2 = 0x0800
	Flags2DFS               HeaderFlags2 = 0x1000
	Flags2PagingIO          HeaderFlags2 = 0x2000
	Flags2NTStatus          HeaderFlags2 = 0x4000
	Flags2Unicode           HeaderFlags2 = 0x8000

	// DefaultHeaderFlags2 is what a modern client sends on every request.
	DefaultHeaderFlags2 = Flags2LongNames | Flags2ExtendedSecurity | Flags2NTStatus | Flags2Unicode
)
