package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TRANSACTION2 Sub-commands
// =============================================================================

// Trans2Subcommand is the value of Setup[0] in a TRANSACTION2 request
// [MS-CIFS] 2.2.6.
type Trans2Subcommand uint16

const (
	Trans2Open2                  Trans2Subcommand = 0x0000
	Trans2FindFirst2             Trans2Subcommand = 0x0001
	Trans2FindNext2              Trans2Subcommand = 0x0002
	Trans2QueryFSInformation     Trans2Subcommand = 0x0003
	Trans2SetFSInformation       Trans2Subcommand = 0x0004
	Trans2QueryPathInformation   Trans2Subcommand = 0x0005
	Trans2SetPathInformation     Trans2Subcommand = 0x0006
	Trans2QueryFileInformation   Trans2Subcommand = 0x0007
	Trans2SetFileInformation     Trans2Subcommand = 0x0008
	Trans2FSCTL                  Trans2Subcommand = 0x0009
	Trans2IOCTL2                 Trans2Subcommand = 0x000A
	Trans2FindNotifyFirst        Trans2Subcommand = 0x000B
	Trans2FindNotifyNext         Trans2Subcommand = 0x000C
	Trans2CreateDirectory        Trans2Subcommand = 0x000D
	Trans2SessionSetup           Trans2Subcommand = 0x000E
	Trans2GetDFSReferral         Trans2Subcommand = 0x0010
	Trans2ReportDFSInconsistency Trans2Subcommand = 0x0011
)

var trans2SubcommandNames = map[Trans2Subcommand]string{
	Trans2Open2:                  "TRANS2_OPEN2",
	Trans2FindFirst2:             "TRANS2_FIND_FIRST2",
	Trans2FindNext2:              "TRANS2_FIND_NEXT2",
	Trans2QueryFSInformation:     "TRANS2_QUERY_FS_INFORMATION",
	Trans2SetFSInformation:       "TRANS2_SET_FS_INFORMATION",
	Trans2QueryPathInformation:   "TRANS2_QUERY_PATH_INFORMATION",
	Trans2SetPathInformation:     "TRANS2_SET_PATH_INFORMATION",
	Trans2QueryFileInformation:   "TRANS2_QUERY_FILE_INFORMATION",
	Trans2SetFileInformation:     "TRANS2_SET_FILE_INFORMATION",
	Trans2FSCTL:                  "TRANS2_FSCTL",
	Trans2IOCTL2:                 "TRANS2_IOCTL2",
	Trans2FindNotifyFirst:        "TRANS2_FIND_NOTIFY_FIRST",
	Trans2FindNotifyNext:         "TRANS2_FIND_NOTIFY_NEXT",
	Trans2CreateDirectory:        "TRANS2_CREATE_DIRECTORY",
	Trans2SessionSetup:           "TRANS2_SESSION_SETUP",
	Trans2GetDFSReferral:         "TRANS2_GET_DFS_REFERRAL",
	Trans2ReportDFSInconsistency: "TRANS2_REPORT_DFS_INCONSISTENCY",
}

// String returns the TRANS2_* name of the sub-command.
func (s Trans2Subcommand) String() string {
	if name, ok := trans2SubcommandNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TRANS2_UNKNOWN(0x%04X)", uint16(s))
}

// ParseTrans2Subcommand maps a TRANS2_* name (prefix optional,
// case-insensitive) to its code.
func ParseTrans2Subcommand(name string) (Trans2Subcommand, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(want, "TRANS2_") {
		want = "TRANS2_" + want
	}
	for code, n := range trans2SubcommandNames {
		if n == want {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown TRANS2 sub-command %q", name)
}

// =============================================================================
// TRANSACTION2 Request Flags
// =============================================================================

// Trans2Flags is the Flags field of the TRANSACTION2 parameter block.
type Trans2Flags uint16

const (
	// Trans2FlagDisconnectTID asks the server to disconnect the tree after
	// completing the transaction.
	Trans2FlagDisconnectTID Trans2Flags = 0x0001

	// Trans2FlagNoResponse is a one-way transaction; the server sends no reply.
	Trans2FlagNoResponse Trans2Flags = 0x0002
)

// String renders the set bits joined by '|', or "0" when none are set.
func (f Trans2Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	if f&Trans2FlagDisconnectTID != 0 {
		parts = append(parts, "DISCONNECT_TID")
	}
	if f&Trans2FlagNoResponse != 0 {
		parts = append(parts, "NO_RESPONSE")
	}
	if rest := f &^ (Trans2FlagDisconnectTID | Trans2FlagNoResponse); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04X", uint16(rest)))
	}
	return strings.Join(parts, "|")
}
