package types

import "fmt"

// =============================================================================
// NT_STATUS Codes
// =============================================================================

// Status is the 32-bit NT_STATUS carried in the SMB1 header when
// Flags2NTStatus is set. Requests always send StatusSuccess; the field is
// kept typed so decoded headers print readable names.
//
// Layout:
//   - Severity (bits 30-31): 00=Success, 01=Informational, 10=Warning, 11=Error
//   - Customer (bit 29)
//   - Facility (bits 16-28)
//   - Code (bits 0-15)
//
// [MS-ERREF] Section 2.3
type Status uint32

const (
	StatusSuccess            Status = 0x00000000
	StatusBufferOverflow     Status = 0x80000005
	StatusNoMoreFiles        Status = 0x80000006
	StatusInvalidInfoClass   Status = 0xC0000003
	StatusInfoLengthMismatch Status = 0xC0000004
	StatusInvalidHandle      Status = 0xC0000008
	StatusInvalidParameter   Status = 0xC000000D
	StatusNoSuchFile         Status = 0xC000000F
	StatusAccessDenied       Status = 0xC0000022
	StatusBufferTooSmall     Status = 0xC0000023
	StatusObjectNameInvalid  Status = 0xC0000033
	StatusObjectNameNotFound Status = 0xC0000034
	StatusObjectPathNotFound Status = 0xC000003A
	StatusNotSupported       Status = 0xC00000BB
	StatusInvalidSMB         Status = 0x00010002
	StatusSMBBadTID          Status = 0x00050002
	StatusSMBBadUID          Status = 0x005B0002
	StatusSMBUseStandard     Status = 0x00FB0002
)

var statusNames = map[Status]string{
	StatusSuccess:            "STATUS_SUCCESS",
	StatusBufferOverflow:     "STATUS_BUFFER_OVERFLOW",
	StatusNoMoreFiles:        "STATUS_NO_MORE_FILES",
	StatusInvalidInfoClass:   "STATUS_INVALID_INFO_CLASS",
	StatusInfoLengthMismatch: "STATUS_INFO_LENGTH_MISMATCH",
	StatusInvalidHandle:      "STATUS_INVALID_HANDLE",
	StatusInvalidParameter:   "STATUS_INVALID_PARAMETER",
	StatusNoSuchFile:         "STATUS_NO_SUCH_FILE",
	StatusAccessDenied:       "STATUS_ACCESS_DENIED",
	StatusBufferTooSmall:     "STATUS_BUFFER_TOO_SMALL",
	StatusObjectNameInvalid:  "STATUS_OBJECT_NAME_INVALID",
	StatusObjectNameNotFound: "STATUS_OBJECT_NAME_NOT_FOUND",
	StatusObjectPathNotFound: "STATUS_OBJECT_PATH_NOT_FOUND",
	StatusNotSupported:       "STATUS_NOT_SUPPORTED",
	StatusInvalidSMB:         "STATUS_INVALID_SMB",
	StatusSMBBadTID:          "STATUS_SMB_BAD_TID",
	StatusSMBBadUID:          "STATUS_SMB_BAD_UID",
	StatusSMBUseStandard:     "STATUS_SMB_USE_STANDARD",
}

// String returns a human-readable name for the status code.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_0x%08X", uint32(s))
}

// IsError returns true if the status indicates an error.
// NT_STATUS error codes have severity 11 (bits 30-31 are both set).
func (s Status) IsError() bool {
	return (uint32(s) & 0xC0000000) == 0xC0000000
}

// Severity returns the severity level (0-3) of the status.
func (s Status) Severity() int {
	return int((uint32(s) >> 30) & 0x3)
}
