package trans2

import (
	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

const (
	// FixedWords is the number of 16-bit words in the parameter block before
	// the setup array.
	FixedWords = 14

	// MaxSetupWords is the largest setup array whose WordCount still fits
	// in one byte.
	MaxSetupWords = 0xFF - FixedWords

	wordCountOffset = header.Size
	setupOffset     = wordCountOffset + 1 + 2*FixedWords
)

// Request is one TRANSACTION2 request fragment.
//
// Counts and offsets are not part of Request: they are derived from the
// payloads by Plan on encode and reported in Layout on decode.
type Request struct {
	// Header is the SMB1 header. Encode uses header.New(CommandTransaction2)
	// when nil and always writes Command = TRANSACTION2.
	Header *header.Header `json:"header" yaml:"header"`

	// TotalParameterCount is the parameter byte count of the whole
	// transaction. Zero on encode means len(Parameters) (unfragmented).
	TotalParameterCount uint16 `json:"total_parameter_count" yaml:"total_parameter_count"`

	// TotalDataCount is the data byte count of the whole transaction.
	// Zero on encode means len(Data).
	TotalDataCount uint16 `json:"total_data_count" yaml:"total_data_count"`

	// MaxParameterCount is the largest parameter section the server may return.
	MaxParameterCount uint16 `json:"max_parameter_count" yaml:"max_parameter_count"`

	// MaxDataCount is the largest data section the server may return.
	MaxDataCount uint16 `json:"max_data_count" yaml:"max_data_count"`

	// MaxSetupCount is the largest setup array the server may return.
	MaxSetupCount uint8 `json:"max_setup_count" yaml:"max_setup_count"`

	// Flags are the TRANS2 request flags.
	Flags types.Trans2Flags `json:"flags" yaml:"flags"`

	// Timeout in milliseconds; 0 lets the server pick.
	Timeout uint32 `json:"timeout" yaml:"timeout"`

	// Setup words; Setup[0] is the sub-command. SetupCount is always
	// len(Setup).
	Setup []uint16 `json:"setup" yaml:"setup"`

	// Parameters is the opaque transaction parameter section.
	Parameters []byte `json:"parameters" yaml:"parameters"`

	// Data is the opaque transaction data section.
	Data []byte `json:"data" yaml:"data"`
}

// Subcommand returns Setup[0] as a sub-command, and false when there are no
// setup words.
func (r *Request) Subcommand() (types.Trans2Subcommand, bool) {
	if len(r.Setup) == 0 {
		return 0, false
	}
	return types.Trans2Subcommand(r.Setup[0]), true
}

// totals returns the wire values of the Total* fields.
func (r *Request) totals() (uint16, uint16) {
	tp, td := r.TotalParameterCount, r.TotalDataCount
	if tp == 0 {
		tp = uint16(len(r.Parameters))
	}
	if td == 0 {
		td = uint16(len(r.Data))
	}
	return tp, td
}

// Layout is the resolved placement of a request's variable sections.
// Offsets are absolute, counted from the first header byte.
type Layout struct {
	WordCount       uint8  `json:"word_count" yaml:"word_count"`
	SetupCount      uint8  `json:"setup_count" yaml:"setup_count"`
	ParameterCount  uint16 `json:"parameter_count" yaml:"parameter_count"`
	ParameterOffset uint16 `json:"parameter_offset" yaml:"parameter_offset"`
	DataCount       uint16 `json:"data_count" yaml:"data_count"`
	DataOffset      uint16 `json:"data_offset" yaml:"data_offset"`
	ByteCount       uint16 `json:"byte_count" yaml:"byte_count"`

	// NameOffset is where the one-byte Name field sits.
	NameOffset int `json:"name_offset" yaml:"name_offset"`

	// Pad1 is the gap between Name and the parameters. On decode it is the
	// observed gap and may be negative for a hostile message.
	Pad1 int `json:"pad1" yaml:"pad1"`

	// Pad2 is the gap between the parameters and the data.
	Pad2 int `json:"pad2" yaml:"pad2"`

	// Length is the total message length in bytes.
	Length int `json:"length" yaml:"length"`
}

// byteCountOffset returns where ByteCount sits for n setup words.
func byteCountOffset(setupCount int) int {
	return setupOffset + 2*setupCount
}
