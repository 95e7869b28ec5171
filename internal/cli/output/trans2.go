package output

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/header"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

// hexPreview is the number of payload bytes shown in table cells.
const hexPreview = 24

var fieldHeaders = []string{"Offset", "Size", "Field", "Value"}

// HeaderView is the printable SMB1 header.
type HeaderView struct {
	Command string `json:"command" yaml:"command"`
	Status  string `json:"status" yaml:"status"`
	Flags   string `json:"flags" yaml:"flags"`
	Flags2  string `json:"flags2" yaml:"flags2"`
	PID     uint32 `json:"pid" yaml:"pid"`
	TID     uint16 `json:"tid" yaml:"tid"`
	UID     uint16 `json:"uid" yaml:"uid"`
	MID     uint16 `json:"mid" yaml:"mid"`
}

// RequestView is the printable form of a decoded TRANSACTION2 request.
// As a table it lists every wire field with its absolute offset.
type RequestView struct {
	Header              HeaderView     `json:"header" yaml:"header"`
	Subcommand          string         `json:"subcommand,omitempty" yaml:"subcommand,omitempty"`
	TotalParameterCount uint16         `json:"total_parameter_count" yaml:"total_parameter_count"`
	TotalDataCount      uint16         `json:"total_data_count" yaml:"total_data_count"`
	MaxParameterCount   uint16         `json:"max_parameter_count" yaml:"max_parameter_count"`
	MaxDataCount        uint16         `json:"max_data_count" yaml:"max_data_count"`
	MaxSetupCount       uint8          `json:"max_setup_count" yaml:"max_setup_count"`
	Flags               string         `json:"flags" yaml:"flags"`
	Timeout             uint32         `json:"timeout" yaml:"timeout"`
	Setup               []string       `json:"setup" yaml:"setup"`
	Parameters          string         `json:"parameters" yaml:"parameters"`
	Data                string         `json:"data" yaml:"data"`
	Layout              *trans2.Layout `json:"layout" yaml:"layout"`

	req *trans2.Request
}

// NewRequestView builds the view of a decoded request and its layout.
func NewRequestView(req *trans2.Request, l *trans2.Layout) *RequestView {
	v := &RequestView{
		Header:              newHeaderView(req.Header),
		TotalParameterCount: req.TotalParameterCount,
		TotalDataCount:      req.TotalDataCount,
		MaxParameterCount:   req.MaxParameterCount,
		MaxDataCount:        req.MaxDataCount,
		MaxSetupCount:       req.MaxSetupCount,
		Flags:               req.Flags.String(),
		Timeout:             req.Timeout,
		Setup:               make([]string, len(req.Setup)),
		Parameters:          hex.EncodeToString(req.Parameters),
		Data:                hex.EncodeToString(req.Data),
		Layout:              l,
		req:                 req,
	}
	if sub, ok := req.Subcommand(); ok {
		v.Subcommand = sub.String()
	}
	for i, w := range req.Setup {
		v.Setup[i] = fmt.Sprintf("0x%04X", w)
	}
	return v
}

func newHeaderView(h *header.Header) HeaderView {
	if h == nil {
		h = header.New(types.CommandTransaction2)
	}
	return HeaderView{
		Command: h.Command.String(),
		Status:  h.Status.String(),
		Flags:   fmt.Sprintf("0x%02X", uint8(h.Flags)),
		Flags2:  fmt.Sprintf("0x%04X", uint16(h.Flags2)),
		PID:     h.PID(),
		TID:     h.TID,
		UID:     h.UID,
		MID:     h.MID,
	}
}

// Headers implements TableRenderer.
func (v *RequestView) Headers() []string {
	return fieldHeaders
}

// Rows implements TableRenderer.
func (v *RequestView) Rows() [][]string {
	t := NewTableData(fieldHeaders...)
	l := v.Layout
	at := func(off, size int, field, value string) {
		t.AddRow(strconv.Itoa(off), strconv.Itoa(size), field, value)
	}

	at(4, 1, "Command", v.Header.Command)
	at(5, 4, "Status", v.Header.Status)
	at(9, 1, "SMBFlags", v.Header.Flags)
	at(10, 2, "SMBFlags2", v.Header.Flags2)
	at(24, 2, "TID", strconv.Itoa(int(v.Header.TID)))
	at(28, 2, "UID", strconv.Itoa(int(v.Header.UID)))
	at(30, 2, "MID", strconv.Itoa(int(v.Header.MID)))

	at(32, 1, "WordCount", strconv.Itoa(int(l.WordCount)))
	at(33, 2, "TotalParameterCount", strconv.Itoa(int(v.TotalParameterCount)))
	at(35, 2, "TotalDataCount", strconv.Itoa(int(v.TotalDataCount)))
	at(37, 2, "MaxParameterCount", strconv.Itoa(int(v.MaxParameterCount)))
	at(39, 2, "MaxDataCount", strconv.Itoa(int(v.MaxDataCount)))
	at(41, 1, "MaxSetupCount", strconv.Itoa(int(v.MaxSetupCount)))
	at(43, 2, "Flags", v.Flags)
	at(45, 4, "Timeout", strconv.FormatUint(uint64(v.Timeout), 10))
	at(51, 2, "ParameterCount", strconv.Itoa(int(l.ParameterCount)))
	at(53, 2, "ParameterOffset", strconv.Itoa(int(l.ParameterOffset)))
	at(55, 2, "DataCount", strconv.Itoa(int(l.DataCount)))
	at(57, 2, "DataOffset", strconv.Itoa(int(l.DataOffset)))
	at(59, 1, "SetupCount", strconv.Itoa(int(l.SetupCount)))
	for i, w := range v.Setup {
		name := fmt.Sprintf("Setup[%d]", i)
		if i == 0 && v.Subcommand != "" {
			w += " " + v.Subcommand
		}
		at(61+2*i, 2, name, w)
	}
	at(l.NameOffset-2, 2, "ByteCount", strconv.Itoa(int(l.ByteCount)))
	at(l.NameOffset, 1, "Name", "")
	at(int(l.ParameterOffset), int(l.ParameterCount), "Parameters", preview(v.req.Parameters))
	at(int(l.DataOffset), int(l.DataCount), "Data", preview(v.req.Data))

	return t.Rows()
}

// LayoutView is the printable form of a planned layout.
type LayoutView struct {
	*trans2.Layout
}

// Headers implements TableRenderer.
func (v LayoutView) Headers() []string {
	return []string{"Region", "Offset", "Size"}
}

// Rows implements TableRenderer.
func (v LayoutView) Rows() [][]string {
	l := v.Layout
	t := NewTableData(v.Headers()...)
	region := func(name string, off, size int) {
		t.AddRow(name, strconv.Itoa(off), strconv.Itoa(size))
	}

	region("Header", 0, header.Size)
	region("ParameterWords", header.Size, 1+2*trans2.FixedWords)
	region("Setup", header.Size+1+2*trans2.FixedWords, 2*int(l.SetupCount))
	region("ByteCount", l.NameOffset-2, 2)
	region("Name", l.NameOffset, 1)
	region("Pad1", l.NameOffset+1, l.Pad1)
	region("Parameters", int(l.ParameterOffset), int(l.ParameterCount))
	region("Pad2", int(l.ParameterOffset)+int(l.ParameterCount), l.Pad2)
	region("Data", int(l.DataOffset), int(l.DataCount))
	region("End", l.Length, 0)

	return t.Rows()
}

// EncodedView is the result of an encode: the message bytes and where the
// sections went.
type EncodedView struct {
	Hex    string         `json:"hex" yaml:"hex"`
	Length int            `json:"length" yaml:"length"`
	Layout *trans2.Layout `json:"layout" yaml:"layout"`
}

// NewEncodedView builds the view of an encoded message.
func NewEncodedView(raw []byte, l *trans2.Layout) *EncodedView {
	return &EncodedView{Hex: hex.EncodeToString(raw), Length: len(raw), Layout: l}
}

// preview hex-encodes up to hexPreview bytes of b.
func preview(b []byte) string {
	if len(b) <= hexPreview {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:hexPreview]) + fmt.Sprintf("... (+%d bytes)", len(b)-hexPreview)
}
