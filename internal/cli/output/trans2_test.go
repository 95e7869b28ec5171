package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/types"
)

func decodedFindFirst2(t *testing.T) (*trans2.Request, *trans2.Layout) {
	t.Helper()
	raw, err := trans2.Encode(&trans2.Request{
		Setup:      []uint16{uint16(types.Trans2FindFirst2)},
		Parameters: []byte{0x16, 0x00, 0x00, 0x02},
		Data:       bytes.Repeat([]byte{0xAB}, 40),
	})
	require.NoError(t, err)
	req, l, err := trans2.Decode(raw)
	require.NoError(t, err)
	return req, l
}

// findRow returns the first row whose Field column equals field.
func findRow(rows [][]string, field string) []string {
	for _, r := range rows {
		if r[2] == field {
			return r
		}
	}
	return nil
}

func TestRequestViewRows(t *testing.T) {
	v := NewRequestView(decodedFindFirst2(t))
	rows := v.Rows()

	assert.Equal(t, []string{"53", "2", "ParameterOffset", "68"}, findRow(rows, "ParameterOffset"))
	assert.Equal(t, []string{"57", "2", "DataOffset", "72"}, findRow(rows, "DataOffset"))
	assert.Equal(t, []string{"61", "2", "Setup[0]", "0x0001 TRANS2_FIND_FIRST2"}, findRow(rows, "Setup[0]"))
	assert.Equal(t, []string{"63", "2", "ByteCount", "47"}, findRow(rows, "ByteCount"))
	assert.Equal(t, []string{"68", "4", "Parameters", "16000002"}, findRow(rows, "Parameters"))

	data := findRow(rows, "Data")
	require.NotNil(t, data)
	assert.Equal(t, strings.Repeat("ab", hexPreview)+"... (+16 bytes)", data[3])
}

func TestRequestViewTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(NewRequestView(decodedFindFirst2(t))))

	out := buf.String()
	assert.Contains(t, out, "OFFSET")
	assert.Contains(t, out, "SMB_COM_TRANSACTION2")
	assert.Contains(t, out, "TRANS2_FIND_FIRST2")
}

func TestRequestViewJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, NewRequestView(decodedFindFirst2(t))))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "TRANS2_FIND_FIRST2", got["subcommand"])
	assert.Equal(t, "16000002", got["parameters"])
	assert.Equal(t, []any{"0x0001"}, got["setup"])
	assert.Equal(t, "0", got["flags"])

	hdr, ok := got["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SMB_COM_TRANSACTION2", hdr["command"])
	assert.Equal(t, "0xC801", hdr["flags2"])

	l, ok := got["layout"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 68, l["parameter_offset"])
	assert.EqualValues(t, 112, l["length"])
}

func TestRequestViewWithoutSetup(t *testing.T) {
	raw, err := trans2.Encode(&trans2.Request{})
	require.NoError(t, err)
	req, l, err := trans2.Decode(raw)
	require.NoError(t, err)

	v := NewRequestView(req, l)
	assert.Empty(t, v.Subcommand)
	assert.Empty(t, v.Setup)
	assert.Nil(t, findRow(v.Rows(), "Setup[0]"))
}

func TestLayoutView(t *testing.T) {
	l, err := trans2.Plan(&trans2.Request{Setup: []uint16{5}, Parameters: make([]byte, 12)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, LayoutView{l}))
	assert.Contains(t, buf.String(), "REGION")

	rows := LayoutView{l}.Rows()
	assert.Contains(t, rows, []string{"Setup", "61", "2"})
	assert.Contains(t, rows, []string{"Name", "65", "1"})
	assert.Contains(t, rows, []string{"Pad1", "66", "2"})
	assert.Contains(t, rows, []string{"Parameters", "68", "12"})
	assert.Contains(t, rows, []string{"Data", "80", "0"})
	assert.Contains(t, rows, []string{"End", "80", "0"})
}

func TestEncodedViewYAML(t *testing.T) {
	l := &trans2.Layout{Length: 2}
	var buf bytes.Buffer
	require.NoError(t, PrintYAML(&buf, NewEncodedView([]byte{0xFF, 0x53}, l)))

	out := buf.String()
	assert.Contains(t, out, "hex: ff53")
	assert.Contains(t, out, "length: 2")
}
