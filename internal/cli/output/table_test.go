package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Region", "Offset", "Size")

	assert.Equal(t, []string{"Region", "Offset", "Size"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("Name", "65", "1")
	table.AddRow("Parameters", "68", "12")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "65", "1"}, rows[0])
	assert.Equal(t, []string{"Parameters", "68", "12"}, rows[1])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Field", "Value")
	table.AddRow("ParameterOffset", "68")
	table.AddRow("DataOffset", "80")

	var buf bytes.Buffer
	err := PrintTable(&buf, table)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "FIELD")
	assert.Contains(t, output, "VALUE")
	assert.Contains(t, output, "ParameterOffset")
	assert.Contains(t, output, "68")
	assert.Contains(t, output, "DataOffset")
	assert.Contains(t, output, "80")
}
