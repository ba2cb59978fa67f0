package dataset

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MissingCells(t *testing.T) {
	input := "\ufeffhostname,country,os\n" +
		"host1,us,Linux\n" +
		"host2,,Windows\n" +
		"host3,de\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"hostname", "country", "os"}, table.Columns)
	assert.Equal(t, 3, table.Len())

	v, ok := table.Rows[0].Get("country")
	assert.True(t, ok)
	assert.Equal(t, "us", v)

	// 空单元格读为缺失
	_, ok = table.Rows[1].Get("country")
	assert.False(t, ok)

	// 短行中不存在的单元格读为缺失
	_, ok = table.Rows[2].Get("os")
	assert.False(t, ok)
	assert.Nil(t, table.Rows[2]["os"])
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Read(strings.NewReader("a,b\n\"unterminated,1\n"))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestReadCSV_NotFound(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	table := &Table{
		Columns: []string{"hostname", "note"},
		Rows: []Row{
			{"hostname": Str("host1"), "note": Str("has, comma")},
			{"hostname": Str("host2"), "note": nil},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, WriteCSV(path, table))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hostname,note\nhost1,\"has, comma\"\nhost2,\n", string(raw))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, back.Columns)
	v, _ := back.Rows[0].Get("note")
	assert.Equal(t, "has, comma", v)
	_, ok := back.Rows[1].Get("note")
	assert.False(t, ok)
}

func TestHasColumn(t *testing.T) {
	table := &Table{Columns: []string{"a", "b"}}
	assert.True(t, table.HasColumn("b"))
	assert.False(t, table.HasColumn("c"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table))
	assert.Equal(t, "a,b\n", buf.String())
}
