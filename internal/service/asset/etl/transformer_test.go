package etl

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func sourceRow(values map[string]*string) dataset.Row {
	row := dataset.Row{}
	for _, m := range SourceColumns {
		row[m.Source] = values[m.Source]
	}
	return row
}

func sourceTable(rows ...dataset.Row) *dataset.Table {
	cols := []string{"extra_column"}
	for _, m := range SourceColumns {
		cols = append(cols, m.Source)
	}
	return &dataset.Table{Columns: cols, Rows: rows}
}

// TestTransform_ScenarioA 典型记录的字段映射
func TestTransform_ScenarioA(t *testing.T) {
	row := sourceRow(map[string]*string{
		"hostname":                           dataset.Str(" host1 "),
		"country":                            dataset.Str("us"),
		"operating_system_name":              dataset.Str("Linux"),
		"operating_system_provider":          dataset.Str("RedHat"),
		"operating_system_lifecycle_status":  dataset.Str("EOL"),
		"operating_system_installation_date": dataset.Str("01/01/2010"),
	})
	row["extra_column"] = dataset.Str("dropped")

	assets, err := Transform(sourceTable(row))
	require.NoError(t, err)
	require.Len(t, assets, 1)

	date := "2010-01-01"
	assert.Equal(t, assetmodel.ITAsset{
		Hostname:        "host1",
		Country:         "US",
		OSName:          "Linux",
		OSProvider:      "RedHat",
		LifecycleStatus: "EOL",
		InstallDate:     &date,
	}, assets[0])
}

// TestTransform_ScenarioC 空的厂商字段填充 Unknown
func TestTransform_ScenarioC(t *testing.T) {
	row := sourceRow(map[string]*string{
		"hostname":                  dataset.Str("host9"),
		"operating_system_provider": dataset.Str(""),
	})

	assets, err := Transform(sourceTable(row))
	require.NoError(t, err)

	a := assets[0]
	assert.Equal(t, "Unknown", a.OSProvider)
	assert.Equal(t, "Unknown", a.OSName)
	assert.Equal(t, "Unknown", a.LifecycleStatus)
	assert.Equal(t, "UNKNOWN", a.Country)
	assert.Nil(t, a.InstallDate)
}

// TestTransform_ScenarioD 无法解析的日期为 NULL 而不是 Unknown
func TestTransform_ScenarioD(t *testing.T) {
	for _, raw := range []string{"not-a-date", "Unknown", "2021-02-30"} {
		row := sourceRow(map[string]*string{
			"hostname":                           dataset.Str("h"),
			"operating_system_installation_date": dataset.Str(raw),
		})
		assets, err := Transform(sourceTable(row))
		require.NoError(t, err)
		assert.Nil(t, assets[0].InstallDate, "input %q", raw)
	}
}

func TestTransform_DateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2010-01-01", "2010-01-01"},
		{"2015-02-13 00:00:00", "2015-02-13"},
		{"2018/07/04", "2018-07-04"},
		{"03/15/2012", "2012-03-15"},
		{"March 5, 2016", "2016-03-05"},
		// 月份位置 >12 时按日在前
		{"25/12/2015", "2015-12-25"},
		{"13/01/2010", "2010-01-13"},
		{"1700-01-01", "1700-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeDate(&tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

// TestTransform_DateWithoutYear 没有年份或年份越界的输入视为无法解析
func TestTransform_DateWithoutYear(t *testing.T) {
	for _, raw := range []string{"3.14", "12:30", "1.2", "1/2/", "8.8.8.8", "0001-01-01", "9999-12-31"} {
		t.Run(raw, func(t *testing.T) {
			assert.Nil(t, NormalizeDate(&raw))

			row := sourceRow(map[string]*string{
				"hostname":                           dataset.Str("h"),
				"operating_system_installation_date": dataset.Str(raw),
			})
			assets, err := Transform(sourceTable(row))
			require.NoError(t, err)
			assert.Nil(t, assets[0].InstallDate)
		})
	}
}

// TestTransform_SchemaError 缺少必需列
func TestTransform_SchemaError(t *testing.T) {
	table := &dataset.Table{Columns: []string{"hostname", "country"}}

	_, err := Transform(table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "operating_system_installation_date")
	assert.NotContains(t, err.Error(), "missing columns: hostname")
}

// TestTransform_Invariants 所有输出行满足规范化约束
func TestTransform_Invariants(t *testing.T) {
	table, err := dataset.Read(strings.NewReader(rawInventory))
	require.NoError(t, err)

	assets, err := Transform(table)
	require.NoError(t, err)
	require.Len(t, assets, table.Len())

	for _, a := range assets {
		assert.NotEmpty(t, a.Hostname)
		assert.NotEmpty(t, a.OSName)
		assert.NotEmpty(t, a.OSProvider)
		assert.NotEmpty(t, a.LifecycleStatus)
		assert.NotEmpty(t, a.Country)
		assert.Equal(t, strings.ToUpper(a.Country), a.Country)

		if a.InstallDate != nil {
			assert.Regexp(t, isoDate, *a.InstallDate)
			_, err := time.Parse(DateLayout, *a.InstallDate)
			assert.NoError(t, err)
		}
	}
}
