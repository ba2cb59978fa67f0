// Package dataset 内存表格数据集
// 资产清单以带表头的 CSV 存储，每个单元格要么是字符串，要么缺失(nil)
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformed CSV 内容无法解析
var ErrMalformed = errors.New("malformed csv")

// Row 一行记录，列名 -> 单元格值，nil 表示缺失
type Row map[string]*string

// Get 获取单元格值，缺失时 ok=false
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Table 表格数据集
// Columns 保持源文件中的列顺序
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn 判断是否存在指定列
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len 返回行数
func (t *Table) Len() int {
	return len(t.Rows)
}

// Str 返回字符串指针，便于构造单元格
func Str(s string) *string {
	return &s
}

// ReadCSV 读取带表头的 CSV 文件
// 空单元格和短行中不存在的单元格都读为缺失(nil)
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read 从 reader 读取 CSV
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no header row", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) && record[i] != "" {
				row[col] = Str(record[i])
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteCSV 将数据集写入 CSV 文件，缺失值写为空字符串
// 目标目录不存在时自动创建
func WriteCSV(path string, table *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write 将数据集以 CSV 写入 writer
func Write(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i], _ = row.Get(col)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
