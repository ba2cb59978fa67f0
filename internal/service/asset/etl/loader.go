package etl

import (
	"errors"

	"itassets/internal/pkg/dataset"
)

// LoadTable 读取 CSV 数据集 (可能是已清洗的文件)
// 文件不可读返回 ErrFileAccess，内容格式错误返回 ErrParse
func LoadTable(path string) (*dataset.Table, error) {
	table, err := dataset.ReadCSV(path)
	if err != nil {
		if errors.Is(err, dataset.ErrMalformed) {
			return nil, NewError(ErrParse, "load", err)
		}
		return nil, NewError(ErrFileAccess, "load", err)
	}
	return table, nil
}
