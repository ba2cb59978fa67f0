/**
 * Cleaner 原始清单清洗
 * @description: 按 hostname 去重、去除首尾空白、缺失值填充 Unknown、安装日期按日在前规范化，
 * 结果写入同目录下的 *_cleaned.csv，不修改输入文件。
 */
package etl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/dataset"
	"itassets/internal/pkg/logger"
)

const (
	// ColumnHostname 去重键
	ColumnHostname = "hostname"
	// ColumnInstallDate 需要规范化的日期列
	ColumnInstallDate = "operating_system_installation_date"
)

// CleanReport 清洗统计
type CleanReport struct {
	InputPath       string // 输入文件
	OutputPath      string // 输出文件
	InputRows       int    // 输入行数
	OutputRows      int    // 输出行数
	DuplicatesFound int    // 丢弃的重复行
	FilledCells     int    // 填充 Unknown 的单元格
	InvalidDates    int    // 无法解析的日期
}

// Cleaner 原始清单清洗器
type Cleaner struct{}

// NewCleaner 创建清洗器
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanedPath 返回清洗结果路径: <dir>/<stem>_cleaned<ext>
func CleanedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	if ext == "" {
		ext = ".csv"
	}
	return stem + "_cleaned" + ext
}

// Clean 清洗 inputPath 并写入 CleanedPath(inputPath)
func (c *Cleaner) Clean(ctx context.Context, inputPath string) (*CleanReport, error) {
	start := time.Now()

	table, err := LoadTable(inputPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, report, err := c.CleanTable(table)
	if err != nil {
		return nil, err
	}
	report.InputPath = inputPath
	report.OutputPath = CleanedPath(inputPath)

	if err := dataset.WriteCSV(report.OutputPath, cleaned); err != nil {
		return nil, NewError(ErrFileAccess, "clean", err)
	}

	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:    "clean",
		Status:   "success",
		Records:  report.OutputRows,
		Duration: time.Since(start).Milliseconds(),
		Message:  "Data cleaning completed",
	}, map[string]interface{}{
		"input":         inputPath,
		"output":        report.OutputPath,
		"duplicates":    report.DuplicatesFound,
		"invalid_dates": report.InvalidDates,
	})

	return report, nil
}

// CleanTable 在内存中清洗数据集，返回新数据集，不修改输入
// 缺少 hostname 列时返回 ErrSchema
func (c *Cleaner) CleanTable(table *dataset.Table) (*dataset.Table, *CleanReport, error) {
	if !table.HasColumn(ColumnHostname) {
		return nil, nil, NewError(ErrSchema, "clean", fmt.Errorf("missing columns: %s", ColumnHostname))
	}

	report := &CleanReport{InputRows: table.Len()}

	out := &dataset.Table{Columns: append([]string(nil), table.Columns...)}
	hasDate := table.HasColumn(ColumnInstallDate)

	// 1. 按 hostname 去重，保留第一次出现的行
	// 比较去除空白后的值，缺失的 hostname 视为同一个键
	seen := make(map[string]struct{}, table.Len())
	for _, row := range table.Rows {
		key := "\x00missing"
		if v, ok := row.Get(ColumnHostname); ok && strings.TrimSpace(v) != "" {
			key = strings.TrimSpace(v)
		}
		if _, dup := seen[key]; dup {
			report.DuplicatesFound++
			continue
		}
		seen[key] = struct{}{}

		cleanedRow := make(dataset.Row, len(out.Columns))
		for _, col := range out.Columns {
			// 2. 去除首尾空白
			// 3. 空字符串和缺失值填充 Unknown
			v, ok := row.Get(col)
			v = strings.TrimSpace(v)
			if !ok || v == "" {
				v = assetmodel.UnknownValue
				report.FilledCells++
			}
			cleanedRow[col] = dataset.Str(v)
		}

		// 4. 安装日期按日在前解析，失败填充 Unknown
		if hasDate {
			raw, _ := cleanedRow.Get(ColumnInstallDate)
			if t, err := ParseDateDayFirst(raw); err == nil {
				cleanedRow[ColumnInstallDate] = dataset.Str(t.Format(DateLayout))
			} else {
				cleanedRow[ColumnInstallDate] = dataset.Str(assetmodel.UnknownValue)
				report.InvalidDates++
			}
		}

		out.Rows = append(out.Rows, cleanedRow)
	}

	report.OutputRows = out.Len()
	return out, report, nil
}
