/**
 * Transformer 结构映射器
 * @description: 从原始数据集中选出六列并重命名为规范化字段，填充缺失值、规范化安装日期。
 * 安装日期解析失败时为 NULL 而不是 Unknown，与 Cleaner 对同一列的处理刻意不同。
 */
package etl

import (
	"fmt"
	"strings"
	"time"

	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/dataset"
	"itassets/internal/pkg/logger"
)

// ColumnMapping 源列 -> 规范化列
type ColumnMapping struct {
	Source    string
	Canonical string
}

// SourceColumns 必需的源列及其规范化名称，顺序与 assetmodel.CanonicalColumns 一致
var SourceColumns = []ColumnMapping{
	{Source: "hostname", Canonical: "hostname"},
	{Source: "country", Canonical: "country"},
	{Source: "operating_system_name", Canonical: "os_name"},
	{Source: "operating_system_provider", Canonical: "os_provider"},
	{Source: "operating_system_lifecycle_status", Canonical: "lifecycle_status"},
	{Source: "operating_system_installation_date", Canonical: "install_date"},
}

// Transform 将原始数据集转换为规范化资产记录
// 缺少任一必需列时返回 ErrSchema
func Transform(table *dataset.Table) ([]assetmodel.ITAsset, error) {
	start := time.Now()

	var missing []string
	for _, m := range SourceColumns {
		if !table.HasColumn(m.Source) {
			missing = append(missing, m.Source)
		}
	}
	if len(missing) > 0 {
		return nil, NewError(ErrSchema, "transform", fmt.Errorf("missing columns: %s", strings.Join(missing, ", ")))
	}

	assets := make([]assetmodel.ITAsset, 0, table.Len())
	nullDates := 0
	for _, row := range table.Rows {
		a := TransformRow(row)
		if a.InstallDate == nil {
			nullDates++
		}
		assets = append(assets, a)
	}

	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:    "transform",
		Status:   "success",
		Records:  len(assets),
		Duration: time.Since(start).Milliseconds(),
		Message:  "Cleaned and transformed data",
	}, map[string]interface{}{
		"null_install_dates": nullDates,
	})

	return assets, nil
}

// TransformRow 转换单行
func TransformRow(row dataset.Row) assetmodel.ITAsset {
	country, ok := textValue(row, "country")
	if ok {
		country = strings.ToUpper(country)
	} else {
		country = assetmodel.UnknownCountry
	}

	var installDate *string
	if raw, ok := textValue(row, "operating_system_installation_date"); ok {
		installDate = NormalizeDate(&raw)
	}

	return assetmodel.ITAsset{
		Hostname:        textOrUnknown(row, "hostname"),
		Country:         country,
		OSName:          textOrUnknown(row, "operating_system_name"),
		OSProvider:      textOrUnknown(row, "operating_system_provider"),
		LifecycleStatus: textOrUnknown(row, "operating_system_lifecycle_status"),
		InstallDate:     installDate,
	}
}

// textValue 取去除空白后的文本，空串视为缺失
func textValue(row dataset.Row, column string) (string, bool) {
	v, ok := row.Get(column)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func textOrUnknown(row dataset.Row, column string) string {
	if v, ok := textValue(row, column); ok {
		return v
	}
	return assetmodel.UnknownValue
}
