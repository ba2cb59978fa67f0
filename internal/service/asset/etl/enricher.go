package etl

import (
	"time"

	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/logger"
)

const secondsPerDay = 24 * 60 * 60

// highRiskStatuses 判定为高风险的生命周期状态 (大小写敏感、完全匹配)
var highRiskStatuses = map[string]struct{}{
	"EOL": {},
	"EOS": {},
}

// Enricher 资产富化器
// 计算风险等级和系统年龄
type Enricher struct {
	now func() time.Time
}

// NewEnricher 创建富化器，now 为 nil 时使用 time.Now
func NewEnricher(now func() time.Time) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{now: now}
}

// Enrich 富化全部记录，today 在调用时取一次
func (e *Enricher) Enrich(assets []assetmodel.ITAsset) []assetmodel.EnrichedITAsset {
	start := time.Now()
	today := e.now()

	out := make([]assetmodel.EnrichedITAsset, 0, len(assets))
	high := 0
	for _, a := range assets {
		risk := RiskLevel(a.LifecycleStatus)
		if risk == assetmodel.RiskHigh {
			high++
		}
		out = append(out, assetmodel.EnrichedITAsset{
			ITAsset:        a,
			RiskLevel:      risk,
			SystemAgeYears: SystemAgeYears(a.InstallDate, today),
		})
	}

	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:    "enrich",
		Status:   "success",
		Records:  len(out),
		Duration: time.Since(start).Milliseconds(),
		Message:  "Enriched data with risk_level and system_age_years",
	}, map[string]interface{}{
		"high_risk": high,
	})

	return out
}

// RiskLevel lifecycle_status 为 EOL 或 EOS 时为 High，否则为 Low
func RiskLevel(lifecycleStatus string) string {
	if _, ok := highRiskStatuses[lifecycleStatus]; ok {
		return assetmodel.RiskHigh
	}
	return assetmodel.RiskLow
}

// SystemAgeYears 系统年龄 = floor(距今天数 / 365)
// 日期缺失或无法解析为 0；未来日期截断为 0
func SystemAgeYears(installDate *string, today time.Time) int {
	if installDate == nil {
		return 0
	}
	installed, err := ParseDate(*installDate)
	if err != nil {
		return 0
	}

	// 按日历日计算，忽略时区和时刻
	// 不用 time.Duration，其上限约 292 年
	y, m, d := today.Date()
	todayDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := int((todayDate.Unix() - installed.Unix()) / secondsPerDay)
	if days <= 0 {
		return 0
	}
	return days / 365
}
