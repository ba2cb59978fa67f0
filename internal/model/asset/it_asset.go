package asset

// 资产字段的缺失值占位符
const (
	UnknownValue   = "Unknown" // 文本字段缺失
	UnknownCountry = "UNKNOWN" // 国家字段缺失(大写)
)

// 风险等级
const (
	RiskHigh = "High"
	RiskLow  = "Low"
)

// ITAsset 规范化资产记录表
// 六个字段全部为 TEXT；install_date 要么是 YYYY-MM-DD 要么为 NULL，不使用占位符
type ITAsset struct {
	Hostname        string  `json:"hostname" gorm:"column:hostname;type:text"`                 // 主机名
	Country         string  `json:"country" gorm:"column:country;type:text"`                   // 国家(大写)
	OSName          string  `json:"os_name" gorm:"column:os_name;type:text"`                   // 操作系统名称
	OSProvider      string  `json:"os_provider" gorm:"column:os_provider;type:text"`           // 操作系统厂商
	LifecycleStatus string  `json:"lifecycle_status" gorm:"column:lifecycle_status;type:text"` // 生命周期状态(EOL/EOS/...)
	InstallDate     *string `json:"install_date" gorm:"column:install_date;type:text"`         // 安装日期 YYYY-MM-DD 或 NULL
}

// TableName 定义数据库表名
func (ITAsset) TableName() string {
	return "it_assets"
}

// EnrichedITAsset 富化后的资产记录
// 作为搜索引擎文档提交，install_date 为 nil 时序列化为 null
type EnrichedITAsset struct {
	ITAsset
	RiskLevel      string `json:"risk_level"`       // 风险等级 High/Low
	SystemAgeYears int    `json:"system_age_years"` // 系统年龄(年)
}

// CanonicalColumns 规范化表的列顺序
var CanonicalColumns = []string{
	"hostname",
	"country",
	"os_name",
	"os_provider",
	"lifecycle_status",
	"install_date",
}

// Values 按 CanonicalColumns 顺序返回字段值，NULL 显示为空字符串
func (a ITAsset) Values() []string {
	installDate := ""
	if a.InstallDate != nil {
		installDate = *a.InstallDate
	}
	return []string{a.Hostname, a.Country, a.OSName, a.OSProvider, a.LifecycleStatus, installDate}
}
