package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// maskedValue 敏感字段的显示值
const maskedValue = "******"

// Dump 将生效配置序列化为 YAML，api_key 和 dsn 中的密码做脱敏处理
func Dump(cfg *Config) ([]byte, error) {
	masked := *cfg
	if masked.Search.APIKey != "" {
		masked.Search.APIKey = maskedValue
	}
	masked.Database.DSN = maskDSN(masked.Database.DSN)
	return yaml.Marshal(&masked)
}

// maskDSN 隐藏 user:pass@tcp(...) 中的密码
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	colon := strings.Index(dsn[:at], ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:colon+1] + maskedValue + dsn[at:]
}
