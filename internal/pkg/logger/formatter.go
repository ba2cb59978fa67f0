// 结构化日志辅助函数
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogType 日志类型枚举
type LogType string

const (
	// PipelineLog 流水线日志 - 记录每个阶段的执行结果
	PipelineLog LogType = "pipeline"
	// ErrorLog 错误日志 - 记录系统错误和异常
	ErrorLog LogType = "error"
	// SystemLog 系统日志 - 记录组件启动、连接等状态
	SystemLog LogType = "system"
)

// PipelineLogEntry 流水线阶段日志条目结构
type PipelineLogEntry struct {
	Stage    string `json:"stage"`    // 阶段名称（clean, load, transform, store, enrich, index）
	Status   string `json:"status"`   // 阶段状态（success, degraded, failed）
	Records  int    `json:"records"`  // 处理的记录数
	Duration int64  `json:"duration"` // 耗时（毫秒）
	Message  string `json:"message"`  // 详细信息
}

// LogPipelineStage 记录流水线阶段日志
func LogPipelineStage(entry PipelineLogEntry, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	fields := logrus.Fields{
		"type":     PipelineLog,
		"stage":    entry.Stage,
		"status":   entry.Status,
		"records":  entry.Records,
		"duration": entry.Duration,
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	msg := entry.Message
	if msg == "" {
		msg = fmt.Sprintf("Pipeline stage %s: %s", entry.Stage, entry.Status)
	}

	switch entry.Status {
	case "failed":
		LoggerInstance.logger.WithFields(fields).Error(msg)
	case "degraded":
		LoggerInstance.logger.WithFields(fields).Warn(msg)
	default:
		LoggerInstance.logger.WithFields(fields).Info(msg)
	}
}

// LogError 记录错误日志
func LogError(err error, component, operation string, extraFields map[string]interface{}) {
	if LoggerInstance == nil || err == nil {
		return
	}

	fields := logrus.Fields{
		"type":      ErrorLog,
		"error":     err.Error(),
		"component": component,
		"operation": operation,
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	LoggerInstance.logger.WithFields(fields).Errorf("System error occurred: %s", err.Error())
}

// LogInfo 记录信息日志
func LogInfo(message, component, operation string, extraFields map[string]interface{}) {
	if LoggerInstance == nil || message == "" {
		return
	}

	fields := logrus.Fields{
		"type":      "info",
		"component": component,
		"operation": operation,
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	LoggerInstance.logger.WithFields(fields).Info(message)
}

// LogWarn 记录警告日志
func LogWarn(message, component, operation string, extraFields map[string]interface{}) {
	if LoggerInstance == nil || message == "" {
		return
	}

	fields := logrus.Fields{
		"type":      "warn",
		"component": component,
		"operation": operation,
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	LoggerInstance.logger.WithFields(fields).Warn(message)
}

// LogSystemEvent 记录系统事件日志
// 用于记录数据库连接、搜索引擎连接等组件级事件
func LogSystemEvent(component, event, message string, level logrus.Level, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	fields := logrus.Fields{
		"type":      SystemLog,
		"component": component,
		"event":     event,
	}
	if message != "" {
		fields["detail"] = message
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	LoggerInstance.logger.WithFields(fields).Log(level, fmt.Sprintf("System event: %s - %s", component, event))
}
