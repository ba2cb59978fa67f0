package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"itassets/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileHook 将不同类型的日志写入不同的文件
// pipeline 类型写 pipeline.log，error 类型写 error.log，其余写主日志文件
type FileHook struct {
	logConfig *config.LogConfig
	writers   map[string]io.Writer
	formatter logrus.Formatter
	mutex     sync.Mutex
}

// NewFileHook 创建一个新的FileHook实例
func NewFileHook(logConfig *config.LogConfig) *FileHook {
	hook := &FileHook{
		logConfig: logConfig,
		writers:   make(map[string]io.Writer),
		formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		},
	}

	if logConfig.FilePath != "" {
		hook.writers["default"] = hook.newRollingWriter(logConfig.FilePath)
	}

	return hook
}

// Levels 返回此Hook关心的所有日志级别
func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire 在日志触发时执行
func (hook *FileHook) Fire(entry *logrus.Entry) error {
	logType := "default"
	if lt, ok := entry.Data["type"]; ok {
		switch t := lt.(type) {
		case LogType:
			logType = string(t)
		case string:
			logType = t
		}
	}

	writer := hook.getWriter(logType)
	if writer == nil {
		return nil
	}

	formatted, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.mutex.Lock()
	defer hook.mutex.Unlock()
	_, err = writer.Write(formatted)
	return err
}

// getWriter 获取指定类型的writer，如果不存在则创建
func (hook *FileHook) getWriter(logType string) io.Writer {
	hook.mutex.Lock()
	defer hook.mutex.Unlock()

	if writer, exists := hook.writers[logType]; exists {
		return writer
	}
	if hook.logConfig.FilePath == "" {
		return nil
	}

	logDir := filepath.Dir(hook.logConfig.FilePath)

	var filename string
	switch LogType(logType) {
	case PipelineLog:
		filename = filepath.Join(logDir, "pipeline.log")
	case ErrorLog:
		filename = filepath.Join(logDir, "error.log")
	default:
		return hook.writers["default"]
	}

	writer := hook.newRollingWriter(filename)
	hook.writers[logType] = writer
	return writer
}

// newRollingWriter 创建按大小滚动的文件writer
func (hook *FileHook) newRollingWriter(filename string) io.Writer {
	_ = os.MkdirAll(filepath.Dir(filename), 0755)
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    hook.logConfig.MaxSize,
		MaxBackups: hook.logConfig.MaxBackups,
		MaxAge:     hook.logConfig.MaxAge,
		Compress:   hook.logConfig.Compress,
	}
}
