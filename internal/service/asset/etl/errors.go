// 错误分类
// 定义流水线各阶段可能遇到的错误类型，决定中止还是降级
package etl

import (
	"errors"
	"fmt"
)

// 错误种类，可用 errors.Is 判断
var (
	ErrConfiguration     = errors.New("configuration error")      // 索引配置缺失 (降级)
	ErrFileAccess        = errors.New("file access error")        // 源文件缺失/不可读 (致命)
	ErrParse             = errors.New("parse error")              // 源文件格式错误 (致命)
	ErrSchema            = errors.New("schema error")             // 缺少必需列 (致命)
	ErrStorage           = errors.New("storage error")            // 关系库读写失败 (致命)
	ErrIndexDocument     = errors.New("index document error")     // 单个文档提交失败 (计数)
	ErrIndexConnectivity = errors.New("index connectivity error") // 搜索服务不可达 (索引阶段降级)
)

// PipelineError 流水线错误
// Kind 为上面的错误种类之一，Stage 为出错阶段，Err 为原始错误
type PipelineError struct {
	Kind  error
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Is 让 errors.Is(err, ErrXxx) 匹配错误种类
func (e *PipelineError) Is(target error) bool {
	return e.Kind == target
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewError 创建流水线错误
func NewError(kind error, stage string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Err: err}
}

// IsFatal 判断错误是否应中止整个流水线
// 配置缺失、单文档失败和搜索服务不可达只影响索引阶段
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrIndexDocument),
		errors.Is(err, ErrIndexConnectivity):
		return false
	default:
		return true
	}
}
