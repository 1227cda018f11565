package model

import "errors"

// 错误分类：
// - ErrValidation: 输入不合法（缺少身份字段、权重不等于 100 等）
// - ErrNotFound: 按 ID 查询不到记录
// - ErrState: 谈判状态机不允许的迁移
// 纯函数（过滤、解析、打分、聚合）对类型正确的输入不返回错误。
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state transition")
)
