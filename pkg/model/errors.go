package model

import "errors"

// 管线统一错误类别，调用方用 errors.Is 判断
var (
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidTransition 当前状态不允许该操作
	ErrInvalidTransition = errors.New("非法状态流转")
	// ErrExternalService 外部服务调用失败
	ErrExternalService = errors.New("外部服务调用失败")
	// ErrExhausted 重试预算耗尽
	ErrExhausted = errors.New("尝试次数已耗尽")
)
