package service

import "errors"

// 各服務共用的哨兵錯誤，handler 依此對應 HTTP 狀態碼
var (
	ErrNotFound      = errors.New("資源不存在")
	ErrForbidden     = errors.New("沒有權限執行此操作")
	ErrQuotaExceeded = errors.New("本月 AI 額度已用完")
	ErrInvalidInput  = errors.New("無效的輸入")
	ErrAIUnavailable = errors.New("AI 服務暫時無法使用")
)
