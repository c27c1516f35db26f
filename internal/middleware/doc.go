// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含 JWT 身份驗證與管理員權限檢查，
// 驗證通過後會把用戶 ID 與角色寫入請求上下文供 handlers 使用。
package middleware
