// Package api 定義 HTTP 路由並彙整各個 handlers。
//
// 它負責將 HTTP 請求轉換為適當的服務調用，並將結果轉換回 HTTP 響應。
// 書籍、AI 寫作、設計、通知、對話與付款等端點都在這裡註冊。
package api
