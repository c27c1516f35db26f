package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 表示平台上的一個用戶（作者或管理員）
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // 用戶名，必須唯一
	Email        string             `bson:"email" json:"email"`       // 信箱，必須唯一
	Password     string             `bson:"password" json:"-"`        // bcrypt 雜湊，json 序列化時會被忽略
	Role         UserRole           `bson:"role" json:"role"`
	PenName      string             `bson:"pen_name,omitempty" json:"pen_name,omitempty"` // 筆名
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Subscription Subscription       `bson:"subscription" json:"subscription"`
	Credibility  Credibility        `bson:"credibility" json:"credibility"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RoleAuthor UserRole = "author" // 一般作者
	RoleAdmin  UserRole = "admin"  // 管理員，可跳過擁有權檢查
)

// Subscription 訂閱方案的內嵌文件
type Subscription struct {
	Plan             SubscriptionPlan `bson:"plan" json:"plan"`
	Status           string           `bson:"status" json:"status"` // active / expired / canceled
	CurrentPeriodEnd time.Time        `bson:"current_period_end,omitempty" json:"current_period_end,omitempty"`
	PayPalOrderID    string           `bson:"paypal_order_id,omitempty" json:"-"`
	AICreditsUsed    int              `bson:"ai_credits_used" json:"ai_credits_used"`                       // 本月已用的 AI 次數
	CreditsResetAt   time.Time        `bson:"credits_reset_at,omitempty" json:"credits_reset_at,omitempty"` // 額度下次歸零的時間
}

// EffectivePlan 目前實際生效的方案，付費方案過期後視同 free
func (s Subscription) EffectivePlan(now time.Time) SubscriptionPlan {
	if s.Plan != PlanFree && !s.CurrentPeriodEnd.IsZero() && now.After(s.CurrentPeriodEnd) {
		return PlanFree
	}
	return s.Plan
}

// Refresh 滾動訂閱狀態：過期的付費方案退回 free，
// 額度週期屆滿時歸零並展開下一個月的週期。回傳是否需要持久化。
func (s *Subscription) Refresh(now time.Time) bool {
	changed := false
	if s.EffectivePlan(now) != s.Plan {
		s.Plan = PlanFree
		s.Status = "expired"
		changed = true
	}
	if s.CreditsResetAt.IsZero() || !now.Before(s.CreditsResetAt) {
		s.AICreditsUsed = 0
		s.CreditsResetAt = now.AddDate(0, 1, 0)
		changed = true
	}
	return changed
}

type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPlus SubscriptionPlan = "plus"
	PlanPro  SubscriptionPlan = "pro"
)

// MonthlyAICredits 各方案每月可用的 AI 生成次數
func (p SubscriptionPlan) MonthlyAICredits() int {
	switch p {
	case PlanPlus:
		return 200
	case PlanPro:
		return 2000
	default:
		return 10
	}
}

// Credibility 作者信譽統計，作為推薦排行的因素之一
type Credibility struct {
	PublishedBooks int     `bson:"published_books" json:"published_books"`
	AvgQuality     float64 `bson:"avg_quality" json:"avg_quality"` // 已出版書籍的平均品質分數 (0-100)
	Followers      int     `bson:"followers" json:"followers"`
}
