package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentOrder 一筆 PayPal 訂單的本地記錄
type PaymentOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProviderOrderID string             `bson:"provider_order_id" json:"provider_order_id"` // PayPal 端的訂單 ID
	Plan            SubscriptionPlan   `bson:"plan" json:"plan"`
	Amount          string             `bson:"amount" json:"amount"` // PayPal 金額為字串，例如 "9.99"
	Currency        string             `bson:"currency" json:"currency"`
	Status          PaymentStatus      `bson:"status" json:"status"`
	CaptureID       string             `bson:"capture_id,omitempty" json:"capture_id,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "created"
	PaymentApproved PaymentStatus = "approved"
	PaymentCaptured PaymentStatus = "captured"
	PaymentFailed   PaymentStatus = "failed"
)

// PlanPrice 各方案的月費，回傳金額與幣別
func PlanPrice(plan SubscriptionPlan) (string, string, bool) {
	switch plan {
	case PlanPlus:
		return "9.99", "USD", true
	case PlanPro:
		return "29.99", "USD", true
	}
	return "", "", false
}
