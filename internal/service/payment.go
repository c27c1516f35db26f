package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"inkwell/internal/models"
	"inkwell/internal/platform/paypal"
	"inkwell/internal/repository"
)

// PaymentGateway 抽象 PayPal 客戶端，測試時可替換
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount, currency, description string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
	VerifyWebhookSignature(ctx context.Context, webhookID string, headers paypal.WebhookHeaders, event json.RawMessage) (bool, error)
}

type PaymentService struct {
	orderRepo repository.PaymentRepository
	userRepo  repository.UserRepository
	gateway   PaymentGateway
	webhookID string
	notifier  *NotificationService
	logger    *zap.Logger
}

func NewPaymentService(orderRepo repository.PaymentRepository, userRepo repository.UserRepository,
	gateway PaymentGateway, webhookID string, notifier *NotificationService, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		webhookID: webhookID,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreatedOrder 建單結果，ApproveURL 供前端導向 PayPal 核准頁
type CreatedOrder struct {
	Order      *models.PaymentOrder `json:"order"`
	ApproveURL string               `json:"approve_url"`
}

func (s *PaymentService) CreateOrder(ctx context.Context, userID primitive.ObjectID, plan models.SubscriptionPlan) (*CreatedOrder, error) {
	amount, currency, ok := models.PlanPrice(plan)
	if !ok {
		return nil, ErrInvalidInput
	}

	ppOrder, err := s.gateway.CreateOrder(ctx, amount, currency,
		fmt.Sprintf("Inkwell %s subscription", plan))
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal order: %w", err)
	}

	order := &models.PaymentOrder{
		UserID:          userID,
		ProviderOrderID: ppOrder.ID,
		Plan:            plan,
		Amount:          amount,
		Currency:        currency,
		Status:          models.PaymentCreated,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return &CreatedOrder{Order: order, ApproveURL: ppOrder.ApproveURL}, nil
}

// CaptureOrder 請款並在成功後開通訂閱
func (s *PaymentService) CaptureOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*models.PaymentOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.Status == models.PaymentCaptured {
		return order, nil
	}

	result, err := s.gateway.CaptureOrder(ctx, order.ProviderOrderID)
	if err != nil {
		order.Status = models.PaymentFailed
		_ = s.orderRepo.Update(ctx, order)
		return nil, fmt.Errorf("failed to capture paypal order: %w", err)
	}

	order.Status = models.PaymentCaptured
	order.CaptureID = result.CaptureID
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := s.activateSubscription(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// activateSubscription 設定方案、重置 AI 額度並通知用戶
func (s *PaymentService) activateSubscription(ctx context.Context, order *models.PaymentOrder) error {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	user.Subscription = models.Subscription{
		Plan:             order.Plan,
		Status:           "active",
		CurrentPeriodEnd: now.AddDate(0, 1, 0),
		PayPalOrderID:    order.ProviderOrderID,
		AICreditsUsed:    0,
		CreditsResetAt:   now.AddDate(0, 1, 0),
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, order.UserID, models.NotifyPaymentSuccess,
			"訂閱已開通", fmt.Sprintf("%s 方案已生效。", order.Plan), nil)
	}
	return nil
}

// webhookEvent PayPal webhook 事件的必要欄位
type webhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID                string `json:"id"`
		SupplementaryData struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

// HandleWebhook 驗簽後處理 PayPal webhook。
// 未知訂單照樣回 200，避免 PayPal 無限重送，只留 log。
func (s *PaymentService) HandleWebhook(ctx context.Context, headers paypal.WebhookHeaders, body json.RawMessage) error {
	ok, err := s.gateway.VerifyWebhookSignature(ctx, s.webhookID, headers, body)
	if err != nil {
		return fmt.Errorf("webhook verification failed: %w", err)
	}
	if !ok {
		return ErrForbidden
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ErrInvalidInput
	}

	if event.EventType != "PAYMENT.CAPTURE.COMPLETED" {
		s.logger.Debug("ignoring paypal event", zap.String("type", event.EventType))
		return nil
	}

	providerOrderID := event.Resource.SupplementaryData.RelatedIDs.OrderID
	if providerOrderID == "" {
		providerOrderID = event.Resource.ID
	}

	order, err := s.orderRepo.FindByProviderOrderID(ctx, providerOrderID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("webhook for unknown order", zap.String("provider_order_id", providerOrderID))
		return nil
	}
	if err != nil {
		return err
	}

	// 重送的事件不重複開通
	if order.Status == models.PaymentCaptured {
		return nil
	}

	order.Status = models.PaymentCaptured
	order.CaptureID = event.Resource.ID
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	return s.activateSubscription(ctx, order)
}
