package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
	"inkwell/internal/platform/paypal"
	"inkwell/internal/service"
)

// PaymentHandler 處理訂閱付款
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type createOrderInput struct {
	Plan string `json:"plan" binding:"required,oneof=plus pro"`
}

// CreateOrder 建立 PayPal 訂單，回傳核准連結
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.paymentService.CreateOrder(c.Request.Context(), userID, models.SubscriptionPlan(input.Plan))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Capture 用戶核准後請款並開通訂閱
func (h *PaymentHandler) Capture(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.paymentService.CaptureOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Webhook 接收 PayPal 事件通知
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無法讀取請求內容"})
		return
	}

	headers := paypal.WebhookHeaders{
		TransmissionID:   c.GetHeader("Paypal-Transmission-Id"),
		TransmissionTime: c.GetHeader("Paypal-Transmission-Time"),
		TransmissionSig:  c.GetHeader("Paypal-Transmission-Sig"),
		CertURL:          c.GetHeader("Paypal-Cert-Url"),
		AuthAlgo:         c.GetHeader("Paypal-Auth-Algo"),
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), headers, body); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
