package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell/internal/service"
)

// DiscoverHandler 處理推薦排行與個人化推薦
type DiscoverHandler struct {
	promotionService      *service.PromotionService
	recommendationService *service.RecommendationService
}

func NewDiscoverHandler(promotionService *service.PromotionService, recommendationService *service.RecommendationService) *DiscoverHandler {
	return &DiscoverHandler{
		promotionService:      promotionService,
		recommendationService: recommendationService,
	}
}

// Promoted 公開的書籍排行榜
func (h *DiscoverHandler) Promoted(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ranked, err := h.promotionService.PromotedBooks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranked)
}

// Recommendations 依用戶活動的個人化推薦
func (h *DiscoverHandler) Recommendations(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recommended, err := h.recommendationService.RecommendForUser(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommended)
}
