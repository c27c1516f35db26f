package service

import (
	"go.uber.org/zap"

	"inkwell/internal/config"
	"inkwell/internal/mailer"
	"inkwell/internal/platform/tts"
	"inkwell/internal/repository"
)

type Services struct {
	User           *UserService
	Book           *BookService
	Template       *TemplateService
	Writing        *WritingService
	Quality        *QualityService
	Design         *DesignService
	Narration      *NarrationService
	Promotion      *PromotionService
	Recommendation *RecommendationService
	Notification   *NotificationService
	Payment        *PaymentService
	Activity       *ActivityService
	Chat           *ChatService
	Hub            *ChatHub
}

// Deps 組裝服務所需的外部依賴
type Deps struct {
	Repos     *repository.Repositories
	Gen       TextGenerator
	Gateway   PaymentGateway
	Stability ImageGenerator
	Synth     tts.Synthesizer
	Mail      mailer.Mailer
	Assets    *AssetStore
	Config    *config.Config
	Logger    *zap.Logger
}

func NewServices(d Deps) *Services {
	repos := d.Repos

	notificationService := NewNotificationService(repos.Notification, repos.User, d.Mail, d.Logger)
	userService := NewUserService(repos.User)
	bookService := NewBookService(repos.Book, repos.Template, notificationService)
	templateService := NewTemplateService(repos.Template)
	writingService := NewWritingService(repos.Book, repos.User, bookService, d.Gen)
	qualityService := NewQualityService(repos.Book, repos.User, bookService, writingService, d.Gen, notificationService)
	designService := NewDesignService(repos.Book, repos.User, bookService, writingService, d.Gen,
		d.Stability, d.Config.ImageGen.PollinationsBaseURL, d.Assets)
	narrationService := NewNarrationService(repos.Book, bookService, writingService, d.Synth, d.Assets)
	promotionService := NewPromotionService(repos.Book, repos.Activity, repos.User, d.Config.Promotion)
	recommendationService := NewRecommendationService(repos.Book, repos.Activity, promotionService)
	paymentService := NewPaymentService(repos.Payment, repos.User, d.Gateway,
		d.Config.PayPal.WebhookID, notificationService, d.Logger)
	activityService := NewActivityService(repos.Activity, repos.Book)
	chatService := NewChatService(repos.Conversation, repos.Message, repos.User, notificationService)
	hub := NewChatHub(chatService, d.Logger)

	return &Services{
		User:           userService,
		Book:           bookService,
		Template:       templateService,
		Writing:        writingService,
		Quality:        qualityService,
		Design:         designService,
		Narration:      narrationService,
		Promotion:      promotionService,
		Recommendation: recommendationService,
		Notification:   notificationService,
		Payment:        paymentService,
		Activity:       activityService,
		Chat:           chatService,
		Hub:            hub,
	}
}
