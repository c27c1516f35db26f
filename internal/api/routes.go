package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/api/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, assetsDir string) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	profileHandler := handlers.NewProfileHandler(services.User, services.Activity)
	bookHandler := handlers.NewBookHandler(services.Book, services.Activity)
	chapterHandler := handlers.NewChapterHandler(services.Book)
	writingHandler := handlers.NewWritingHandler(services.Writing, services.Quality)
	designHandler := handlers.NewDesignHandler(services.Design, services.Narration)
	templateHandler := handlers.NewTemplateHandler(services.Template)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)
	chatHandler := handlers.NewChatHandler(services.Chat, services.Hub)
	discoverHandler := handlers.NewDiscoverHandler(services.Promotion, services.Recommendation)
	paymentHandler := handlers.NewPaymentHandler(services.Payment)

	// 生成的封面圖與朗讀音檔
	r.Static("/assets", assetsDir)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 公開書庫
		api.GET("/books/published", bookHandler.ListPublished)
		api.GET("/books/promoted", discoverHandler.Promoted)
		api.GET("/books/:id/preview", bookHandler.Preview)

		// PayPal webhook 由驗簽保護，不走 JWT
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 個人資料
		authorized.GET("/profile", profileHandler.GetProfile)
		authorized.PUT("/profile", profileHandler.UpdateProfile)
		authorized.GET("/profile/activity", profileHandler.GetActivity)

		// 書籍相關
		books := authorized.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
			books.POST("/:id/publish", bookHandler.Publish)
			books.POST("/:id/track", bookHandler.Track)
			books.GET("/:id/stats", bookHandler.Stats)

			// 章節操作
			books.POST("/:id/chapters", chapterHandler.AddChapter)
			books.PUT("/:id/chapters/reorder", chapterHandler.Reorder)
			books.PUT("/:id/chapters/:chapterID", chapterHandler.UpdateChapter)
			books.DELETE("/:id/chapters/:chapterID", chapterHandler.DeleteChapter)

			// AI 寫作
			books.POST("/:id/chapters/:chapterID/draft", writingHandler.Draft)
			books.POST("/:id/chapters/:chapterID/continue", writingHandler.Continue)
			books.POST("/:id/chapters/:chapterID/improve", writingHandler.Improve)
			books.POST("/:id/chapters/:chapterID/narrate", designHandler.Narrate)
			books.POST("/:id/synopsis", writingHandler.Synopsis)
			books.POST("/:id/quality", writingHandler.Quality)

			// 設計
			books.POST("/:id/design/cover", designHandler.Cover)
			books.POST("/:id/design/layout", designHandler.Layout)
		}

		// 獨立圖像生成
		authorized.POST("/images/generate", designHandler.GenerateImage)

		// 依範本建書
		authorized.POST("/books/from-template/:id", bookHandler.CreateFromTemplate)

		// 範本
		templates := authorized.Group("/templates")
		{
			templates.POST("", templateHandler.Create)
			templates.GET("", templateHandler.List)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
		}

		// 通知
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// 對話
		conversations := authorized.Group("/conversations")
		{
			conversations.POST("", chatHandler.CreateConversation)
			conversations.GET("", chatHandler.ListConversations)
			conversations.GET("/:id/messages", chatHandler.History)
			conversations.GET("/:id/ws", chatHandler.HandleWebSocket)
		}

		// 個人化推薦
		authorized.GET("/recommendations", discoverHandler.Recommendations)

		// 付款
		payments := authorized.Group("/payments")
		{
			payments.POST("/orders", paymentHandler.CreateOrder)
			payments.POST("/orders/:id/capture", paymentHandler.Capture)
		}

		// 管理員下架端點
		admin := authorized.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.DELETE("/books/:id", bookHandler.DeleteBook)
			admin.DELETE("/templates/:id", templateHandler.Delete)
		}
	}
}
