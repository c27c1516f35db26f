package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"inkwell/internal/api"
	"inkwell/internal/config"
	"inkwell/internal/mailer"
	"inkwell/internal/platform/gemini"
	"inkwell/internal/platform/imagegen"
	"inkwell/internal/platform/paypal"
	"inkwell/internal/platform/tts"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"
	"inkwell/internal/utils"
	"inkwell/pkg/logger"
)

func main() {
	// 載入 .env，部署環境沒有該檔案也沒關係
	_ = godotenv.Load()

	// 載入應用程式配置
	// 從配置文件與環境變量中讀取設置，如資料庫連接信息和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, sync := logger.New(cfg.Server.Mode == "release")
	defer sync()

	// 初始化 JWT 簽名密鑰
	utils.InitJWT(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// 初始化資料庫連接
	db, err := storage.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 建立索引，等同於舊版的資料庫遷移
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化外部平台客戶端
	gen, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to initialize gemini client: %v", err)
	}

	gateway := paypal.NewClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.Secret)

	var stability service.ImageGenerator
	if cfg.ImageGen.StabilityAPIKey != "" {
		stability = imagegen.NewStabilityClient(cfg.ImageGen.StabilityAPIKey)
	}

	var synth tts.Synthesizer
	switch cfg.TTS.Provider {
	case "elevenlabs":
		synth = tts.NewElevenLabsClient(cfg.TTS.ElevenLabsAPIKey, cfg.TTS.VoiceID)
	default:
		synth = tts.NewGoogleClient(cfg.TTS.GoogleAPIKey, cfg.TTS.VoiceID)
	}

	mail := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	assets, err := service.NewAssetStore(cfg.Assets.Dir, cfg.Assets.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize asset store: %v", err)
	}

	// 初始化 services
	services := service.NewServices(service.Deps{
		Repos:     repos,
		Gen:       gen,
		Gateway:   gateway,
		Stability: stability,
		Synth:     synth,
		Mail:      mail,
		Assets:    assets,
		Config:    cfg,
		Logger:    zlog,
	})

	// 設置 Gin 路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.Default())
	api.SetupRoutes(r, services, assets.Dir())

	// 啟動伺服器
	// 使用配置中指定的地址啟動 HTTP 服務器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
