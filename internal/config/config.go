package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Gemini    GeminiConfig
	PayPal    PayPalConfig
	SMTP      SMTPConfig
	TTS       TTSConfig
	ImageGen  ImageGenConfig
	Promotion PromotionConfig
	Assets    AssetsConfig
}

type ServerConfig struct {
	Address string
	Mode    string // gin 的運行模式 (debug/release)
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret      string
	ExpireHours int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type PayPalConfig struct {
	BaseURL   string
	ClientID  string
	Secret    string
	WebhookID string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type TTSConfig struct {
	Provider         string // "google" 或 "elevenlabs"
	GoogleAPIKey     string
	ElevenLabsAPIKey string
	VoiceID          string
}

type ImageGenConfig struct {
	PollinationsBaseURL string
	StabilityAPIKey     string
}

// PromotionConfig 推薦排行各因素的權重，總和應為 1
type PromotionConfig struct {
	QualityWeight     float64
	VelocityWeight    float64
	SocialWeight      float64
	ConversionWeight  float64
	CredibilityWeight float64
}

type AssetsConfig struct {
	Dir     string // 生成的封面與朗讀音檔存放目錄
	BaseURL string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// 環境變量覆蓋配置文件，例如 INKWELL_MONGO_URI
	viper.SetEnvPrefix("inkwell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// 配置文件可有可無，環境變量與預設值足以啟動
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "inkwell")
	viper.SetDefault("jwt.expirehours", 240)
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("paypal.baseurl", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("tts.provider", "google")
	viper.SetDefault("imagegen.pollinationsbaseurl", "https://image.pollinations.ai")
	viper.SetDefault("promotion.qualityweight", 0.30)
	viper.SetDefault("promotion.velocityweight", 0.20)
	viper.SetDefault("promotion.socialweight", 0.20)
	viper.SetDefault("promotion.conversionweight", 0.15)
	viper.SetDefault("promotion.credibilityweight", 0.15)
	viper.SetDefault("assets.dir", "./assets")
	viper.SetDefault("assets.baseurl", "/assets")
}
