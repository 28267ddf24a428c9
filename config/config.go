package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisConversationDB  int    `mapstructure:"REDIS_CONVERSATION_DB"`
	RedisIdempotencyDB   int    `mapstructure:"REDIS_IDEMPOTENCY_DB"`
	RedisTaskQueueDB     int    `mapstructure:"REDIS_TASK_QUEUE_DB"`
	ConversationTTLHours int    `mapstructure:"CONVERSATION_TTL_HOURS"`

	// Google Maps API key (geocoding + place search + place details).
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Service account for Google Cloud Speech (recording transcription).
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Gemini configuration (conversation, extraction fallback, call analysis).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Outbound voice provider (Twilio-compatible REST API).
	VoiceAccountSID  string `mapstructure:"VOICE_ACCOUNT_SID"`
	VoiceAuthToken   string `mapstructure:"VOICE_AUTH_TOKEN"`
	VoiceFromNumber  string `mapstructure:"VOICE_FROM_NUMBER"`
	VoiceAPIBaseURL  string `mapstructure:"VOICE_API_BASE_URL"`
	WebhookBaseURL   string `mapstructure:"WEBHOOK_BASE_URL"`
	DefaultRegion    string `mapstructure:"DEFAULT_REGION"`
	DefaultVoiceName string `mapstructure:"DEFAULT_VOICE_NAME"`

	// Live-call tuning. These values came out of real call testing; change
	// them carefully.
	PollCeilingSeconds  int `mapstructure:"POLL_CEILING_SECONDS"`
	MaxSilenceRetries   int `mapstructure:"MAX_SILENCE_RETRIES"`
	PollAttemptWrap     int `mapstructure:"POLL_ATTEMPT_WRAP"`
	ListenTimeoutSecs   int `mapstructure:"LISTEN_TIMEOUT_SECS"`
	SchedulerConcurrent int `mapstructure:"SCHEDULER_CONCURRENT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONVERSATION_DB", 0)
	viper.SetDefault("REDIS_IDEMPOTENCY_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("CONVERSATION_TTL_HOURS", 24)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "calleroo")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("VOICE_API_BASE_URL", "https://api.twilio.com")
	viper.SetDefault("DEFAULT_REGION", "AU")
	viper.SetDefault("DEFAULT_VOICE_NAME", "Polly.Matthew")
	viper.SetDefault("POLL_CEILING_SECONDS", 20)
	viper.SetDefault("MAX_SILENCE_RETRIES", 1)
	viper.SetDefault("POLL_ATTEMPT_WRAP", 3)
	viper.SetDefault("LISTEN_TIMEOUT_SECS", 6)
	viper.SetDefault("SCHEDULER_CONCURRENT", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
