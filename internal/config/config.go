package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	ImageGen ImageGenConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type StorageConfig struct {
	Endpoint     string
	PublicURL    string
	AccessKey    string
	SecretKey    string
	Region       string
	UseSSL       bool
	BucketInputs string
	BucketOutput string
}

type ImageGenConfig struct {
	ReplicateToken string
	Model          string
}

type APIKeys struct {
	GenerationTopic string // Completion notification topic
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ImageStudio"),
		},
		Storage: StorageConfig{
			Endpoint:     getEnv("S3_ENDPOINT", "http://localhost:9000"),
			PublicURL:    getEnv("S3_PUBLIC_URL", ""),
			AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("S3_SECRET_KEY", ""),
			Region:       getEnv("S3_REGION", "us-east-1"),
			UseSSL:       getEnvAsBool("S3_USE_SSL", false),
			BucketInputs: getEnv("S3_BUCKET_INPUTS", "imagestudio-inputs"),
			BucketOutput: getEnv("S3_BUCKET_OUTPUT", "imagestudio-outputs"),
		},
		ImageGen: ImageGenConfig{
			ReplicateToken: getEnv("REPLICATE_API_TOKEN", ""),
			Model:          getEnv("REPLICATE_MODEL", "google/nano-banana"),
		},
		Keys: APIKeys{
			GenerationTopic: getEnv("GENERATION_COMPLETED_TOPIC_NAME", "GENERATION_COMPLETED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
