package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	DevMode    bool

	Mongo  MongoConfig
	Gemini GeminiConfig

	JWTSecret string

	// BootstrapAdminEmail is the single email that receives the admin
	// role at registration and is created by the seed command.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// ShareBaseURL is the public base used to build share links.
	// Required for the share endpoints.
	ShareBaseURL string

	StorageBackend string // "minio", "gcs" or "" (disabled)
	Minio          MinioConfig
	GCS            GCSConfig

	NotifyBackend string // "pubsub", "rabbitmq" or "" (disabled)
	PubSub        PubSubConfig
	RabbitMQ      RabbitMQConfig
}

type MongoConfig struct {
	URL    string
	DBName string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

type RabbitMQConfig struct {
	URL string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		DevMode:    getEnvBool("DEV_MODE", false),
		Mongo: MongoConfig{
			URL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
			DBName: getEnv("DB_NAME", "aruana"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GOOGLE_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		JWTSecret:              getEnv("JWT_SECRET", ""),
		BootstrapAdminEmail:    getEnv("ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("ADMIN_PASSWORD", ""),
		ShareBaseURL:           getEnv("SHARE_BASE_URL", ""),
		StorageBackend:         getEnv("STORAGE_BACKEND", ""),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "aruana-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			Bucket:          getEnv("GCS_BUCKET", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
		NotifyBackend: getEnv("NOTIFY_BACKEND", ""),
		PubSub: PubSubConfig{
			ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL: getEnv("RABBITMQ_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1"
	}
	return defaultValue
}
