package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	MongoDB   MongoDBConfig
	Email     EmailConfig
	S3        S3Config
	InfluxDB  InfluxDBConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// AuthConfig holds JWT authentication configuration.
// An empty secret disables authentication (local use).
type AuthConfig struct {
	JWTSecret string
}

// AnthropicConfig holds the primary LLM backend configuration.
// With UseBedrock set, credentials come from the standard AWS chain.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	UseBedrock bool
	AWSRegion  string
	AWSProfile string
}

// OpenAIConfig holds the fallback LLM backend configuration
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// MongoDBConfig holds MongoDB connection details for the task archive
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	Collection string
	AuthSource string // Database to authenticate against (default: admin)
}

// EmailConfig holds SendGrid configuration for intake notifications
type EmailConfig struct {
	APIKey    string
	FromEmail string
}

// S3Config holds S3 (or MinIO) configuration for uploaded document storage
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Custom endpoint for MinIO/S3-compatible services
}

// InfluxDBConfig holds InfluxDB 2.x configuration for task metrics
type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// RetentionConfig controls archiving and eviction of terminal tasks
type RetentionConfig struct {
	Schedule string // cron expression with seconds
	TTLHours int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Anthropic: AnthropicConfig{
			APIKey:     getEnv("ANTHROPIC_API_KEY", ""),
			Model:      getEnv("ANTHROPIC_MODEL", ""),
			UseBedrock: getEnvBool("USE_AWS_BEDROCK", false),
			AWSRegion:  getEnv("AWS_DEFAULT_REGION", "us-east-1"),
			AWSProfile: getEnv("AWS_PROFILE", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.3),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "jurisai"),
			Collection: getEnv("MONGODB_COLLECTION", "tasks"),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
		},
		Email: EmailConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		InfluxDB: InfluxDBConfig{
			URL:    getEnv("INFLUXDB2_URL", ""),
			Token:  getEnv("INFLUXDB2_TOKEN", ""),
			Org:    getEnv("INFLUXDB2_ORG", ""),
			Bucket: getEnv("INFLUXDB2_BUCKET", ""),
		},
		Retention: RetentionConfig{
			Schedule: getEnv("RETENTION_SCHEDULE", "0 0 * * * *"),
			TTLHours: getEnvInt("RETENTION_TTL_HOURS", 24),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that configuration values are consistent.
// No LLM key is required here: the server starts without an orchestrator
// and rejects submissions with a service-unavailable error until one is
// configured.
func ValidateConfig(config *Config) error {
	if config.S3.Bucket != "" && config.S3.AccessKeyID == "" {
		return fmt.Errorf("S3_ACCESS_KEY_ID is required when S3_BUCKET is set")
	}
	if config.InfluxDB.URL != "" {
		if config.InfluxDB.Org == "" {
			return fmt.Errorf("INFLUXDB2_ORG is required when INFLUXDB2_URL is set")
		}
		if config.InfluxDB.Bucket == "" {
			return fmt.Errorf("INFLUXDB2_BUCKET is required when INFLUXDB2_URL is set")
		}
	}
	if config.Retention.TTLHours <= 0 {
		return fmt.Errorf("RETENTION_TTL_HOURS must be positive")
	}
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
