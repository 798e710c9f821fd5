package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type GitHubConfig struct {
	WebhookBaseURL string
	WebhookSecret  string
}

// IsConfigured returns true if all required GitHub configuration is present
func (c GitHubConfig) IsConfigured() bool {
	return c.WebhookBaseURL != ""
	// Note: WebhookSecret is optional - without it, deliveries are unsigned
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// IsConfigured returns true if all required Anthropic configuration is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != ""
}

type VertexConfig struct {
	ProjectID       string
	Location        string
	EmbeddingModel  string
	CredentialsFile string
}

// IsConfigured returns true if all required Vertex AI configuration is present
func (c VertexConfig) IsConfigured() bool {
	return c.ProjectID != ""
	// Note: Location and EmbeddingModel fall back to defaults,
	// CredentialsFile falls back to application default credentials
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	VectorStorePath    string // Optional with default "linequeue.db"
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	SlackAlertWebhook  string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	GitHubConfig    GitHubConfig
	AnthropicConfig AnthropicConfig
	VertexConfig    VertexConfig
	ClerkConfig     ClerkConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		VectorStorePath:    getEnvWithDefault("VECTOR_STORE_PATH", "linequeue.db"),
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		SlackAlertWebhook:  os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		// GitHub webhook configuration
		GitHubConfig: GitHubConfig{
			WebhookBaseURL: os.Getenv("GITHUB_WEBHOOK_BASE_URL"),
			WebhookSecret:  os.Getenv("GITHUB_WEBHOOK_SECRET"),
		},

		// Anthropic configuration (review generation)
		AnthropicConfig: AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  os.Getenv("ANTHROPIC_MODEL"),
		},

		// Vertex AI configuration (embeddings)
		VertexConfig: VertexConfig{
			ProjectID:       os.Getenv("VERTEX_PROJECT_ID"),
			Location:        os.Getenv("VERTEX_LOCATION"),
			EmbeddingModel:  os.Getenv("VERTEX_EMBEDDING_MODEL"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},

		// Clerk configuration (dashboard auth)
		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},
	}

	// Log which integrations are configured
	if config.GitHubConfig.IsConfigured() {
		log.Printf("✅ GitHub webhook integration configured")
	} else {
		log.Printf("⚠️ GitHub webhook base URL not configured - repository connect will fail")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("GitHub integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AnthropicConfig.IsConfigured() {
		log.Printf("✅ Anthropic integration configured")
	} else {
		log.Printf("⚠️ Anthropic integration not configured - review generation will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("anthropic integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.VertexConfig.IsConfigured() {
		log.Printf("✅ Vertex AI integration configured")
	} else {
		log.Printf("⚠️ Vertex AI integration not configured - codebase indexing will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("vertex AI integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.ClerkConfig.IsConfigured() {
		log.Printf("✅ Clerk authentication configured")
	} else {
		log.Printf("⚠️ Clerk authentication not configured - Dashboard authentication will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("clerk authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
