package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AuthType identifies how the pipeline authenticates against the IMAP server
type AuthType string

const (
	// AuthTypePassword uses plain LOGIN authentication
	AuthTypePassword AuthType = "password"
	// AuthTypeOAuth2 uses XOAUTH2 with a Google refresh token (Gmail inboxes)
	AuthTypeOAuth2 AuthType = "oauth2"
)

// Config holds the pipeline configuration, loaded once at process start
type Config struct {
	IMAPHost    string
	IMAPPort    int
	IMAPUseSSL  bool
	IMAPMailbox string

	IMAPAuth     AuthType
	IMAPUsername string
	IMAPPassword string

	// OAuth2 credentials, required when IMAPAuth is "oauth2"
	GoogleClientID        string
	GoogleClientSecret    string
	IMAPOAuthRefreshToken string

	// AlertSender is the address Google Alert notifications arrive from
	AlertSender string

	AIProvider string
	AIAPIKey   string
	AIModel    string
	AIBaseURL  string

	DatabasePath string
	LogLevel     string
}

// Default configuration values
const (
	DefaultIMAPPort     = 993
	DefaultIMAPMailbox  = "INBOX"
	DefaultAlertSender  = "googlealerts-noreply@google.com"
	DefaultAIProvider   = "openai"
	DefaultAIModel      = "gpt-4o-mini"
	DefaultDatabasePath = "data/content.db"
	DefaultLogLevel     = "INFO"
)

// Load loads configuration from a .env file (if present) and the environment,
// then validates it. A missing required value is a startup error: callers
// must not begin any work on a non-nil error.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		IMAPPort:     DefaultIMAPPort,
		IMAPUseSSL:   true,
		IMAPMailbox:  DefaultIMAPMailbox,
		IMAPAuth:     AuthTypePassword,
		AlertSender:  DefaultAlertSender,
		AIProvider:   DefaultAIProvider,
		AIModel:      DefaultAIModel,
		DatabasePath: DefaultDatabasePath,
		LogLevel:     DefaultLogLevel,
	}
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv overrides defaults with environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("IMAP_HOST"); val != "" {
		c.IMAPHost = val
	}
	if val := os.Getenv("IMAP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.IMAPPort = port
		}
	}
	if val := os.Getenv("IMAP_USE_SSL"); val != "" {
		c.IMAPUseSSL = val != "false" && val != "0"
	}
	if val := os.Getenv("IMAP_MAILBOX"); val != "" {
		c.IMAPMailbox = val
	}
	if val := os.Getenv("IMAP_AUTH"); val != "" {
		c.IMAPAuth = AuthType(strings.ToLower(val))
	}
	if val := os.Getenv("IMAP_USERNAME"); val != "" {
		c.IMAPUsername = val
	}
	if val := os.Getenv("IMAP_PASSWORD"); val != "" {
		c.IMAPPassword = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_ID"); val != "" {
		c.GoogleClientID = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_SECRET"); val != "" {
		c.GoogleClientSecret = val
	}
	if val := os.Getenv("IMAP_OAUTH_REFRESH_TOKEN"); val != "" {
		c.IMAPOAuthRefreshToken = val
	}
	if val := os.Getenv("ALERT_SENDER"); val != "" {
		c.AlertSender = val
	}
	if val := os.Getenv("AI_PROVIDER"); val != "" {
		c.AIProvider = val
	}
	if val := os.Getenv("AI_API_KEY"); val != "" {
		c.AIAPIKey = val
	}
	if val := os.Getenv("AI_MODEL"); val != "" {
		c.AIModel = val
	}
	if val := os.Getenv("AI_BASE_URL"); val != "" {
		c.AIBaseURL = val
	}
	if val := os.Getenv("DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// Validate checks that every required value is present
func (c *Config) Validate() error {
	var missing []string

	if c.IMAPHost == "" {
		missing = append(missing, "IMAP_HOST")
	}
	if c.IMAPUsername == "" {
		missing = append(missing, "IMAP_USERNAME")
	}

	switch c.IMAPAuth {
	case AuthTypePassword:
		if c.IMAPPassword == "" {
			missing = append(missing, "IMAP_PASSWORD")
		}
	case AuthTypeOAuth2:
		if c.GoogleClientID == "" {
			missing = append(missing, "GOOGLE_CLIENT_ID")
		}
		if c.GoogleClientSecret == "" {
			missing = append(missing, "GOOGLE_CLIENT_SECRET")
		}
		if c.IMAPOAuthRefreshToken == "" {
			missing = append(missing, "IMAP_OAUTH_REFRESH_TOKEN")
		}
	default:
		return fmt.Errorf("unsupported IMAP_AUTH value: %q", c.IMAPAuth)
	}

	if c.AIAPIKey == "" {
		missing = append(missing, "AI_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
