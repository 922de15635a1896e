package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shadowstrike/options-client/pkg/secrets"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	GCP     GCPConfig     `mapstructure:"gcp"`
}

type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

type RefreshConfig struct {
	MarketInterval time.Duration `mapstructure:"market_interval"`
}

type AuthConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Username string `mapstructure:"username"`
	Color    string `mapstructure:"color"`
}

// ServerConfig configures the local development backend.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type GCPConfig struct {
	ProjectID       string              `mapstructure:"project_id"`
	UseSecrets      bool                `mapstructure:"use_secrets"`
	CredentialsFile string              `mapstructure:"credentials_file"`
	SecretNames     secrets.SecretNames `mapstructure:"secret_names"`
}

func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.shadowstrike")
	}

	v.SetEnvPrefix("SHADOWSTRIKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&config)

	if config.GCP.UseSecrets && config.GCP.ProjectID != "" {
		ctx := context.Background()
		logger := logrus.New()
		if err := loadSecretsFromGCP(ctx, &config, logger); err != nil {
			return nil, fmt.Errorf("error loading secrets from GCP: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Refresh.MarketInterval <= 0 {
		return fmt.Errorf("refresh.market_interval must be positive, got %s", c.Refresh.MarketInterval)
	}
	return nil
}

// HasCredentials reports whether automatic login is possible.
func (c *Config) HasCredentials() bool {
	return c.Auth.Email != "" && c.Auth.Password != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://shadowstrike-options-2025.onrender.com")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.requests_per_second", 5.0)
	v.SetDefault("api.burst", 2)

	v.SetDefault("refresh.market_interval", 30*time.Second)

	v.SetDefault("auth.email", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.color", "#10b981")

	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("gcp.use_secrets", false)
	v.SetDefault("gcp.project_id", "")
	v.SetDefault("gcp.credentials_file", "")

	secretNames := secrets.DefaultSecretNames()
	v.SetDefault("gcp.secret_names.email", secretNames.Email)
	v.SetDefault("gcp.secret_names.password", secretNames.Password)
}

func overrideFromEnv(config *Config) {
	if email := os.Getenv("SHADOWSTRIKE_EMAIL"); email != "" {
		config.Auth.Email = email
	}
	if password := os.Getenv("SHADOWSTRIKE_PASSWORD"); password != "" {
		config.Auth.Password = password
	}

	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		config.GCP.ProjectID = projectID
	}
	if useSecrets := os.Getenv("GCP_USE_SECRETS"); useSecrets == "true" {
		config.GCP.UseSecrets = true
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" && config.GCP.CredentialsFile == "" {
		config.GCP.CredentialsFile = creds
	}
}

func loadSecretsFromGCP(ctx context.Context, config *Config, logger *logrus.Logger) error {
	secretManager, err := secrets.NewGCPSecretManager(ctx, config.GCP.ProjectID, config.GCP.CredentialsFile, logger)
	if err != nil {
		return fmt.Errorf("failed to create secret manager: %w", err)
	}
	defer secretManager.Close()

	applySecrets(ctx, config, secretManager)

	logger.Info("Successfully loaded secrets from GCP Secret Manager")
	return nil
}

type secretSource interface {
	GetSecretWithDefault(ctx context.Context, secretName, defaultValue string) string
}

// applySecrets fills credentials that are not already set.
func applySecrets(ctx context.Context, config *Config, src secretSource) {
	if config.Auth.Email == "" {
		config.Auth.Email = src.GetSecretWithDefault(ctx, config.GCP.SecretNames.Email, "")
	}
	if config.Auth.Password == "" {
		config.Auth.Password = src.GetSecretWithDefault(ctx, config.GCP.SecretNames.Password, "")
	}
}
