package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	StorageBucket                    string `mapstructure:"STORAGE_BUCKET"`
	SignedURLTTLMinutes              int    `mapstructure:"SIGNED_URL_TTL_MINUTES"`
	MidtransServerKey                string `mapstructure:"MIDTRANS_SERVER_KEY"`
	MidtransEnv                      string `mapstructure:"MIDTRANS_ENV"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	RedisAddr                        string `mapstructure:"REDIS_ADDR"`
	RedisPassword                    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int    `mapstructure:"REDIS_DB"`
	AMQPURL                          string `mapstructure:"AMQP_URL"`
	SMTPHost                         string `mapstructure:"SMTP_HOST"`
	SMTPPort                         string `mapstructure:"SMTP_PORT"`
	SMTPUser                         string `mapstructure:"SMTP_USER"`
	SMTPPass                         string `mapstructure:"SMTP_PASS"`
	SMTPSender                       string `mapstructure:"SMTP_SENDER"`
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
// Redis, AMQP and SMTP settings are optional; the server degrades to no-op
// implementations when they are unset.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("SIGNED_URL_TTL_MINUTES", 15)
	viper.SetDefault("MIDTRANS_ENV", "sandbox")

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("STORAGE_BUCKET")
	viper.BindEnv("SIGNED_URL_TTL_MINUTES")
	viper.BindEnv("MIDTRANS_SERVER_KEY")
	viper.BindEnv("MIDTRANS_ENV")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")
	viper.BindEnv("AMQP_URL")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_PORT")
	viper.BindEnv("SMTP_USER")
	viper.BindEnv("SMTP_PASS")
	viper.BindEnv("SMTP_SENDER")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.ClientURL == "" {
		return nil, errors.New("CLIENT_URL is required")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
