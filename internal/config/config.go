package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Tracking  TrackingConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// TrackingConfig configures the carrier tracking-event feed
type TrackingConfig struct {
	Enabled              bool
	Broker               string
	ClientID             string
	Username             string
	Password             string
	EventTopic           string
	QoS                  int
	KeepAlive            int
	ConnectTimeout       int
	MaxReconnectInterval time.Duration
	BatchSize            int
	BatchTimeout         time.Duration
	WorkerCount          int
	BufferSize           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	viper.SetDefault("TRACKING_QOS", 1)
	viper.SetDefault("TRACKING_KEEPALIVE_SEC", 30)
	viper.SetDefault("TRACKING_CONNECT_TIMEOUT_SEC", 10)
	viper.SetDefault("TRACKING_MAX_RECONNECT_SEC", 60)
	viper.SetDefault("TRACKING_BATCH_SIZE", 100)
	viper.SetDefault("TRACKING_BATCH_TIMEOUT_SEC", 5)
	viper.SetDefault("TRACKING_WORKER_COUNT", 4)
	viper.SetDefault("TRACKING_BUFFER_SIZE", 1000)

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		Tracking: TrackingConfig{
			Enabled:              viper.GetBool("TRACKING_ENABLED"),
			Broker:               viper.GetString("TRACKING_BROKER"),
			ClientID:             viper.GetString("TRACKING_CLIENT_ID"),
			Username:             viper.GetString("TRACKING_USERNAME"),
			Password:             viper.GetString("TRACKING_PASSWORD"),
			EventTopic:           viper.GetString("TRACKING_EVENT_TOPIC"),
			QoS:                  viper.GetInt("TRACKING_QOS"),
			KeepAlive:            viper.GetInt("TRACKING_KEEPALIVE_SEC"),
			ConnectTimeout:       viper.GetInt("TRACKING_CONNECT_TIMEOUT_SEC"),
			MaxReconnectInterval: time.Duration(viper.GetInt("TRACKING_MAX_RECONNECT_SEC")) * time.Second,
			BatchSize:            viper.GetInt("TRACKING_BATCH_SIZE"),
			BatchTimeout:         time.Duration(viper.GetInt("TRACKING_BATCH_TIMEOUT_SEC")) * time.Second,
			WorkerCount:          viper.GetInt("TRACKING_WORKER_COUNT"),
			BufferSize:           viper.GetInt("TRACKING_BUFFER_SIZE"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
