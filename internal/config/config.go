package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Upload    UploadConfig
	Minio     MinioConfig
	SMTP      SMTPConfig
	Geocoder  GeocoderConfig
	API       APIConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
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
	Secret            string
	ExpiryHours       int
	CookieExpiryHours int
}

type UploadConfig struct {
	// Backend selects where resumes are stored: "local" or "minio".
	Backend     string
	Path        string
	MaxFileSize int64
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type GeocoderConfig struct {
	// Provider is the geo-golang backend to use. Only "openstreetmap" is
	// wired today; the key is kept for providers that require one.
	Provider string
	APIKey   string
}

type APIConfig struct {
	// PageSize is the default page size for listing endpoints.
	PageSize int
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("API_PAGE_SIZE", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_COOKIE_EXPIRY_HOURS", 24)
	viper.SetDefault("UPLOAD_BACKEND", "local")
	viper.SetDefault("UPLOAD_PATH", "./public/uploads")
	viper.SetDefault("MAX_FILE_SIZE", 2<<20)
	viper.SetDefault("GEOCODER_PROVIDER", "openstreetmap")
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 20)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

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
			Secret:            viper.GetString("JWT_SECRET"),
			ExpiryHours:       viper.GetInt("JWT_EXPIRY_HOURS"),
			CookieExpiryHours: viper.GetInt("JWT_COOKIE_EXPIRY_HOURS"),
		},
		Upload: UploadConfig{
			Backend:     viper.GetString("UPLOAD_BACKEND"),
			Path:        viper.GetString("UPLOAD_PATH"),
			MaxFileSize: viper.GetInt64("MAX_FILE_SIZE"),
		},
		Minio: MinioConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
			FromName: viper.GetString("SMTP_FROM_NAME"),
		},
		Geocoder: GeocoderConfig{
			Provider: viper.GetString("GEOCODER_PROVIDER"),
			APIKey:   viper.GetString("GEOCODER_API_KEY"),
		},
		API: APIConfig{
			PageSize: viper.GetInt("API_PAGE_SIZE"),
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
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
