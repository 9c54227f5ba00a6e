package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application. Values come from the
// environment with sensible local defaults.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Retention RetentionConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessExpiryMins   int
	RefreshExpiryHours int
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

type StorageConfig struct {
	S3 S3Config
}

type S3Config struct {
	BucketName string
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
}

type WorkerConfig struct {
	Concurrency int
}

// RetentionConfig controls how long login/audit logs are kept before the
// scheduled cleanup task removes them.
type RetentionConfig struct {
	LogDays int
}

// SeedConfig describes the super admin account created at startup.
type SeedConfig struct {
	SuperAdminUsername string
	SuperAdminEmail    string
	SuperAdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvAsInt("SERVER_PORT", 8080),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "crmadmin"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessExpiryMins:   getEnvAsInt("JWT_ACCESS_EXPIRY_MINUTES", 60),
			RefreshExpiryHours: getEnvAsInt("JWT_REFRESH_EXPIRY_HOURS", 24*7),
		},
		Redis: RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", getEnv("REDIS_HOST", "localhost"), getEnvAsInt("REDIS_PORT", 6379)),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			S3: S3Config{
				BucketName: getEnv("S3_BUCKET_NAME", ""),
				Endpoint:   getEnv("S3_ENDPOINT", ""),
				Region:     getEnv("S3_REGION", ""),
				AccessKey:  getEnv("S3_ACCESS_KEY", ""),
				SecretKey:  getEnv("S3_SECRET_KEY", ""),
			},
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 10),
		},
		Retention: RetentionConfig{
			LogDays: getEnvAsInt("LOG_RETENTION_DAYS", 90),
		},
		Seed: SeedConfig{
			SuperAdminUsername: getEnv("SUPERADMIN_USERNAME", "superadmin"),
			SuperAdminEmail:    getEnv("SUPERADMIN_EMAIL", "superadmin@example.com"),
			SuperAdminPassword: getEnv("SUPERADMIN_PASSWORD", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
