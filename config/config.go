package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	SQLitePath    string
	RedisAddr     string
	RedisPort     string
	RedisPassword string
	JWTSecret     string
	HTTPAddr      string
	CORSOrigins   []string

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	// Task pipeline
	QueueBackend       string
	WorkerConcurrency  int
	SweepInterval      time.Duration
	ProcessingDeadline time.Duration
	RequeueAfter       time.Duration

	// Archive of generated documents (optional)
	OSSEndpoint        string
	OSSRegion          string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSRoleArn         string
	OSSBucketName      string
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c *Config) RedisFullAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisAddr, c.RedisPort)
}

// ArchiveEnabled reports whether generated documents should be copied to OSS.
func (c *Config) ArchiveEnabled() bool {
	return c.OSSEndpoint != "" && c.OSSBucketName != "" && c.OSSAccessKeyID != ""
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/adlaan.db"),
		RedisAddr:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:   getEnvAsList("CORS_ALLOW_ORIGINS"),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),

		QueueBackend:       getEnv("QUEUE_BACKEND", "redis"),
		WorkerConcurrency:  getEnvAsInt("WORKER_CONCURRENCY", 4),
		SweepInterval:      getEnvAsDuration("TASK_SWEEP_INTERVAL", 30*time.Second),
		ProcessingDeadline: getEnvAsDuration("TASK_PROCESSING_DEADLINE", 10*time.Minute),
		RequeueAfter:       getEnvAsDuration("TASK_REQUEUE_AFTER", time.Minute),

		OSSEndpoint:        os.Getenv("OSS_ENDPOINT"),
		OSSRegion:          os.Getenv("OSS_REGION"),
		OSSAccessKeyID:     os.Getenv("OSS_ACCESS_KEY_ID"),
		OSSAccessKeySecret: os.Getenv("OSS_ACCESS_KEY_SECRET"),
		OSSRoleArn:         os.Getenv("OSS_ROLE_ARN"),
		OSSBucketName:      os.Getenv("OSS_BUCKET_NAME"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsDuration accepts Go duration strings ("90s", "10m").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
