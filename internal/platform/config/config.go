package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	// EmitTokenOnRegister makes /auth/register return a token alongside the created user.
	EmitTokenOnRegister bool

	StorageBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBConnStr      string
	DBAutoMigrate  bool

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CategoryCacheTTL time.Duration

	LogLevel string
}

var AppConfig *Config

// Load reads .env (if present) and the environment into AppConfig.
// The signing secret has no default: Load fails when it is absent.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:             getEnv("API_PORT", "8080"),
		JWTKey:              []byte(getEnv("JWT_SECRET", "")),
		JWTExp:              getEnvAsDuration("JWT_EXPIRATION", time.Hour),
		EmitTokenOnRegister: getEnvAsBool("EMIT_TOKEN_ON_REGISTER", false),
		StorageBackend:      strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendPostgres)),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "user"),
		DBPassword:          getEnv("DB_PASSWORD", "password"),
		DBName:              getEnv("DB_NAME", "inventory_db"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate:       getEnvAsBool("DB_AUTO_MIGRATE", true),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		CategoryCacheTTL:    getEnvAsDuration("CATEGORY_CACHE_TTL", 5*time.Minute),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if len(cfg.JWTKey) == 0 {
		return ErrMissingJWTSecret
	}
	if cfg.StorageBackend != StorageBackendPostgres && cfg.StorageBackend != StorageBackendMemory {
		return errors.New("STORAGE_BACKEND must be one of: postgres, memory")
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	AppConfig = cfg
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return fallback
}
