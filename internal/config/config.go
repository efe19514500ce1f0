package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	GinMode       string
	SessionSecret string
	RedisHost     string
	RedisPort     string

	// Remote document store the API server talks to.
	StoreBaseURL string
	StoreTimeout time.Duration

	// Bundled document store server.
	DocstoreAddr string
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
}

func Load() *Config {
	return &Config{
		Addr:          getEnv("SERVER_ADDR", ":8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		StoreBaseURL:  getEnv("STORE_BASE_URL", "http://localhost:8090"),
		StoreTimeout:  getDurationEnv("STORE_TIMEOUT_SECONDS", 10*time.Second),
		DocstoreAddr:  getEnv("DOCSTORE_ADDR", ":8090"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "joinuser"),
		DBPassword:    getEnv("DB_PASSWORD", "joinpassword"),
		DBName:        getEnv("DB_NAME", "join_store"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
