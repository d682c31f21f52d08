package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	// credential store
	StoreBackend string // memory | csv | postgres
	CSVPath      string
	DBURL        string

	// sessions
	SessionBackend  string // memory | redis
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionTTLHours int

	// password hashing scheme: sha256 (legacy csv format) | bcrypt
	HashScheme string

	AllowedOrigins []string

	// optional seed account created at startup
	SeedEmail    string
	SeedPassword string
	SeedName     string
	SeedRole     string

	OTELEndpoint string
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreBackend: getEnv("STORE_BACKEND", "csv"),
		CSVPath:      getEnv("CSV_PATH", "users.csv"),
		DBURL:        buildDBURL(),

		SessionBackend:  getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),

		HashScheme: getEnv("HASH_SCHEME", "sha256"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		SeedEmail:    getEnv("SEED_EMAIL", ""),
		SeedPassword: getEnv("SEED_PASSWORD", ""),
		SeedName:     getEnv("SEED_NAME", "Admin"),
		SeedRole:     getEnv("SEED_ROLE", "sponsor"),

		OTELEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "creatorlink")
	pass := getEnv("DB_PASSWORD", "creatorlink")
	name := getEnv("DB_NAME", "creatorlink")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
