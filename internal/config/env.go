package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret       string
	SessionTTLHours int
	BcryptCost      int
	CookieSecure    bool

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	FareTablePath     string
	BlockZeroFare     bool
	RouteSeatCapacity int
	PublicBaseURL     string
}

// LoadEnv reads .env (when present) and then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to read .env: %v", err)
	}

	return Env{
		AppAddr: str("APP_ADDR", ":8080"),
		GinMode: str("GIN_MODE", ""),

		DBUser: str("DB_USER", "root"),
		DBPass: str("DB_PASS", ""),
		DBHost: str("DB_HOST", "127.0.0.1:3306"),
		DBName: str("DB_NAME", "ticket_booking"),

		JWTSecret:       str("JWT_SECRET", "super-secret-key-change-me"),
		SessionTTLHours: num("SESSION_TTL_HOURS", 24),
		BcryptCost:      num("BCRYPT_COST", bcrypt.DefaultCost),
		CookieSecure:    flag("COOKIE_SECURE", false),

		CORSAllowedOrigins: list("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),

		RedisAddr:     str("REDIS_ADDR", ""),
		RedisPassword: str("REDIS_PASSWORD", ""),
		RedisDB:       num("REDIS_DB", 0),

		RabbitMQURL: str("RABBITMQ_URL", ""),

		FareTablePath:     str("FARE_TABLE_PATH", ""),
		BlockZeroFare:     flag("BLOCK_ZERO_FARE", false),
		RouteSeatCapacity: num("ROUTE_SEAT_CAPACITY", 40),
		PublicBaseURL:     str("PUBLIC_BASE_URL", "http://localhost:3000"),
	}
}

func str(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func num(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warning: %s is not a number (%q), using default %d", key, v, def)
		return def
	}
	return n
}

func flag(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
