package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	// The gateway process authenticates with these to obtain a JWT. The
	// secret is stored as a bcrypt hash so a leaked env dump is not enough
	// to mint tokens.
	GatewayClientID   string
	GatewaySecretHash string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// External submission tool.
	OJBinary       string
	VJudgeBaseURL  string
	SubmitTimeout  time.Duration
	SubmitAttempts int
	MaxJudgeCalls  int64

	// Verdict polling backoff.
	PollInitial    time.Duration
	PollMultiplier float64
	PollMax        time.Duration
	PollDeadline   time.Duration

	// Per-user submission lease. TTL must outlive the poll deadline so a
	// crashed coordinator cannot leave a user locked out forever while a
	// healthy one never loses its lease mid-poll.
	LeaseTTL time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:           getEnv("API_PORT", "8080"),
		JWTKey:            []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:            time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		GatewayClientID:   getEnv("GATEWAY_CLIENT_ID", "discord-gateway"),
		GatewaySecretHash: getEnv("GATEWAY_SECRET_HASH", ""),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "user"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "vjbot_db"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),

		OJBinary:       getEnv("OJ_BINARY", "oj"),
		VJudgeBaseURL:  getEnv("VJUDGE_BASE_URL", "https://vjudge.net"),
		SubmitTimeout:  time.Duration(getEnvAsInt("SUBMIT_TIMEOUT_SECONDS", 60)) * time.Second,
		SubmitAttempts: getEnvAsInt("SUBMIT_MAX_ATTEMPTS", 3),
		MaxJudgeCalls:  int64(getEnvAsInt("MAX_CONCURRENT_JUDGE_CALLS", 8)),

		PollInitial:    time.Duration(getEnvAsInt("POLL_INITIAL_MS", 2000)) * time.Millisecond,
		PollMultiplier: getEnvAsFloat("POLL_MULTIPLIER", 2.0),
		PollMax:        time.Duration(getEnvAsInt("POLL_MAX_MS", 15000)) * time.Millisecond,
		PollDeadline:   time.Duration(getEnvAsInt("POLL_DEADLINE_SECONDS", 120)) * time.Second,

		LeaseTTL: time.Duration(getEnvAsInt("SUBMIT_LEASE_TTL_SECONDS", 300)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
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

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}
