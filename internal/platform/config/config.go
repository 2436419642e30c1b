package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

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

	SandboxBaseURL string
	SandboxTimeout time.Duration

	// Policy constants for the execution orchestrator. Cooldowns start only
	// after a batch finishes; point amounts are keyed by problem difficulty.
	RunCooldown    time.Duration
	SubmitCooldown time.Duration
	BatchLockTTL   time.Duration
	PointsEasy     int
	PointsMedium   int
	PointsHard     int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:        getEnv("API_PORT", "8080"),
		JWTKey:         []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:         time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "user"),
		DBPassword:     getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "codecrux_db"),
		DBSslMode:      getEnv("DB_SSLMODE", "disable"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		SandboxBaseURL: getEnv("SANDBOX_BASE_URL", "https://emkc.org/api/v2/piston"),
		SandboxTimeout: time.Duration(getEnvAsInt("SANDBOX_TIMEOUT_SECONDS", 20)) * time.Second,
		RunCooldown:    time.Duration(getEnvAsInt("RUN_COOLDOWN_SECONDS", 10)) * time.Second,
		SubmitCooldown: time.Duration(getEnvAsInt("SUBMIT_COOLDOWN_SECONDS", 30)) * time.Second,
		BatchLockTTL:   time.Duration(getEnvAsInt("BATCH_LOCK_TTL_SECONDS", 300)) * time.Second,
		PointsEasy:     getEnvAsInt("POINTS_EASY", 100),
		PointsMedium:   getEnvAsInt("POINTS_MEDIUM", 200),
		PointsHard:     getEnvAsInt("POINTS_HARD", 300),
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
