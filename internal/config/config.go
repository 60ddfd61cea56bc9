package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Session   SessionConfig
	Retrieval RetrievalConfig
	Notify    NotifyConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type StorageConfig struct {
	// Root holds every session partition: <Root>/<sessionId>/...
	Root string
}

type SessionConfig struct {
	CookieName string
	MaxAgeSecs int
}

type RetrievalConfig struct {
	PythonBin      string
	ScriptDir      string
	TimeoutSeconds int
	IngestTopic    string
}

type NotifyConfig struct {
	IntervalSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Storage: StorageConfig{
			Root: getEnv("STORAGE_ROOT", "./temp_uploads"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "sessionId"),
			MaxAgeSecs: getEnvAsInt("SESSION_MAX_AGE_SECONDS", 86400), // 24 hours
		},
		Retrieval: RetrievalConfig{
			PythonBin:      getEnv("PYTHON_BIN", "python"),
			ScriptDir:      getEnv("SCRIPT_DIR", "src"),
			TimeoutSeconds: getEnvAsInt("RETRIEVAL_TIMEOUT_SECONDS", 300),
			IngestTopic:    getEnv("INGEST_TOPIC_NAME", "DATASET_INGESTED"),
		},
		Notify: NotifyConfig{
			IntervalSeconds: getEnvAsInt("NOTIFY_INTERVAL_SECONDS", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
