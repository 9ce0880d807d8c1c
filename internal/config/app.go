package config

import (
	"os"
	"strconv"
	"time"
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// SessionTTL is how long an idle popup session is kept around.
func SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return 30 * time.Minute
	}
	return ttl
}

// LogFile configures the rotated file that engine traces are written to.
type LogFile struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogFile returns nil when LOG_FILE is not set.
func NewLogFile() *LogFile {
	filename, ok := os.LookupEnv("LOG_FILE")
	if !ok || filename == "" {
		return nil
	}
	return &LogFile{
		Filename:   filename,
		MaxSizeMB:  intEnv("LOG_FILE_MAX_SIZE_MB", 10),
		MaxBackups: intEnv("LOG_FILE_MAX_BACKUPS", 3),
		MaxAgeDays: intEnv("LOG_FILE_MAX_AGE_DAYS", 7),
	}
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
