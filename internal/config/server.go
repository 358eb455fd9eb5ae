package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ListenAddr returns the HTTP listen address built from PORT.
func ListenAddr() string {
	return ":" + GetEnv("PORT", "8080")
}

// DBPath returns the SQLite database file holding accounts.
func DBPath() string {
	return GetEnv("DB_PATH", "prepwise.db")
}

// LogFile returns the path of the JSON log file.
func LogFile() string {
	return GetEnv("LOG_FILE", "prepwise.log")
}

// CORSAllowedOrigins lists origins allowed to post the auth forms cross-site.
func CORSAllowedOrigins() []string {
	return GetList("CORS_ALLOWED_ORIGINS", "http://localhost:8080")
}

// ServerReadTimeout returns the maximum duration for reading the entire request, including the body.
func ServerReadTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_TIMEOUT", "10s")
}

// ServerReadHeaderTimeout returns the amount of time allowed to read request headers.
func ServerReadHeaderTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_HEADER_TIMEOUT", "5s")
}

// ServerWriteTimeout returns the maximum duration before timing out writes of the response.
func ServerWriteTimeout() time.Duration {
	return MustParseDuration("SERVER_WRITE_TIMEOUT", "15s")
}

// ServerIdleTimeout returns the maximum amount of time to wait for the next request when keep-alives are enabled.
func ServerIdleTimeout() time.Duration {
	return MustParseDuration("SERVER_IDLE_TIMEOUT", "60s")
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout() time.Duration {
	return MustParseDuration("SERVER_SHUTDOWN_TIMEOUT", "10s")
}

// MaxRequestBodyBytes returns the maximum allowed size of incoming request bodies.
// Supports raw integers (bytes) or human-friendly values like "64KB", "1MB".
func MaxRequestBodyBytes() int64 {
	n, err := ParseBytes(GetEnv("MAX_REQUEST_BODY_BYTES", "64KB"))
	if err != nil || n <= 0 {
		return 64 << 10
	}
	return n
}

// StoreWorkerCount controls the number of account store workers.
func StoreWorkerCount() int {
	return parseIntEnv("STORE_WORKER_COUNT", 4)
}

// HashWorkerCount controls the number of password hashing workers.
func HashWorkerCount() int {
	return parseIntEnv("HASH_WORKER_COUNT", 4)
}

// MailWorkerCount controls the number of outbound mail workers.
func MailWorkerCount() int {
	return parseIntEnv("MAIL_WORKER_COUNT", 2)
}

// WorkerQueueSize controls the queue size for each worker pool.
func WorkerQueueSize() int {
	return parseIntEnv("WORKER_QUEUE_SIZE", 256)
}

func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

// ParseBytes parses "512", "64KB", "1.5MB" or "1GB" into a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		mult = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(n * float64(mult)), nil
}
