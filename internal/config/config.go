package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	CronSpec string

	// SourcesFile optionally points at a YAML source catalog; when empty the
	// built-in default catalog is used.
	SourcesFile string

	NewsAPIKey  string
	NewsDataKey string
}

func Load() *Config {
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "9000"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=factfeed password=factfeed dbname=factfeed port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:    getEnv("CRON_SPEC", "*/30 * * * *"),
		SourcesFile: getEnv("SOURCES_FILE", ""),
		NewsAPIKey:  getEnv("NEWSAPI_KEY", ""),
		NewsDataKey: getEnv("NEWSDATA_KEY", ""),
	}

	log.Printf("config loaded: port=%s cron=%s sourcesFile=%q", cfg.AppPort, cfg.CronSpec, cfg.SourcesFile)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Now returns current time, kept as a seam for testable time handling.
func Now() time.Time {
	return time.Now()
}
