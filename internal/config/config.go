package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	DBPath     string
	WebhookURL string // invoice workflow engine; empty disables /invoicecreation

	MatchThreshold    float64 // primary fuzzy-match acceptance score, 0..100
	MatchRelaxedDelta float64 // subtracted from the threshold on the relaxed pass
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8080"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "50"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	threshold := getFloat("MATCH_THRESHOLD", 80)
	relaxed := getFloat("MATCH_RELAXED_DELTA", 10)
	return Config{
		Host:              getenv("HOST", "127.0.0.1"),
		Port:              port,
		AllowOrigins:      origins,
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFile:           getenv("LOG_FILE", "logs/pricelist-service.log"),
		MaxUploadMB:       mb,
		DBPath:            getenv("DB_PATH", "invoicing.db"),
		WebhookURL:        getenv("INVOICE_WEBHOOK_URL", ""),
		MatchThreshold:    threshold,
		MatchRelaxedDelta: relaxed,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
