package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port       string
	AdminToken string

	TargetURL   string
	BTCHoldings float64

	HeadlessEnabled    bool
	ScrapingBeeAPIKey  string
	BrowserlessAPIKey  string
	TwitterBearerToken string
	TelegramBotToken   string

	MNAVMin      float64
	MNAVMax      float64
	FallbackMNAV float64

	AdapterTimeoutSecs    int
	ResolveDeadlineSecs   int
	StalenessCeilingHours int

	StoreDriver  string
	DataFilePath string
	RedisURL     string

	SignalHistoryDays int
}

func Load() *Config {
	cfg := &Config{
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		ScrapingBeeAPIKey:  os.Getenv("SCRAPINGBEE_API_KEY"),
		BrowserlessAPIKey:  os.Getenv("BROWSERLESS_API_KEY"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.AdminToken == "" {
		log.Println("Warning: ADMIN_TOKEN not set, admin override disabled")
	}
	if cfg.ScrapingBeeAPIKey == "" {
		log.Println("Warning: SCRAPINGBEE_API_KEY not set")
	}
	if cfg.BrowserlessAPIKey == "" {
		log.Println("Warning: BROWSERLESS_API_KEY not set")
	}
	if cfg.TwitterBearerToken == "" {
		log.Println("Warning: TWITTER_BEARER_TOKEN not set")
	}

	cfg.TargetURL = strings.TrimSpace(os.Getenv("TARGET_URL"))
	if cfg.TargetURL == "" {
		cfg.TargetURL = "https://www.strategy.com"
	}

	cfg.BTCHoldings = 607770
	if v := strings.TrimSpace(os.Getenv("BTC_HOLDINGS")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.BTCHoldings = n
		}
	}

	cfg.HeadlessEnabled = true
	if v := strings.TrimSpace(os.Getenv("HEADLESS_ENABLED")); v != "" {
		cfg.HeadlessEnabled = strings.EqualFold(v, "true")
	}

	cfg.MNAVMin = 0.1
	if v := strings.TrimSpace(os.Getenv("MNAV_MIN")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.MNAVMin = n
		}
	}

	cfg.MNAVMax = 10.0
	if v := strings.TrimSpace(os.Getenv("MNAV_MAX")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > cfg.MNAVMin {
			cfg.MNAVMax = n
		}
	}

	cfg.FallbackMNAV = 2.5
	if v := strings.TrimSpace(os.Getenv("FALLBACK_MNAV")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= cfg.MNAVMin && n <= cfg.MNAVMax {
			cfg.FallbackMNAV = n
		}
	}

	cfg.AdapterTimeoutSecs = 15
	if v := strings.TrimSpace(os.Getenv("ADAPTER_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdapterTimeoutSecs = n
		}
	}

	cfg.ResolveDeadlineSecs = 90
	if v := strings.TrimSpace(os.Getenv("RESOLVE_DEADLINE_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResolveDeadlineSecs = n
		}
	}

	cfg.StalenessCeilingHours = 72
	if v := strings.TrimSpace(os.Getenv("STALENESS_CEILING_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StalenessCeilingHours = n
		}
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "file"
	}
	if cfg.StoreDriver != "file" && cfg.StoreDriver != "redis" {
		log.Printf("Warning: unsupported STORE_DRIVER=%q, defaulting to file", cfg.StoreDriver)
		cfg.StoreDriver = "file"
	}

	cfg.DataFilePath = strings.TrimSpace(os.Getenv("DATA_FILE_PATH"))
	if cfg.DataFilePath == "" {
		cfg.DataFilePath = "data/mnav.json"
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.StoreDriver == "redis" && cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.SignalHistoryDays = 90
	if v := strings.TrimSpace(os.Getenv("SIGNAL_HISTORY_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SignalHistoryDays = n
		}
	}

	return cfg
}
