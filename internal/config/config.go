package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"avtowatch/internal/models"
)

// Source selects the ingestion path for a run.
type Source string

const (
	SourceHTML Source = "html"
	SourceRSS  Source = "rss"
)

const (
	defaultSearchURL = "https://www.avto.net/results.asp?znamka=Hyundai&model=ix35&modelID=&tip=katerikoli%20tip&znamka2=&model2=&tip2=katerikoli%20tip&znamka3=&model3=&tip3=katerikoli%20tip&cenaMin=0&cenaMax=7000&letnikMin=2010&letnikMax=2090&bencin=0&starost2=999&oblika=0&ccmMin=0&ccmMax=99999&mocMin=&mocMax=&kmMin=0&kmMax=250000&kwMin=0&kwMax=999&motortakt=&motorvalji=&lokacija=0&sirina=&dolzina=&dolzinaMIN=&dolzinaMAX=&nosilnostMIN=&nosilnostMAX=&sedezevMIN=&sedezevMAX=&lezisc=&presek=&premer=&col=&vijakov=&EToznaka=&vozilo=&airbag=&barva=&barvaint=&doseg=&BkType=&BkOkvir=&BkOkvirType=&Bk4=&EQ1=1000000000&EQ2=1000000000&EQ3=1000000000&EQ4=100000000&EQ5=1000000000&EQ6=1000000000&EQ7=1000000120&EQ8=101000000&EQ9=100000002&EQ10=1000000000&KAT=1010000000&PIA=&PIAzero=&PIAOut=&PSLO=&akcija=&paketgarancije=&broker=&prikazkategorije=&kategorija=&ONLvid=&ONLnak=&zaloga=&arhiv=&presort=&tipsort=&stran="
	defaultFeedURL   = "https://www.avto.net/Ads/results_rss.asp?znamka=Hyundai&model=ix35&cenaMin=0&cenaMax=7000&letnikMin=2010&letnikMax=2090"
	defaultSeenFile  = "seen_ads.json"
)

// TelegramConfig holds the chat-transport credentials. Both fields
// empty is a valid configuration selecting the console-only path.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether the Telegram path is configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Config is the immutable per-run configuration. It is constructed once
// in main and passed explicitly into the watcher.
type Config struct {
	Source    Source
	SearchURL string
	FeedURL   string
	SeenFile  string
	Criteria  models.SearchCriteria
	Telegram  TelegramConfig
	LogLevel  string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; its absence is not an error.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (path: %v): %v", envPath, err)
	}

	cfg := &Config{
		Source:    Source(strings.ToLower(getEnvAsString("SOURCE", string(SourceHTML)))),
		SearchURL: getEnvAsString("SEARCH_URL", defaultSearchURL),
		FeedURL:   getEnvAsString("RSS_FEED_URL", defaultFeedURL),
		SeenFile:  getEnvAsString("SEEN_FILE", defaultSeenFile),
		Criteria: models.SearchCriteria{
			Brand:   getEnvAsString("FILTER_BRAND", ""),
			Model:   getEnvAsString("FILTER_MODEL", ""),
			YearMin: getEnvAsInt("FILTER_YEAR_MIN", 0),
			YearMax: getEnvAsInt("FILTER_YEAR_MAX", 0),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		},
		LogLevel: getEnvAsString("LOG_LEVEL", "info"),
	}

	if cfg.Source != SourceHTML && cfg.Source != SourceRSS {
		return nil, fmt.Errorf("SOURCE must be %q or %q, got %q", SourceHTML, SourceRSS, cfg.Source)
	}

	return cfg, nil
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: unknown log level %q, defaulting to info", levelStr)
		return slog.LevelInfo
	}
}

// getEnvAsString reads an environment variable or returns the default.
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the
// default, logging when the value is present but unparsable.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: environment variable %s (value: %s) is not an int: %v. Using default %d", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}
