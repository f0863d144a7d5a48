package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// missingEnvFile keeps Load from picking up a developer's real .env.
func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	require.Equal(t, SourceHTML, cfg.Source)
	require.Equal(t, defaultSearchURL, cfg.SearchURL)
	require.Equal(t, defaultFeedURL, cfg.FeedURL)
	require.Equal(t, defaultSeenFile, cfg.SeenFile)
	require.Empty(t, cfg.Criteria.Brand)
	require.Zero(t, cfg.Criteria.YearMin)
	require.Zero(t, cfg.Criteria.YearMax)
	require.False(t, cfg.Telegram.Enabled())
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SOURCE", "rss")
	t.Setenv("SEARCH_URL", "https://www.avto.net/Ads/results.asp?znamka=Kia")
	t.Setenv("RSS_FEED_URL", "https://www.avto.net/Ads/results_rss.asp?znamka=Kia")
	t.Setenv("SEEN_FILE", "/tmp/kia_seen.json")
	t.Setenv("FILTER_BRAND", "Kia")
	t.Setenv("FILTER_MODEL", "Sportage")
	t.Setenv("FILTER_YEAR_MIN", "2015")
	t.Setenv("FILTER_YEAR_MAX", "2022")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	require.Equal(t, SourceRSS, cfg.Source)
	require.Equal(t, "https://www.avto.net/Ads/results.asp?znamka=Kia", cfg.SearchURL)
	require.Equal(t, "https://www.avto.net/Ads/results_rss.asp?znamka=Kia", cfg.FeedURL)
	require.Equal(t, "/tmp/kia_seen.json", cfg.SeenFile)
	require.Equal(t, "Kia", cfg.Criteria.Brand)
	require.Equal(t, "Sportage", cfg.Criteria.Model)
	require.Equal(t, 2015, cfg.Criteria.YearMin)
	require.Equal(t, 2022, cfg.Criteria.YearMax)
	require.True(t, cfg.Telegram.Enabled())
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadSourceIsCaseInsensitive(t *testing.T) {
	t.Setenv("SOURCE", "RSS")
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, SourceRSS, cfg.Source)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("SOURCE", "carrier-pigeon")
	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "SOURCE")
}

func TestLoadBadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("FILTER_YEAR_MIN", "twenty-ten")
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Zero(t, cfg.Criteria.YearMin)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "FILTER_BRAND=Hyundai\nFILTER_YEAR_MIN=2012\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("FILTER_BRAND")
		os.Unsetenv("FILTER_YEAR_MIN")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Hyundai", cfg.Criteria.Brand)
	require.Equal(t, 2012, cfg.Criteria.YearMin)
}

func TestTelegramEnabled(t *testing.T) {
	require.False(t, TelegramConfig{}.Enabled())
	require.False(t, TelegramConfig{BotToken: "token"}.Enabled())
	require.False(t, TelegramConfig{ChatID: "chat"}.Enabled())
	require.True(t, TelegramConfig{BotToken: "token", ChatID: "chat"}.Enabled())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseLogLevel(tt.in), "level %q", tt.in)
	}
}
