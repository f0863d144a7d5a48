// Package notify delivers one message per new listing. Delivery is
// best-effort: the primary Telegram path falls back to a console line
// on any failure, and the caller never sees an error.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"avtowatch/internal/models"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	sendTimeout       = 10 * time.Second
)

// Config wires a Notifier. Empty credentials select the console-only
// path; APIBaseURL and Out exist for tests and default to the Telegram
// API and stdout.
type Config struct {
	BotToken   string
	ChatID     string
	APIBaseURL string
	Out        io.Writer
	Logger     *slog.Logger
}

// Notifier sends new-listing notifications.
type Notifier struct {
	client *resty.Client
	token  string
	chatID string
	out    io.Writer
	logger *slog.Logger
}

func New(cfg Config) *Notifier {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	client := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(sendTimeout)
	return &Notifier{
		client: client,
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
		out:    cfg.Out,
		logger: cfg.Logger.With("component", "notify"),
	}
}

// Notify announces one listing. Without credentials it writes straight
// to the console; a Telegram transport failure is logged and falls back
// to the console line as well.
func (n *Notifier) Notify(listing models.Listing) {
	if n.token == "" || n.chatID == "" {
		n.console(listing)
		return
	}

	body := map[string]string{
		"chat_id":    n.chatID,
		"text":       formatMessage(listing),
		"parse_mode": "HTML",
	}
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		n.logger.Warn("telegram send failed, falling back to console", "error", err)
		n.console(listing)
		return
	}
	if resp.IsError() {
		n.logger.Warn("telegram send failed, falling back to console",
			"status", resp.StatusCode(), "body", resp.String())
		n.console(listing)
	}
}

func (n *Notifier) console(listing models.Listing) {
	fmt.Fprintf(n.out, "[New] %s | %s | %s\n", listing.Title, yearOrDate(listing), listing.Link)
}

// formatMessage renders the human-readable notification text. The RSS
// path carries a publication date instead of year and price.
func formatMessage(listing models.Listing) string {
	if listing.Published != "" && listing.Year == 0 {
		return fmt.Sprintf("🚗 New listing\n\nTitle: %s\nDate: %s\nLink: %s",
			orNA(listing.Title), listing.Published, listing.Link)
	}
	return fmt.Sprintf("🚗 New Listing Found!\n\nTitle: %s\nYear: %s\nPrice: %s\nLink: %s",
		orNA(listing.Title), yearOrDate(listing), orNA(listing.Price), listing.Link)
}

func yearOrDate(listing models.Listing) string {
	if listing.Year != 0 {
		return strconv.Itoa(listing.Year)
	}
	if listing.Published != "" {
		return listing.Published
	}
	return "N/A"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
