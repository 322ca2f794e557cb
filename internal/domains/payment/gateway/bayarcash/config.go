package bayarcash

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// =====================================================
// BAYARCASH CONFIGURATION
// =====================================================

const (
	ProductionAPIBaseURL     = "https://api.console.bayar.cash/v3"
	SandboxAPIBaseURL        = "https://api.console.bayarcash-sandbox.com/v3"
	ProductionConsoleBaseURL = "https://console.bayar.cash"
	SandboxConsoleBaseURL    = "https://console.bayarcash-sandbox.com"

	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

type Config struct {
	APIBaseURL            string        // v3 API used for intents and mandates
	SandboxAPIBaseURL     string        // v3 API on the sandbox console
	ConsoleBaseURL        string        // console host serving the requery endpoint
	SandboxConsoleBaseURL string        // sandbox console host
	Timeout               time.Duration // per request timeout
	UserAgent             string
}

// NewConfig returns the production endpoints with the given timeout.
func NewConfig(timeout time.Duration) *Config {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Config{
		APIBaseURL:            ProductionAPIBaseURL,
		SandboxAPIBaseURL:     SandboxAPIBaseURL,
		ConsoleBaseURL:        ProductionConsoleBaseURL,
		SandboxConsoleBaseURL: SandboxConsoleBaseURL,
		Timeout:               timeout,
		UserAgent:             "bayarcash-backend/1.0",
	}
}

// Validate validates configuration
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"APIBaseURL":            c.APIBaseURL,
		"SandboxAPIBaseURL":     c.SandboxAPIBaseURL,
		"ConsoleBaseURL":        c.ConsoleBaseURL,
		"SandboxConsoleBaseURL": c.SandboxConsoleBaseURL,
	} {
		if raw == "" {
			return fmt.Errorf("bayarcash %s is required", name)
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("bayarcash %s is invalid: %w", name, err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("bayarcash timeout must be positive")
	}
	return nil
}

// APIURL joins a v3 API path onto the environment's base URL.
func (c *Config) APIURL(sandbox bool, path string) string {
	base := c.APIBaseURL
	if sandbox {
		base = c.SandboxAPIBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// RequeryURL returns the console transaction lookup URL.
func (c *Config) RequeryURL(sandbox bool, transactionID string) string {
	base := c.ConsoleBaseURL
	if sandbox {
		base = c.SandboxConsoleBaseURL
	}
	return strings.TrimRight(base, "/") + "/api/v2/transactions/" + url.PathEscape(transactionID)
}

// TransactionConsoleURL links an exchange reference to the merchant console.
func TransactionConsoleURL(sandbox bool, exchangeRef string) string {
	base := ProductionConsoleBaseURL
	if sandbox {
		base = SandboxConsoleBaseURL
	}
	return base + "/transactions?ref_no=" + url.QueryEscape(exchangeRef)
}
