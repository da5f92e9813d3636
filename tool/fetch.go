package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ai "github.com/robertcrowe/arrg"
)

// FetchToolOption configures the URL fetch tool.
type FetchToolOption func(*fetchToolConfig)

type fetchToolConfig struct {
	client          *http.Client
	allowedHosts    []string
	blockedHosts    []string
	maxResponseSize int64
	timeout         time.Duration
}

// WithFetchClient sets a custom HTTP client.
func WithFetchClient(c *http.Client) FetchToolOption {
	return func(cfg *fetchToolConfig) {
		cfg.client = c
	}
}

// WithAllowedHosts restricts requests to specific hosts only.
func WithAllowedHosts(hosts ...string) FetchToolOption {
	return func(cfg *fetchToolConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithBlockedHosts blocks requests to specific hosts.
func WithBlockedHosts(hosts ...string) FetchToolOption {
	return func(cfg *fetchToolConfig) {
		cfg.blockedHosts = hosts
	}
}

// WithMaxResponseSize sets the maximum response body size.
// Default is 1MB.
func WithMaxResponseSize(bytes int64) FetchToolOption {
	return func(cfg *fetchToolConfig) {
		cfg.maxResponseSize = bytes
	}
}

// WithFetchTimeout sets the request timeout.
// Default is 30 seconds.
func WithFetchTimeout(d time.Duration) FetchToolOption {
	return func(cfg *fetchToolConfig) {
		cfg.timeout = d
	}
}

func applyFetchOpts(opts []FetchToolOption) *fetchToolConfig {
	cfg := &fetchToolConfig{
		maxResponseSize: 1024 * 1024, // 1MB default
		timeout:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{
			Timeout: cfg.timeout,
		}
	}
	return cfg
}

func (c *fetchToolConfig) checkHost(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	host := u.Hostname()

	for _, blocked := range c.blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return fmt.Errorf("host %q is blocked", host)
		}
	}

	if len(c.allowedHosts) > 0 {
		allowed := false
		for _, a := range c.allowedHosts {
			if host == a || strings.HasSuffix(host, "."+a) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("host %q is not in allowed list", host)
		}
	}

	return nil
}

// fetchArgs defines arguments for the URL fetch tool.
type fetchArgs struct {
	URL string `json:"url" desc:"URL to fetch" required:"true"`
}

// NewFetchTool creates a tool for fetching the content of a URL.
// Used by the research phase to read pages discovered through search.
func NewFetchTool(opts ...FetchToolOption) (ai.Tool, Handler) {
	cfg := applyFetchOpts(opts)

	schema := MustSchemaFor[fetchArgs]()

	t := ai.Tool{
		Name:        "fetch_url",
		Description: "Fetch the content of a web page by URL",
		Parameters:  schema,
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args fetchArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}

		if err := cfg.checkHost(args.URL); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "arrg-research-bot/1.0")

		resp, err := cfg.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.maxResponseSize))
		if err != nil {
			return "", err
		}

		result := struct {
			Status      string `json:"status"`
			StatusCode  int    `json:"status_code"`
			ContentType string `json:"content_type,omitempty"`
			Body        string `json:"body"`
			BodySize    int    `json:"body_size"`
		}{
			Status:      resp.Status,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        string(body),
			BodySize:    len(body),
		}

		out, err := json.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	return t, handler
}

// FetchTools returns the URL fetch tool.
func FetchTools(opts ...FetchToolOption) []ToolPair {
	t, h := NewFetchTool(opts...)
	return []ToolPair{{Tool: t, Handler: h}}
}
