// Package llm provides clients for the local inference server.
package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.aimuz.me/deeplocal/internal/types"
)

// Supported API flavours of the inference server.
const (
	APIOllama = "ollama" // native /api/generate
	APIOpenAI = "openai" // OpenAI-compatible /v1/chat/completions
)

// Defaults for a stock Ollama install.
const (
	DefaultHost  = "http://127.0.0.1:11434"
	DefaultModel = "gemma3:12b"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options configures how completions are requested.
type Options struct {
	API         string
	Host        string
	Model       string
	APIKey      string // only sent to OpenAI-compatible endpoints
	Temperature float64

	// HTTPClient overrides the retrying transport built by NewHTTPClient.
	HTTPClient *http.Client
}

// Completer performs chat completions.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, types.Usage, error)
}

// completerConfig holds all parameters needed by completers.
type completerConfig struct {
	http        *http.Client
	host        string
	model       string
	apiKey      string
	temperature float64
}

// NewCompleter creates a Completer for the given API flavour.
func NewCompleter(opts Options) Completer {
	cfg := completerConfig{
		http:        opts.HTTPClient,
		host:        NormalizeHost(opts.Host),
		model:       opts.Model,
		apiKey:      opts.APIKey,
		temperature: opts.Temperature,
	}
	if cfg.http == nil {
		cfg.http = NewHTTPClient(2*time.Minute, 2)
	}
	if cfg.model == "" {
		cfg.model = DefaultModel
	}

	switch opts.API {
	case APIOpenAI:
		return newOpenAICompleter(cfg)
	default:
		return &ollamaCompleter{cfg: cfg}
	}
}

// NewHTTPClient returns an *http.Client that retries connection failures
// and 5xx responses. Non-2xx responses are handed back to the caller after
// the last attempt instead of being turned into a transport error.
func NewHTTPClient(timeout time.Duration, retries int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = max(retries, 0)
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = slog.Default().With("component", "http")
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = timeout
	return rc.StandardClient()
}

// NormalizeHost trims trailing slashes and falls back to DefaultHost.
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}

// splitMessages folds chat messages into a single system text and a single
// prompt for endpoints that take plain prompts.
func splitMessages(messages []Message) (system, prompt string) {
	var sys, user []string
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		if m.Role == "system" {
			sys = append(sys, m.Content)
			continue
		}
		user = append(user, m.Content)
	}
	return strings.Join(sys, "\n"), strings.Join(user, "\n\n")
}
