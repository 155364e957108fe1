package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seenimoa/newslens/internal/config"
)

// systemPrompt frames every analysis request. The per-request instructions
// and the article text come from the prompt assembler.
const systemPrompt = "You are a professional news editor and media analyst. " +
	"Follow the output format in the user's instructions exactly."

// Client wraps a single provider with the one operation the analysis
// pipeline needs: submit a prompt, wait for the response text.
//
// There is no retry or fallback here: a failed call is terminal for the
// request and the error is surfaced to the caller as-is.
type Client struct {
	provider LLMProvider
	opts     *ChatOptions
}

// NewClient creates a client around an already-constructed provider.
func NewClient(provider LLMProvider, opts *ChatOptions) *Client {
	return &Client{provider: provider, opts: opts}
}

// NewClientFromConfig builds the configured primary provider and wraps it.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	timeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	var (
		provider LLMProvider
		err      error
	)
	switch strings.ToLower(cfg.LLM.Primary) {
	case ProviderOpenAI:
		opts := []OpenAIOption{WithOpenAIHTTPClient(httpClient)}
		if cfg.LLM.Model != "" {
			opts = append(opts, WithOpenAIModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, WithOpenAIBaseURL(cfg.LLM.BaseURL))
		}
		provider, err = NewOpenAIProvider(cfg.LLM.OpenAIKey, opts...)
	case ProviderGemini, "":
		opts := []GeminiOption{WithGeminiHTTPClient(httpClient)}
		if cfg.LLM.Model != "" {
			opts = append(opts, WithGeminiModel(cfg.LLM.Model))
		}
		provider, err = NewGeminiProvider(cfg.LLM.GeminiKey, opts...)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLM.Primary)
	}
	if err != nil {
		return nil, err
	}

	return NewClient(provider, &ChatOptions{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}), nil
}

// Provider returns the underlying provider (for status/ping commands).
func (c *Client) Provider() LLMProvider { return c.provider }

// Submit sends the assembled prompt and returns the raw response text.
// An empty model response is an error: the parser has nothing to work with.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	messages := []Message{
		SystemMessage(systemPrompt),
		UserMessage(prompt),
	}

	resp, err := c.provider.Chat(ctx, messages, c.opts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w (provider %s, model %s)", ErrEmptyResponse, resp.Provider, resp.Model)
	}
	return resp.Content, nil
}
