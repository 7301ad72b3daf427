// Package llm generates startup idea batches through any OpenAI-compatible
// chat-completions endpoint. The package owns the HTTP plumbing and the JSON
// contract with the upstream model; callers receive plain IdeaDraft values
// and decide how to persist them.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrGeneratorDisabled is returned when no API key is configured. Callers
// treat it as "feature off" rather than a failure.
var ErrGeneratorDisabled = errors.New("llm: generator disabled, no API key configured")

// IdeaDraft is one generated idea before persistence.
type IdeaDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Domain      string   `json:"-"`
}

// Config configures the Generator. BaseURL and Model have sensible defaults;
// an empty APIKey disables generation entirely.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Generator calls a chat-completions endpoint and parses idea batches out of
// the response. Safe for concurrent use.
type Generator struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

// NewGenerator builds a Generator from cfg. It never fails; a missing API
// key simply yields a disabled generator.
func NewGenerator(cfg Config) *Generator {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.9
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Generator{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		httpClient:  &http.Client{Transport: tr},
	}
}

// NewGeneratorWithHTTPClient is intended for tests; it avoids network access
// by using a custom RoundTripper.
func NewGeneratorWithHTTPClient(cfg Config, httpClient *http.Client) *Generator {
	g := NewGenerator(cfg)
	if httpClient != nil {
		g.httpClient = httpClient
	}
	return g
}

// Enabled reports whether an API key is configured.
func (g *Generator) Enabled() bool { return g.apiKey != "" }

// GenerateIdeas asks the model for count startup ideas in the given interest
// domain. Returns ErrGeneratorDisabled when no API key is configured.
func (g *Generator) GenerateIdeas(ctx context.Context, domainName string, count int) ([]IdeaDraft, error) {
	if !g.Enabled() {
		return nil, ErrGeneratorDisabled
	}
	if count <= 0 {
		count = 5
	}

	text, err := g.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(domainName, count)},
	})
	if err != nil {
		return nil, err
	}

	var drafts []IdeaDraft
	if err := json.Unmarshal([]byte(stripFences(text)), &drafts); err != nil {
		return nil, fmt.Errorf("llm: parse idea batch: %w", err)
	}

	out := drafts[:0]
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		d.Description = strings.TrimSpace(d.Description)
		if d.Title == "" || d.Description == "" {
			continue
		}
		d.Domain = domainName
		out = append(out, d)
	}
	return out, nil
}

const systemPrompt = "You are a startup idea generator. You invent concise, plausible, " +
	"novel startup concepts. Respond with JSON only, no markdown and no commentary."

func userPrompt(domainName string, count int) string {
	label := domainName
	if strings.HasPrefix(label, "custom:") {
		label = strings.TrimPrefix(label, "custom:")
	}
	return fmt.Sprintf(
		"Generate %d startup ideas in the %q domain. Return a JSON array where each element is "+
			`{"title": string, "description": string, "tags": [string]}. `+
			"Titles must be short and unique, descriptions 2-3 sentences, tags 3-5 lowercase keywords.",
		count, label,
	)
}

// ----------------------------------------------------------------------------
// Chat-completions wire types

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
	} `json:"choices"`
}

func (g *Generator) complete(ctx context.Context, messages []chatMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(chatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
	}); err != nil {
		return "", err
	}

	ctx2, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, g.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", fmt.Errorf("llm: upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	for _, c := range out.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("llm: empty upstream completion")
}

// stripFences removes a surrounding ```json ... ``` fence if the model added
// one despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
