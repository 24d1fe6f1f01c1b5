// Package scaledown talks to the external prompt-compression service. Free
// text (meeting descriptions, reasoning dumps) is compressed before it is
// forwarded to a language model. The service is an opaque collaborator; when
// it is unconfigured or unreachable the client falls back to returning the
// input unchanged.
package scaledown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codeGROOVE-dev/retry"
)

// DefaultRate is the compression aggressiveness requested from the service.
const DefaultRate = 0.5

// Client calls the compression service.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string

	mu    sync.Mutex
	stats Stats
}

// Stats accumulates compression outcomes over the client's lifetime.
type Stats struct {
	Requests        int     `json:"requests"`
	Fallbacks       int     `json:"fallbacks"`
	TokensSaved     int     `json:"tokens_saved"`
	AvgCompression  float64 `json:"avg_compression"`
	totalCompressed float64
}

// Result is one compression outcome.
type Result struct {
	Content          string  `json:"content"`
	OriginalTokens   int     `json:"original_tokens"`
	CompressedTokens int     `json:"compressed_tokens"`
	TokensSaved      int     `json:"tokens_saved"`
	Ratio            float64 `json:"ratio"`
	LatencyMS        int64   `json:"latency_ms"`
	Fallback         bool    `json:"fallback,omitempty"`
}

// New creates a Client. An empty baseURL or apiKey disables remote
// compression; Compress then always takes the identity fallback.
func New(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     logger,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Enabled reports whether remote compression is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// NormalizeDescription converts an HTML event description to markdown so the
// compression service sees clean text. Non-HTML input passes through intact.
func NormalizeDescription(description string) string {
	if !strings.Contains(description, "<") {
		return description
	}
	markdown, err := md.ConvertString(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(markdown)
}

// Compress shrinks the prompt against the given context. On any failure, or
// when the client is disabled, the original prompt is returned with a
// whitespace-token estimate and the fallback flag set.
func (c *Client) Compress(ctx context.Context, contextText, prompt string) (*Result, error) {
	if !c.Enabled() {
		return c.fallback(prompt), nil
	}

	payload, err := json.Marshal(map[string]any{
		"context": contextText,
		"prompt":  prompt,
		"model":   "gemini",
		"scaledown": map[string]any{
			"rate": DefaultRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding compression request: %w", err)
	}

	start := time.Now()
	var body []byte
	err = retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compress", bytes.NewReader(payload))
			if reqErr != nil {
				return retry.Unrecoverable(reqErr)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("x-api-key", c.apiKey)

			resp, doErr := c.httpClient.Do(req)
			if doErr != nil {
				return doErr
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					c.logger.Debug("failed to close compression response body", "error", closeErr)
				}
			}()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Unrecoverable(fmt.Errorf("compression service rejected request: HTTP %d", resp.StatusCode))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("compression service: HTTP %d", resp.StatusCode)
			}
			body, reqErr = io.ReadAll(resp.Body)
			return reqErr
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying compression request", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.logger.Warn("compression failed, using original prompt", "error", err)
		return c.fallback(prompt), nil
	}

	var decoded struct {
		Content          string  `json:"content"`
		OriginalTokens   int     `json:"original_tokens"`
		CompressedTokens int     `json:"compressed_tokens"`
		Ratio            float64 `json:"compression_ratio"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Warn("undecodable compression response, using original prompt", "error", err)
		return c.fallback(prompt), nil
	}

	result := &Result{
		Content:          decoded.Content,
		OriginalTokens:   decoded.OriginalTokens,
		CompressedTokens: decoded.CompressedTokens,
		TokensSaved:      decoded.OriginalTokens - decoded.CompressedTokens,
		Ratio:            decoded.Ratio,
		LatencyMS:        time.Since(start).Milliseconds(),
	}
	c.record(result)
	return result, nil
}

// fallback returns the prompt unchanged with an estimated token count. The
// ratio is 0 because nothing was compressed.
func (c *Client) fallback(prompt string) *Result {
	est := EstimateTokens(prompt)
	result := &Result{
		Content:          prompt,
		OriginalTokens:   est,
		CompressedTokens: est,
		Ratio:            0,
		Fallback:         true,
		LatencyMS:        0,
	}
	c.record(result)
	return result
}

func (c *Client) record(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Requests++
	if r.Fallback {
		c.stats.Fallbacks++
	}
	c.stats.TokensSaved += r.TokensSaved
	c.stats.totalCompressed += r.Ratio
	c.stats.AvgCompression = c.stats.totalCompressed / float64(c.stats.Requests)
}

// Stats returns a copy of the accumulated compression stats.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// EstimateTokens is a rough whitespace token count used when the service is
// unavailable.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}
