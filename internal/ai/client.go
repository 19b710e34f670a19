// Package ai computes profile embeddings with an Ollama server.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

// ErrEmptyText is returned when there is nothing to embed.
var ErrEmptyText = errors.New("nothing to embed")

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Client struct {
	api        *api.Client
	model      string
	timeout    time.Duration
	backoffs   []time.Duration
	maxRetries int
	logger     *zap.Logger
}

func NewClient(baseURL, model string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:        api.NewClient(u, &http.Client{Timeout: timeout}),
		model:      model,
		timeout:    timeout,
		backoffs:   []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		maxRetries: 3,
		logger:     logger,
	}, nil
}

// WithBackoffs replaces the pauses between attempts.
func (c *Client) WithBackoffs(backoffs ...time.Duration) *Client {
	c.backoffs = backoffs
	return c
}

// Embed returns the embedding of text, retrying transient failures.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	var vec []float32
	err := RetryWithBackoff(ctx, c.backoffs, c.maxRetries, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.Embed(reqCtx, &api.EmbedRequest{Model: c.model, Input: text})
		if err != nil {
			c.logger.Debug("embedding attempt failed", zap.String("model", c.model), zap.Error(err))
			return err
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
			return fmt.Errorf("model %s returned no embedding", c.model)
		}
		vec = resp.Embeddings[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed profile: %w", err)
	}
	return vec, nil
}

// RetryWithBackoff runs fn up to maxRetries times, sleeping backoffs[i]
// after the i-th failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, backoffs []time.Duration, maxRetries int, fn func() error) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// ProfileText is the text a profile is embedded from: who the filmmaker
// is, what they make and the films they made.
func ProfileText(p models.ProfileData) string {
	var b strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	line("Name", p.StageName)
	line("Roles", strings.Join(p.AllRoles(), ", "))
	if loc := reconcile.ProfileLocation(p); loc != reconcile.LocationPlaceholder {
		line("Location", loc)
	}
	line("Genres", strings.Join(p.PreferredGenres, ", "))
	line("Bio", p.Bio)
	line("Visual style", p.VisualStyle)
	line("Philosophy", p.CreativePhilosophy)
	line("Signature", p.CreativeSignature)
	for _, f := range p.Filmography {
		line("Film", reconcile.JoinNonEmpty(" ", f.Title, yearSuffix(f.Year), strings.Join(f.Genres, "/")))
	}
	return strings.TrimSpace(b.String())
}

func yearSuffix(year string) string {
	if year = strings.TrimSpace(year); year == "" {
		return ""
	}
	return "(" + year + ")"
}
