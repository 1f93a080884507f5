package gemini

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/utils"
)

// Request is one fully-built model call: system instruction, user content
// (already truncated by the prompt builder) and an output token ceiling.
type Request struct {
	System          string
	User            string
	MaxOutputTokens int32
}

// InvocationKind classifies why a model call failed.
type InvocationKind string

const (
	KindAuth       InvocationKind = "auth"
	KindQuota      InvocationKind = "quota"
	KindBadRequest InvocationKind = "bad_request"
	KindServer     InvocationKind = "server"
	KindTimeout    InvocationKind = "timeout"
	KindNetwork    InvocationKind = "network"
)

// InvocationError wraps the underlying cause of a failed model call.
type InvocationError struct {
	Kind InvocationKind
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (%s): %v", e.Kind, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Retryable reports whether a fresh attempt (with a fresh credential draw)
// may succeed. Quota and auth failures rotate to another key; content
// errors never retry.
func (e *InvocationError) Retryable() bool {
	switch e.Kind {
	case KindQuota, KindAuth, KindServer, KindTimeout, KindNetwork:
		return true
	default:
		return false
	}
}

// Invoker sends a built request to the generative model.
type Invoker interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Client struct {
	log        *logger.Logger
	pool       *Pool
	model      string
	timeout    time.Duration
	maxRetries int
}

func NewClient(log *logger.Logger, pool *Pool) *Client {
	slog := log.With("service", "GeminiClient")
	return &Client{
		log:        slog,
		pool:       pool,
		model:      utils.GetEnv("GEMINI_MODEL", "gemini-2.5-flash", slog),
		timeout:    time.Duration(utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 90, slog)) * time.Second,
		maxRetries: utils.GetEnvAsInt("GEMINI_MAX_RETRIES", 2, slog),
	}
}

// Generate picks a key per attempt, calls the model and retries retryable
// failures with exponential backoff and jitter. Caller cancellation aborts
// immediately.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	backoff := 1 * time.Second
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key, err := c.pool.Pick()
		if err != nil {
			return "", err
		}

		text, err := c.generateOnce(ctx, key, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var inv *InvocationError
		if !errors.As(err, &inv) || !inv.Retryable() || attempt == c.maxRetries {
			break
		}

		sleep := jitter(backoff)
		c.log.Warn("Gemini request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"kind", string(inv.Kind),
			"sleep", sleep.String(),
		)
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return "", lastErr
}

func (c *Client) generateOnce(ctx context.Context, apiKey string, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return "", &InvocationError{Kind: KindNetwork, Err: fmt.Errorf("client init: %w", err)}
	}

	cfg := &genai.GenerateContentConfig{}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	res, err := cl.Models.GenerateContent(ctx, c.model, genai.Text(req.User), cfg)
	if err != nil {
		return "", classify(err)
	}
	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", &InvocationError{Kind: KindServer, Err: errors.New("empty model response")}
	}
	return text, nil
}

func classify(err error) *InvocationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &InvocationError{Kind: KindTimeout, Err: err}
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return &InvocationError{Kind: KindAuth, Err: err}
		case apiErr.Code == 429:
			return &InvocationError{Kind: KindQuota, Err: err}
		case apiErr.Code >= 500:
			return &InvocationError{Kind: KindServer, Err: err}
		case apiErr.Code >= 400:
			return &InvocationError{Kind: KindBadRequest, Err: err}
		}
	}
	return &InvocationError{Kind: KindNetwork, Err: err}
}

// jitter spreads a backoff +/- 20% so key rotation under quota pressure
// does not thundering-herd onto the next key.
func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*(2*delta)
	return time.Duration(v * float64(time.Second))
}
