package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/pkg/circuitbreaker"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
	"github.com/akeren/levelup-fit/pkg/retry"
	"go.opentelemetry.io/otel/codes"
)

const DefaultWebhookTimeout = 10 * time.Second

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type WebhookConfig struct {
	URL     string
	Client  HTTPDoer
	Retry   *retry.Config
	Breaker *circuitbreaker.Config
}

// WebhookRegistrar forwards each submission as a JSON POST. Transient
// failures are retried; repeated failures open the circuit breaker.
type WebhookRegistrar struct {
	url     string
	client  HTTPDoer
	retry   retry.RetryPolicy
	breaker *circuitbreaker.CircuitBreaker
	logger  *log.Logger
}

type webhookPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	SubmittedAt string `json:"submitted_at"`
}

func NewWebhookRegistrar(logger *log.Logger, cfg WebhookConfig) (*WebhookRegistrar, error) {
	if cfg.URL == "" {
		return nil, apperrors.NewInvalidRequestError("waitlist webhook URL is not configured", nil)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout:   DefaultWebhookTimeout,
			Transport: log.NewTransport(logger, nil),
		}
	}

	breakerCfg := circuitbreaker.DefaultConfig()
	if cfg.Breaker != nil {
		copied := *cfg.Breaker
		breakerCfg = &copied
	}
	breakerCfg.Name = "waitlist-webhook"
	// A rejected submission says nothing about the webhook's health.
	breakerCfg.IsFailure = func(err error) bool {
		return !apperrors.HasType(err, apperrors.ErrorTypeInvalidRequest)
	}
	breakerCfg.OnStateChange = func(name, from, to string) {
		logger.Warn("Circuit breaker state changed", "breaker", name, "from", from, "to", to)
	}

	return &WebhookRegistrar{
		url:     cfg.URL,
		client:  client,
		retry:   retry.NewExponentialBackoff(cfg.Retry),
		breaker: circuitbreaker.NewCircuitBreaker(breakerCfg),
		logger:  logger,
	}, nil
}

func (r *WebhookRegistrar) Register(ctx context.Context, submission WaitlistSubmission) error {
	ctx, span := tracer.Start(ctx, "waitlist.WebhookRegistrar.Register")
	defer span.End()

	body, err := json.Marshal(webhookPayload{
		Name:        submission.Name,
		Email:       submission.Email,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewInternalServerError("unable to encode waitlist submission", err)
	}

	err = r.breaker.Call(func() error {
		return r.retry.Execute(ctx, func(ctx context.Context) error {
			return r.post(ctx, body)
		})
	})
	if err == nil {
		return nil
	}

	logger := log.GetLoggerInstanceFromContext(ctx, r.logger)
	logger.Error("Waitlist webhook delivery failed", "error", err, "breaker_state", r.breaker.State())
	span.RecordError(err)
	span.SetStatus(codes.Error, "webhook delivery")

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return apperrors.NewUnavailableError("waitlist webhook is temporarily unavailable", err)
	case retry.IsMaxRetriesExceeded(err):
		return apperrors.NewUnavailableError("waitlist webhook did not accept the submission", err)
	}
	return err
}

func (r *WebhookRegistrar) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalServerError("unable to build webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return retry.Transient(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return retry.Transient(fmt.Errorf("waitlist webhook: status %d", resp.StatusCode))
	default:
		return apperrors.NewInvalidRequestError(fmt.Sprintf("waitlist webhook rejected submission (status %d)", resp.StatusCode), nil)
	}
}
