// Package upstream is the authenticated client of the FRKN
// provisioning API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/frkn-dev/trialgate/internal/models"
	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/google/uuid"
)

const (
	// EnvHost names the environment variable holding the API base URL.
	EnvHost = "FRKN_HOST"
	// EnvAPIToken names the environment variable holding the bearer token.
	EnvAPIToken = "FRKN_API_TOKEN"

	requestTimeout = 10 * time.Second
)

var (
	// ErrMissingEnv means a required environment variable is unset.
	ErrMissingEnv = errors.New("missing environment variable")
	// ErrUpstreamStatus means the API answered with a non-2xx status.
	ErrUpstreamStatus = errors.New("upstream returned error status")
	// ErrEmptyResponse means the API answered 2xx with an empty body.
	ErrEmptyResponse = errors.New("empty upstream response body")
)

// envelope is the upstream response wrapper {status, message,
// response:{id, instance}}. Only response.id is consumed; the nested
// instance layer is ignored.
type envelope struct {
	Status   int         `json:"status"`
	Message  string      `json:"message"`
	Response resourceRef `json:"response"`
}

type resourceRef struct {
	ID uuid.UUID `json:"id"`
}

type subscriptionRequest struct {
	Env        string `json:"env"`
	Days       int    `json:"days"`
	ReferredBy string `json:"referred_by"`
}

type connectionRequest struct {
	Env            string     `json:"env"`
	Proto          string     `json:"proto"`
	SubscriptionID uuid.UUID  `json:"subscription_id"`
	Token          *uuid.UUID `json:"token,omitempty"`
}

// Client talks to the FRKN API. Safe for concurrent use; the
// underlying http.Client pools connections across requests.
type Client struct {
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new FRKN API client. The base URL and bearer
// token are read from the environment on every call, not captured
// here.
func NewClient(logger *logger.Logger) *Client {
	return &Client{
		logger: logger,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// CreateSubscription creates a trial subscription and returns its id.
func (c *Client) CreateSubscription(ctx context.Context, env string, days int, referredBy models.TrialSource) (uuid.UUID, error) {
	body := subscriptionRequest{
		Env:        env,
		Days:       days,
		ReferredBy: referredBy.ReferralLabel(),
	}
	return c.post(ctx, "/subscription", body)
}

// CreateConnection attaches one per-protocol connection to a
// subscription. token is included in the payload only when non-nil.
func (c *Client) CreateConnection(ctx context.Context, env string, proto models.Protocol, subID uuid.UUID, token *uuid.UUID) (uuid.UUID, error) {
	body := connectionRequest{
		Env:            env,
		Proto:          proto.String(),
		SubscriptionID: subID,
		Token:          token,
	}
	return c.post(ctx, "/connection", body)
}

// post sends an authenticated JSON request and returns response.id
// from the envelope.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (uuid.UUID, error) {
	host, err := requireEnv(EnvHost)
	if err != nil {
		return uuid.Nil, err
	}
	token, err := requireEnv(EnvAPIToken)
	if err != nil {
		return uuid.Nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+path, bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("Upstream response", "path", path, "status", resp.StatusCode, "body", string(respBody))

	if resp.StatusCode >= 400 {
		return uuid.Nil, fmt.Errorf("%w: %d: %s", ErrUpstreamStatus, resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return uuid.Nil, fmt.Errorf("%w: status %d", ErrEmptyResponse, resp.StatusCode)
	}

	var parsed envelope
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return uuid.Nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Response.ID, nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return value, nil
}
