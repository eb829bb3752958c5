package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrProvider wraps any failure of the external authorization call,
// including timeouts. It is surfaced to the caller unmodified; retrying with
// a fresh idempotency key is the caller's decision.
var ErrProvider = errors.New("payment provider error")

// Authorization is the provider's handle for one authorization attempt.
type Authorization struct {
	ProviderTransactionID string `json:"id"`
	ClientSecret          string `json:"clientSecret"`
}

type Provider interface {
	CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency, idempotencyKey string) (Authorization, error)
}

// HTTPProvider talks to an external payment API. The http.Client carries the
// caller-visible timeout; once it fires the call is reported as a provider
// error, not retried.
type HTTPProvider struct {
	baseURL *url.URL
	client  *http.Client
}

func NewHTTPProvider(baseURL string, client *http.Client) (*HTTPProvider, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid payment provider url %q: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{baseURL: u, client: client}, nil
}

type createAuthorizationRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (p *HTTPProvider) CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency, idempotencyKey string) (Authorization, error) {
	body, err := json.Marshal(createAuthorizationRequest{
		Amount:         amountMinorUnits,
		Currency:       currency,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return Authorization{}, fmt.Errorf("%w: encode request: %v", ErrProvider, err)
	}

	u := p.baseURL.ResolveReference(&url.URL{Path: "/v1/payment_intents"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return Authorization{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return Authorization{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Authorization{}, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	var auth Authorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return Authorization{}, fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	return auth, nil
}
