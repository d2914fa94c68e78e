package issuer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roach88/spiral/internal/ir"
)

// DefaultTimeout bounds every call to the token service.
const DefaultTimeout = 10 * time.Second

// IssueRequest is the body of POST /issue.
type IssueRequest struct {
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

// InitAccountRequest is the body of POST /initacc.
type InitAccountRequest struct {
	Symbol  string `json:"symbol"`
	Account string `json:"account"`
}

// apiError is the error body returned by the token service.
type apiError struct {
	Error string `json:"error"`
}

// HTTP issues tokens through a remote token service.
//
// Any transport failure or non-2xx response is returned as an error, which
// aborts the operation that scheduled the call.
type HTTP struct {
	client *resty.Client
}

// HTTPOption configures an HTTP issuer.
type HTTPOption func(*resty.Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithToken sends a bearer token on every request.
func WithToken(token string) HTTPOption {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// NewHTTP creates an issuer for the token service at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return &HTTP{client: c}
}

// Issue asks the token service to credit quantity to the account.
func (h *HTTP) Issue(ctx context.Context, to ir.Name, quantity ir.Asset, memo string) error {
	return h.post(ctx, "/issue", IssueRequest{
		To:       string(to),
		Quantity: quantity.String(),
		Memo:     memo,
	})
}

// InitializeAccount asks the token service to open a zero balance.
func (h *HTTP) InitializeAccount(ctx context.Context, symbol ir.Symbol, account ir.Name) error {
	return h.post(ctx, "/initacc", InitAccountRequest{
		Symbol:  symbol.String(),
		Account: string(account),
	})
}

func (h *HTTP) post(ctx context.Context, path string, body any) error {
	var apiErr apiError
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return fmt.Errorf("%s returned %s: %s", path, resp.Status(), apiErr.Error)
		}
		return fmt.Errorf("%s returned %s", path, resp.Status())
	}
	return nil
}
