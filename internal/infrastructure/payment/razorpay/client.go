// Package razorpay talks to the Razorpay REST API and verifies its webhooks.
package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
	"github.com/buildhomemart/homemart/internal/shared/config"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// maxResponseSize caps the decoded body of a payment lookup.
const maxResponseSize = 256 << 10

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("razorpay: circuit open")

// APIError is a non-2xx response from Razorpay.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("razorpay: unexpected status %d", e.StatusCode)
}

// clientSide reports errors caused by the request rather than Razorpay's health.
func (e *APIError) clientSide() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

type paymentResponse struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	ErrorReason      string `json:"error_reason"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client implements paymentgateway.Client with basic auth and a circuit breaker.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*paymentgateway.Payment]
	logger     logger.Interface
}

var _ paymentgateway.Client = (*Client)(nil)

func NewClient(cfg *config.RazorpayConfig, log logger.Interface) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: log.Named("razorpay"),
	}

	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openFor := time.Duration(cfg.BreakerOpenSecs) * time.Second
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	c.breaker = gobreaker.NewCircuitBreaker[*paymentgateway.Payment](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.clientSide()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warnw("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return c
}

// FetchPayment returns the gateway's current view of a payment.
func (c *Client) FetchPayment(ctx context.Context, gatewayPaymentID string) (*paymentgateway.Payment, error) {
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("razorpay: payment id is required")
	}

	p, err := c.breaker.Execute(func() (*paymentgateway.Payment, error) {
		return c.fetchPayment(ctx, gatewayPaymentID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return p, err
}

func (c *Client) fetchPayment(ctx context.Context, id string) (*paymentgateway.Payment, error) {
	endpoint := c.baseURL + "/payments/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if json.NewDecoder(body).Decode(&payload) == nil {
			apiErr.Code = payload.Error.Code
			apiErr.Description = payload.Error.Description
		}
		return nil, apiErr
	}

	var data paymentResponse
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debugw("fetched payment",
		"payment_id", data.ID,
		"status", data.Status,
	)

	return &paymentgateway.Payment{
		ID:               data.ID,
		OrderID:          data.OrderID,
		Status:           paymentgateway.Status(data.Status),
		Amount:           data.Amount,
		Currency:         data.Currency,
		ErrorDescription: data.ErrorDescription,
		ErrorReason:      data.ErrorReason,
	}, nil
}
