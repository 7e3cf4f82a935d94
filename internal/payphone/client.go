package payphone

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paybridge/internal/pkg/httpclient"
)

const defaultBaseURL = "https://pay.payphonetodoesposible.com"

// StatusApproved is the Payphone statusCode for an approved transaction.
const StatusApproved = 3

// ConfirmResult is the gateway's authoritative answer for a payment attempt.
type ConfirmResult struct {
	PaymentID         int64  `json:"transactionId"`
	StatusCode        int    `json:"statusCode"`
	TransactionStatus string `json:"transactionStatus"`
	AuthorizationCode string `json:"authorizationCode"`
	Message           string `json:"message"`
}

// Approved reports whether the gateway confirmed the payment.
func (r *ConfirmResult) Approved() bool {
	return r.StatusCode == StatusApproved
}

// FailureMessage returns the most specific message available for a
// non-approved result.
func (r *ConfirmResult) FailureMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if r.TransactionStatus != "" {
		return r.TransactionStatus
	}
	return "Pago cancelado"
}

// Client talks to the Payphone button API.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(token string) *Client {
	return &Client{
		http: httpclient.New().
			WithTimeout(30 * time.Second).
			WithBearerToken(token).
			WithHeader("Content-Type", "application/json"),
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL overrides the endpoint, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Confirm resolves the final status of a payment attempt. This call is the
// single source of truth; a client-asserted success flag is never trusted.
func (c *Client) Confirm(ctx context.Context, id int64, clientTxID string) (*ConfirmResult, error) {
	body := map[string]interface{}{
		"id":         id,
		"clientTxId": clientTxID,
	}

	resp, err := c.http.Request().
		SetContext(ctx).
		SetBody(body).
		Post(c.baseURL + "/api/button/V2/Confirm")
	if err != nil {
		return nil, fmt.Errorf("payphone confirm failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payphone confirm HTTP %d", resp.StatusCode())
	}

	var result ConfirmResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("payphone confirm parse error: %w", err)
	}
	return &result, nil
}
