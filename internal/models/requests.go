package models

// CartItem references a Shopify product variant. Pricing is always resolved
// by Shopify; client-supplied unit prices are not accepted.
type CartItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /payphone/create.
type CreateOrderRequest struct {
	Items    []CartItem `json:"items"`
	Email    string     `json:"email,omitempty"`
	Currency string     `json:"currency,omitempty"`
}

// CreateOrderResponse carries the hosted widget redirect target.
type CreateOrderResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// ErrorResponse is the JSON error body for the create endpoint.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
