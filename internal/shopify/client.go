package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"paybridge/internal/pkg/httpclient"
)

// LineItem references a product variant for draft order creation. Shopify
// prices the line itself; no client-supplied amounts are sent.
type LineItem struct {
	VariantID string
	Quantity  int
}

// DraftOrder is the pending order created for a checkout.
type DraftOrder struct {
	ID             int64  // numeric part of the gid
	Name           string // e.g. "#D123"
	SubtotalAmount string // shopMoney amount, decimal string
	Currency       string // shopMoney currencyCode (store settlement currency)
}

// CompletedOrder is the result of finalizing a draft order.
type CompletedOrder struct {
	OrderName        string // human-readable order name, e.g. "#1042"
	AlreadyCompleted bool
}

// UserError is a field-level validation error reported by a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError carries a mutation's userErrors so handlers can surface
// them to the caller instead of swallowing them.
type UserErrorsError struct {
	Op     string
	Errors []UserError
}

func (e *UserErrorsError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		msgs = append(msgs, ue.Message)
	}
	return fmt.Sprintf("shopify %s userErrors: %s", e.Op, strings.Join(msgs, "; "))
}

// Client talks to the Shopify Admin GraphQL API.
type Client struct {
	shop       string
	apiVersion string
	http       *httpclient.Client
	baseURL    string // test override
}

func New(shop, adminToken, apiVersion string) *Client {
	return &Client{
		shop:       shop,
		apiVersion: apiVersion,
		http: httpclient.New().
			WithTimeout(30*time.Second).
			WithHeader("X-Shopify-Access-Token", adminToken).
			WithHeader("Content-Type", "application/json"),
	}
}

// WithBaseURL overrides the endpoint, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func (c *Client) endpoint() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shop, c.apiVersion)
}

const draftOrderCreateMutation = `
mutation($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
      subtotalPriceSet { shopMoney { amount currencyCode } }
    }
    userErrors { field message }
  }
}`

const draftOrderCompleteMutation = `
mutation($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder { id order { id name } }
    userErrors { field message }
  }
}`

// graphql posts a query and decodes the "data" object into out. Top-level
// GraphQL errors and non-2xx responses are transport errors.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}

	resp, err := c.http.Request().
		SetContext(ctx).
		SetBody(payload).
		Post(c.endpoint())
	if err != nil {
		return fmt.Errorf("shopify request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("shopify HTTP %d", resp.StatusCode())
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("shopify parse error: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("shopify GraphQL error: %s", envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("shopify parse error: %w", err)
	}
	return nil
}

// CreateDraftOrder creates a pending order for the given cart. Field-level
// validation failures come back as *UserErrorsError.
func (c *Client) CreateDraftOrder(ctx context.Context, items []LineItem, email string) (*DraftOrder, error) {
	lineItems := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, map[string]interface{}{
			"quantity":  item.Quantity,
			"variantId": "gid://shopify/ProductVariant/" + item.VariantID,
		})
	}

	input := map[string]interface{}{
		"lineItems": lineItems,
		"tags":      []string{"payphone"},
	}
	if email != "" {
		input["email"] = email
	}

	var data struct {
		DraftOrderCreate struct {
			DraftOrder *struct {
				ID               string `json:"id"`
				Name             string `json:"name"`
				SubtotalPriceSet struct {
					ShopMoney struct {
						Amount       string `json:"amount"`
						CurrencyCode string `json:"currencyCode"`
					} `json:"shopMoney"`
				} `json:"subtotalPriceSet"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := c.graphql(ctx, draftOrderCreateMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, err
	}

	if len(data.DraftOrderCreate.UserErrors) > 0 {
		return nil, &UserErrorsError{Op: "draftOrderCreate", Errors: data.DraftOrderCreate.UserErrors}
	}
	draft := data.DraftOrderCreate.DraftOrder
	if draft == nil {
		return nil, fmt.Errorf("shopify draftOrderCreate returned no draft order")
	}

	numericID, err := numericGID(draft.ID)
	if err != nil {
		return nil, err
	}

	return &DraftOrder{
		ID:             numericID,
		Name:           draft.Name,
		SubtotalAmount: draft.SubtotalPriceSet.ShopMoney.Amount,
		Currency:       draft.SubtotalPriceSet.ShopMoney.CurrencyCode,
	}, nil
}

// CompleteDraftOrder finalizes a draft order into a real order. Shopify's
// "already completed" userError is treated as success so that replayed
// confirmations stay idempotent.
func (c *Client) CompleteDraftOrder(ctx context.Context, draftOrderID int64) (*CompletedOrder, error) {
	gid := fmt.Sprintf("gid://shopify/DraftOrder/%d", draftOrderID)

	var data struct {
		DraftOrderComplete struct {
			DraftOrder *struct {
				ID    string `json:"id"`
				Order *struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"order"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderComplete"`
	}
	if err := c.graphql(ctx, draftOrderCompleteMutation, map[string]interface{}{"id": gid}, &data); err != nil {
		return nil, err
	}

	orderName := ""
	if draft := data.DraftOrderComplete.DraftOrder; draft != nil && draft.Order != nil {
		orderName = draft.Order.Name
	}

	if errs := data.DraftOrderComplete.UserErrors; len(errs) > 0 {
		if allAlreadyCompleted(errs) {
			return &CompletedOrder{OrderName: orderName, AlreadyCompleted: true}, nil
		}
		return nil, &UserErrorsError{Op: "draftOrderComplete", Errors: errs}
	}

	return &CompletedOrder{OrderName: orderName}, nil
}

func allAlreadyCompleted(errs []UserError) bool {
	for _, ue := range errs {
		if !strings.Contains(strings.ToLower(ue.Message), "already") {
			return false
		}
	}
	return true
}

// numericGID extracts the trailing numeric id from a Shopify gid, e.g.
// "gid://shopify/DraftOrder/123" -> 123.
func numericGID(gid string) (int64, error) {
	idx := strings.LastIndex(gid, "/")
	if idx < 0 || idx == len(gid)-1 {
		return 0, fmt.Errorf("malformed gid: %q", gid)
	}
	n, err := strconv.ParseInt(gid[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed gid: %q", gid)
	}
	return n, nil
}
