package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func graphqlServer(t *testing.T, handler func(t *testing.T, req graphqlRequest, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		handler(t, req, w)
	}))
}

func TestCreateDraftOrder(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		require.Contains(t, req.Query, "draftOrderCreate")

		input := req.Variables["input"].(map[string]interface{})
		lineItems := input["lineItems"].([]interface{})
		require.Len(t, lineItems, 1)
		first := lineItems[0].(map[string]interface{})
		assert.Equal(t, "gid://shopify/ProductVariant/123", first["variantId"])
		assert.Equal(t, float64(2), first["quantity"])
		assert.Equal(t, "buyer@example.com", input["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"draftOrderCreate": map[string]interface{}{
					"draftOrder": map[string]interface{}{
						"id":   "gid://shopify/DraftOrder/987",
						"name": "#D42",
						"subtotalPriceSet": map[string]interface{}{
							"shopMoney": map[string]interface{}{
								"amount":       "19.99",
								"currencyCode": "USD",
							},
						},
					},
					"userErrors": []interface{}{},
				},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	draft, err := client.CreateDraftOrder(context.Background(),
		[]LineItem{{VariantID: "123", Quantity: 2}}, "buyer@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(987), draft.ID)
	assert.Equal(t, "#D42", draft.Name)
	assert.Equal(t, "19.99", draft.SubtotalAmount)
	assert.Equal(t, "USD", draft.Currency)
}

func TestCreateDraftOrderUserErrors(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"draftOrderCreate": map[string]interface{}{
					"draftOrder": nil,
					"userErrors": []map[string]interface{}{
						{"field": []string{"lineItems"}, "message": "Variant not found"},
					},
				},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	_, err := client.CreateDraftOrder(context.Background(),
		[]LineItem{{VariantID: "999", Quantity: 1}}, "")
	require.Error(t, err)

	var ue *UserErrorsError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "draftOrderCreate", ue.Op)
	require.Len(t, ue.Errors, 1)
	assert.Equal(t, "Variant not found", ue.Errors[0].Message)
}

func TestCreateDraftOrderTopLevelErrors(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{
				{"message": "Throttled"},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	_, err := client.CreateDraftOrder(context.Background(),
		[]LineItem{{VariantID: "123", Quantity: 1}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")

	var ue *UserErrorsError
	assert.NotErrorAs(t, err, &ue)
}

func TestCompleteDraftOrder(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		require.Contains(t, req.Query, "draftOrderComplete")
		assert.Equal(t, "gid://shopify/DraftOrder/987", req.Variables["id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"draftOrderComplete": map[string]interface{}{
					"draftOrder": map[string]interface{}{
						"id": "gid://shopify/DraftOrder/987",
						"order": map[string]interface{}{
							"id":   "gid://shopify/Order/1042",
							"name": "#1042",
						},
					},
					"userErrors": []interface{}{},
				},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	completed, err := client.CompleteDraftOrder(context.Background(), 987)
	require.NoError(t, err)

	assert.Equal(t, "#1042", completed.OrderName)
	assert.False(t, completed.AlreadyCompleted)
}

func TestCompleteDraftOrderAlreadyCompleted(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"draftOrderComplete": map[string]interface{}{
					"draftOrder": map[string]interface{}{
						"id": "gid://shopify/DraftOrder/987",
						"order": map[string]interface{}{
							"id":   "gid://shopify/Order/1042",
							"name": "#1042",
						},
					},
					"userErrors": []map[string]interface{}{
						{"field": nil, "message": "This draft order has already been completed"},
					},
				},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	completed, err := client.CompleteDraftOrder(context.Background(), 987)
	require.NoError(t, err)

	assert.True(t, completed.AlreadyCompleted)
	assert.Equal(t, "#1042", completed.OrderName)
}

func TestCompleteDraftOrderUserErrors(t *testing.T) {
	srv := graphqlServer(t, func(t *testing.T, req graphqlRequest, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"draftOrderComplete": map[string]interface{}{
					"draftOrder": nil,
					"userErrors": []map[string]interface{}{
						{"field": []string{"id"}, "message": "Draft order not found"},
					},
				},
			},
		})
	})
	defer srv.Close()

	client := New("shop.myshopify.com", "test-token", "2024-10").WithBaseURL(srv.URL)
	_, err := client.CompleteDraftOrder(context.Background(), 987)
	require.Error(t, err)

	var ue *UserErrorsError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "draftOrderComplete", ue.Op)
}

func TestNumericGID(t *testing.T) {
	tests := []struct {
		gid     string
		want    int64
		wantErr bool
	}{
		{gid: "gid://shopify/DraftOrder/987", want: 987},
		{gid: "gid://shopify/ProductVariant/123456", want: 123456},
		{gid: "gid://shopify/DraftOrder/", wantErr: true},
		{gid: "gid://shopify/DraftOrder/abc", wantErr: true},
		{gid: "987", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.gid, func(t *testing.T) {
			got, err := numericGID(tt.gid)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
