package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/models"
	"paybridge/internal/payphone"
	"paybridge/internal/shopify"
)

// CheckoutHandler turns a storefront cart into a Shopify draft order and a
// redirect to the hosted Payphone widget.
type CheckoutHandler struct {
	commerce   CommerceClient
	store      TransactionStore
	payPageURL string
	logger     *zap.Logger
}

func NewCheckoutHandler(commerce CommerceClient, store TransactionStore, payPageURL string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		commerce:   commerce,
		store:      store,
		payPageURL: payPageURL,
		logger:     logger,
	}
}

// Create handles POST /payphone/create.
func (h *CheckoutHandler) Create(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Cuerpo inválido"})
	}

	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Carrito vacío"})
	}

	items := make([]shopify.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.VariantID == "" || item.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Artículo inválido"})
		}
		items = append(items, shopify.LineItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	ctx := c.Request().Context()

	// Optimistic create: the draft exists even if the payer never returns.
	// Abandoned drafts are expired by the sweeper on this side only.
	draft, err := h.commerce.CreateDraftOrder(ctx, items, req.Email)
	if err != nil {
		var ue *shopify.UserErrorsError
		if errors.As(err, &ue) {
			h.logger.Warn("draftOrderCreate userErrors", zap.String("error", ue.Error()))
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Shopify draftOrderCreate",
				Details: ue.Errors,
			})
		}
		h.logger.Error("draftOrderCreate failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	amountCents, err := centsFromDecimal(draft.SubtotalAmount)
	if err != nil {
		h.logger.Error("bad subtotal from Shopify",
			zap.String("amount", draft.SubtotalAmount), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "No se pudo leer el total del pedido"})
	}
	if amountCents <= 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Total del pedido inválido (0)"})
	}

	tid := payphone.MintTID(draft.ID)

	tx := &models.Transaction{
		TID:            tid,
		DraftOrderID:   draft.ID,
		DraftOrderName: draft.Name,
		AmountCents:    amountCents,
		Currency:       draft.Currency,
		Email:          req.Email,
		Status:         models.TxInitiated,
	}
	if err := h.store.Create(tx); err != nil {
		// The tid alone still carries the draft reference, so the checkout
		// keeps working; only replay protection degrades.
		h.logger.Error("failed to persist transaction",
			zap.String("tid", tid), zap.Error(err))
	}

	redirectURL := fmt.Sprintf("%s?tid=%s&amount_cents=%d&amount_with_tax_cents=%d&tax_cents=0",
		h.payPageURL, url.QueryEscape(tid), amountCents, amountCents)

	h.logger.Info("checkout initiated",
		zap.String("tid", tid),
		zap.Int64("draft_order_id", draft.ID),
		zap.Int64("amount_cents", amountCents))

	return c.JSON(http.StatusOK, models.CreateOrderResponse{RedirectURL: redirectURL})
}

// centsFromDecimal converts a decimal amount string to integer cents,
// rounding to the nearest cent. The float round-trip is lossy in theory but
// exact for any realistic money value.
func centsFromDecimal(amount string) (int64, error) {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}
