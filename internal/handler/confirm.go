package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/middleware"
	"paybridge/internal/models"
	"paybridge/internal/payphone"
	"paybridge/internal/shopify"
)

// Result page reason codes for status=error redirects.
const (
	ReasonBadTID     = "bad_tid"
	ReasonUserErrors = "complete_userErrors"
	ReasonDuplicate  = "duplicate"
)

// ConfirmHandler reconciles a returning payment: it confirms the final
// status with Payphone and, only on approval, completes the draft order the
// tid points at. Every outcome ends in a redirect to the result page.
type ConfirmHandler struct {
	commerce  CommerceClient
	gateway   GatewayClient
	store     TransactionStore
	deduper   middleware.Deduper
	resultURL string
	logger    *zap.Logger
}

func NewConfirmHandler(
	commerce CommerceClient,
	gateway GatewayClient,
	store TransactionStore,
	deduper middleware.Deduper,
	resultURL string,
	logger *zap.Logger,
) *ConfirmHandler {
	return &ConfirmHandler{
		commerce:  commerce,
		gateway:   gateway,
		store:     store,
		deduper:   deduper,
		resultURL: resultURL,
		logger:    logger,
	}
}

// Confirm handles GET /payphone/confirm?id=<int>&clientTransactionId=<tid>.
func (h *ConfirmHandler) Confirm(c echo.Context) error {
	tid := c.QueryParam("clientTransactionId")
	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 || tid == "" {
		return c.String(http.StatusBadRequest, "Parámetros inválidos")
	}

	ctx := c.Request().Context()

	// Replay check first: a terminal row answers without touching either
	// remote system again.
	tx, err := h.store.FindByTID(tid)
	if err != nil {
		h.logger.Error("transaction lookup failed", zap.String("tid", tid), zap.Error(err))
		tx = nil // degrade to the stateless path
	}
	if tx != nil && tx.Terminal() {
		return h.redirectStored(c, tx)
	}

	if h.deduper != nil {
		dup, derr := h.deduper.Seen(ctx, tid, id)
		if derr != nil {
			h.logger.Warn("deduper unavailable", zap.Error(derr))
		} else if dup {
			if tx != nil {
				return h.redirectStored(c, tx)
			}
			return h.redirectError(c, ReasonDuplicate)
		}
	}

	// Mandatory confirmation with Payphone; the gateway's answer is the
	// only trusted payment status.
	conf, err := h.gateway.Confirm(ctx, id, tid)
	if err != nil {
		h.logger.Error("payphone confirm failed", zap.String("tid", tid), zap.Error(err))
		return h.redirectError(c, "")
	}

	if !conf.Approved() {
		msg := conf.FailureMessage()
		if tx != nil {
			if err := h.store.MarkFailed(tid, msg); err != nil {
				h.logger.Error("failed to mark transaction failed", zap.String("tid", tid), zap.Error(err))
			}
		}
		h.logger.Info("payment not approved",
			zap.String("tid", tid), zap.Int("status_code", conf.StatusCode))
		return h.redirectFailed(c, tid, msg)
	}

	draftID, ok := payphone.ParseTID(tid)
	if !ok {
		h.logger.Warn("malformed tid on approved payment", zap.String("tid", tid))
		return h.redirectError(c, ReasonBadTID)
	}

	if tx != nil {
		won, cerr := h.store.MarkConfirmed(tid, conf.PaymentID, conf.AuthorizationCode)
		if cerr != nil {
			h.logger.Error("failed to mark transaction confirmed", zap.String("tid", tid), zap.Error(cerr))
		} else if !won {
			// Lost the transition to a concurrent attempt. Replay its
			// outcome if it reached a terminal state; a row stuck in
			// confirmed means that attempt died before finalizing, so
			// fall through and finish the job.
			cur, ferr := h.store.FindByTID(tid)
			if ferr == nil && cur != nil && cur.Terminal() {
				return h.redirectStored(c, cur)
			}
		}
	}

	completed, err := h.commerce.CompleteDraftOrder(ctx, draftID)
	if err != nil {
		var ue *shopify.UserErrorsError
		if errors.As(err, &ue) {
			h.logger.Error("draftOrderComplete userErrors", zap.String("tid", tid), zap.String("error", ue.Error()))
			return h.redirectError(c, ReasonUserErrors)
		}
		h.logger.Error("draftOrderComplete failed", zap.String("tid", tid), zap.Error(err))
		return h.redirectError(c, "")
	}

	if tx != nil {
		if _, err := h.store.MarkFinalized(tid, completed.OrderName); err != nil {
			h.logger.Error("failed to mark transaction finalized", zap.String("tid", tid), zap.Error(err))
		}
	}

	h.logger.Info("order finalized",
		zap.String("tid", tid),
		zap.String("order", completed.OrderName),
		zap.Bool("already_completed", completed.AlreadyCompleted))

	return h.redirectSuccess(c, completed.OrderName, tid, conf.AuthorizationCode)
}

// redirectStored replays the outcome recorded for a terminal transaction
// without calling either remote system.
func (h *ConfirmHandler) redirectStored(c echo.Context, tx *models.Transaction) error {
	switch tx.Status {
	case models.TxFinalized:
		return h.redirectSuccess(c, tx.OrderName, tx.TID, tx.AuthCode)
	case models.TxExpired:
		return h.redirectFailed(c, tx.TID, "Transacción expirada")
	default:
		msg := tx.FailureMsg
		if msg == "" {
			msg = "Pago cancelado"
		}
		return h.redirectFailed(c, tx.TID, msg)
	}
}

// Query parameter order matches the original contract: status first, then
// the contextual fields.

func (h *ConfirmHandler) redirectSuccess(c echo.Context, orderName, tid, authCode string) error {
	target := fmt.Sprintf("%s?status=success&order=%s&tid=%s&auth=%s",
		h.resultURL, url.QueryEscape(orderName), url.QueryEscape(tid), url.QueryEscape(authCode))
	return c.Redirect(http.StatusFound, target)
}

func (h *ConfirmHandler) redirectFailed(c echo.Context, tid, msg string) error {
	target := fmt.Sprintf("%s?status=failed&tid=%s&msg=%s",
		h.resultURL, url.QueryEscape(tid), url.QueryEscape(msg))
	return c.Redirect(http.StatusFound, target)
}

func (h *ConfirmHandler) redirectError(c echo.Context, reason string) error {
	target := h.resultURL + "?status=error"
	if reason != "" {
		target += "&reason=" + url.QueryEscape(reason)
	}
	return c.Redirect(http.StatusFound, target)
}
