package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/models"
)

// NotifyHandler receives Payphone webhook notifications. They are stored for
// audit only; reconciliation never acts on them because the gateway does not
// sign them.
type NotifyHandler struct {
	store  WebhookStore
	logger *zap.Logger
}

func NewNotifyHandler(store WebhookStore, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{store: store, logger: logger}
}

// Notify handles POST /payphone/notify.
func (h *NotifyHandler) Notify(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "read failed"})
	}

	event := &models.WebhookEvent{
		ID:         uuid.NewString(),
		Payload:    string(body),
		ReceivedAt: time.Now(),
	}
	if err := h.store.Create(event); err != nil {
		h.logger.Error("failed to store webhook event", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "store failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
