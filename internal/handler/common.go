package handler

import (
	"context"

	"paybridge/internal/models"
	"paybridge/internal/payphone"
	"paybridge/internal/shopify"
)

// CommerceClient is the commerce backend surface the handlers need.
// *shopify.Client implements it.
type CommerceClient interface {
	CreateDraftOrder(ctx context.Context, items []shopify.LineItem, email string) (*shopify.DraftOrder, error)
	CompleteDraftOrder(ctx context.Context, draftOrderID int64) (*shopify.CompletedOrder, error)
}

// GatewayClient is the payment gateway surface the handlers need.
// *payphone.Client implements it.
type GatewayClient interface {
	Confirm(ctx context.Context, id int64, clientTxID string) (*payphone.ConfirmResult, error)
}

// TransactionStore is the persisted transaction state machine.
// *repository.TransactionRepository implements it.
type TransactionStore interface {
	Create(tx *models.Transaction) error
	FindByTID(tid string) (*models.Transaction, error)
	MarkConfirmed(tid string, paymentID int64, authCode string) (bool, error)
	MarkFinalized(tid, orderName string) (bool, error)
	MarkFailed(tid, msg string) error
}

// WebhookStore persists raw gateway notifications.
// *repository.WebhookEventRepository implements it.
type WebhookStore interface {
	Create(event *models.WebhookEvent) error
}
