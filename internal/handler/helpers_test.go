package handler

import (
	"context"
	"errors"

	"paybridge/internal/models"
	"paybridge/internal/payphone"
	"paybridge/internal/shopify"
)

type fakeCommerce struct {
	draft       *shopify.DraftOrder
	createErr   error
	completed   *shopify.CompletedOrder
	completeErr error

	createCalls   int
	completeCalls int
	gotItems      []shopify.LineItem
	gotEmail      string
	gotDraftID    int64
}

func (f *fakeCommerce) CreateDraftOrder(_ context.Context, items []shopify.LineItem, email string) (*shopify.DraftOrder, error) {
	f.createCalls++
	f.gotItems = items
	f.gotEmail = email
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.draft, nil
}

func (f *fakeCommerce) CompleteDraftOrder(_ context.Context, draftOrderID int64) (*shopify.CompletedOrder, error) {
	f.completeCalls++
	f.gotDraftID = draftOrderID
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.completed, nil
}

type fakeGateway struct {
	result *payphone.ConfirmResult
	err    error

	calls  int
	gotID  int64
	gotTID string
}

func (f *fakeGateway) Confirm(_ context.Context, id int64, clientTxID string) (*payphone.ConfirmResult, error) {
	f.calls++
	f.gotID = id
	f.gotTID = clientTxID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeStore struct {
	txs       map[string]*models.Transaction
	createErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{txs: make(map[string]*models.Transaction)}
}

func (f *fakeStore) Create(tx *models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *tx
	f.txs[tx.TID] = &cp
	return nil
}

func (f *fakeStore) FindByTID(tid string) (*models.Transaction, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	tx, ok := f.txs[tid]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeStore) MarkConfirmed(tid string, paymentID int64, authCode string) (bool, error) {
	tx, ok := f.txs[tid]
	if !ok || tx.Status != models.TxInitiated {
		return false, nil
	}
	tx.Status = models.TxConfirmed
	tx.PaymentID = paymentID
	tx.AuthCode = authCode
	return true, nil
}

func (f *fakeStore) MarkFinalized(tid, orderName string) (bool, error) {
	tx, ok := f.txs[tid]
	if !ok || tx.Status != models.TxConfirmed {
		return false, nil
	}
	tx.Status = models.TxFinalized
	tx.OrderName = orderName
	return true, nil
}

func (f *fakeStore) MarkFailed(tid, msg string) error {
	tx, ok := f.txs[tid]
	if !ok || tx.Status != models.TxInitiated {
		return nil
	}
	tx.Status = models.TxFailed
	tx.FailureMsg = msg
	return nil
}

type fakeWebhookStore struct {
	events []*models.WebhookEvent
	err    error
}

func (f *fakeWebhookStore) Create(event *models.WebhookEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeDeduper struct {
	dup   bool
	err   error
	calls int
}

func (f *fakeDeduper) Seen(_ context.Context, _ string, _ int64) (bool, error) {
	f.calls++
	return f.dup, f.err
}

var errBoom = errors.New("boom")
