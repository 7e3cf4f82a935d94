package models

import "time"

// Transaction statuses. The lifecycle is
// initiated -> confirmed -> finalized, with initiated -> failed on a
// declined payment and initiated -> expired when the sweeper gives up
// on an abandoned checkout.
const (
	TxInitiated = "initiated"
	TxConfirmed = "confirmed"
	TxFinalized = "finalized"
	TxFailed    = "failed"
	TxExpired   = "expired"
)

// Transaction is the persisted record of one payment attempt. It links the
// client transaction id handed to the Payphone widget back to the Shopify
// draft order it was minted for, and tracks the reconciliation outcome so
// replayed confirmations never finalize the same draft twice.
type Transaction struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TID            string    `gorm:"column:tid;size:64;uniqueIndex" json:"tid"`
	DraftOrderID   int64     `gorm:"column:draft_order_id;index" json:"draft_order_id"`
	DraftOrderName string    `gorm:"column:draft_order_name;size:64" json:"draft_order_name"`
	AmountCents    int64     `gorm:"column:amount_cents" json:"amount_cents"`
	Currency       string    `gorm:"column:currency;size:8" json:"currency"`
	Email          string    `gorm:"column:email;size:320" json:"email"`
	Status         string    `gorm:"column:status;size:20;index" json:"status"`
	PaymentID      int64     `gorm:"column:payment_id" json:"payment_id"`
	AuthCode       string    `gorm:"column:auth_code;size:64" json:"auth_code"`
	OrderName      string    `gorm:"column:order_name;size:64" json:"order_name"`
	FailureMsg     string    `gorm:"column:failure_msg;size:500" json:"failure_msg"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Terminal reports whether no further transition is allowed.
func (t *Transaction) Terminal() bool {
	return t.Status == TxFinalized || t.Status == TxFailed || t.Status == TxExpired
}
