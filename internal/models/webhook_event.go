package models

import "time"

// WebhookEvent stores a raw gateway notification for audit. Payphone does not
// sign these, so nothing is acted on here; reconciliation always goes through
// the Confirm API instead.
type WebhookEvent struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Payload    string    `gorm:"column:payload;type:text" json:"payload"`
	ReceivedAt time.Time `gorm:"column:received_at" json:"received_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
