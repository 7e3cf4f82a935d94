package repository

import (
	"gorm.io/gorm"

	"paybridge/internal/models"
)

// WebhookEventRepository handles stored gateway notifications.
type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Create stores a raw webhook payload.
func (r *WebhookEventRepository) Create(event *models.WebhookEvent) error {
	return r.db.Create(event).Error
}
