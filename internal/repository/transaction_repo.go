package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"paybridge/internal/models"
)

// TransactionRepository handles transaction database operations.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction record.
func (r *TransactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

// FindByTID returns a transaction by its client transaction id, or nil when
// no record exists (pre-migration tids fall back to stateless handling).
func (r *TransactionRepository) FindByTID(tid string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("tid = ?", tid).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// MarkConfirmed moves an initiated transaction to confirmed. The guarded
// WHERE clause makes the transition single-winner: a false return means the
// row was missing or already past initiated.
func (r *TransactionRepository) MarkConfirmed(tid string, paymentID int64, authCode string) (bool, error) {
	res := r.db.Model(&models.Transaction{}).
		Where("tid = ? AND status = ?", tid, models.TxInitiated).
		Updates(map[string]interface{}{
			"status":     models.TxConfirmed,
			"payment_id": paymentID,
			"auth_code":  authCode,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkFinalized moves a confirmed transaction to finalized, recording the
// real order name for replayed confirmations.
func (r *TransactionRepository) MarkFinalized(tid, orderName string) (bool, error) {
	res := r.db.Model(&models.Transaction{}).
		Where("tid = ? AND status = ?", tid, models.TxConfirmed).
		Updates(map[string]interface{}{
			"status":     models.TxFinalized,
			"order_name": orderName,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkFailed records a declined or cancelled payment.
func (r *TransactionRepository) MarkFailed(tid, msg string) error {
	return r.db.Model(&models.Transaction{}).
		Where("tid = ? AND status = ?", tid, models.TxInitiated).
		Updates(map[string]interface{}{
			"status":      models.TxFailed,
			"failure_msg": msg,
		}).Error
}

// ExpireStale marks transactions still initiated after ttl as expired and
// returns how many rows were touched. The Shopify draft is left as-is,
// matching the original behavior of never deleting abandoned drafts.
func (r *TransactionRepository) ExpireStale(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	res := r.db.Model(&models.Transaction{}).
		Where("status = ? AND created_at < ?", models.TxInitiated, cutoff).
		Update("status", models.TxExpired)
	return res.RowsAffected, res.Error
}

// CountByStatus counts transactions in a given state.
func (r *TransactionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
