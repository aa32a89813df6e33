package repository

import (
	"pulsebeat_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(tx *model.Transaction) error {
	return r.DB.Create(tx).Error
}

func (r *TransactionRepository) FindByRef(ref string) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.DB.Preload("Cart.Items.Product").
		Where("ref = ?", ref).
		First(&tx).Error
	return &tx, err
}

func (r *TransactionRepository) Update(tx *model.Transaction) error {
	return r.DB.Save(tx).Error
}

func (r *TransactionRepository) FindByUser(userID uint) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

// ExpirePending marks pending transactions older than cutoff as expired
// and reports how many rows changed. The background sweep calls this.
func (r *TransactionRepository) ExpirePending(cutoff time.Time) (int64, error) {
	result := r.DB.Model(&model.Transaction{}).
		Where("status = ? AND created_at < ?", model.TxPending, cutoff).
		Update("status", model.TxExpired)
	return result.RowsAffected, result.Error
}
