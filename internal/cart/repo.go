package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
)

// Repository reads the customer's persistent cart, used when a checkout
// payload omits explicit items.
type Repository interface {
	FindItemsByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	DeleteItemsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindItemsByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteItemsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
