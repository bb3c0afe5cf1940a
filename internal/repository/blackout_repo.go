package repository

import (
	"context"

	"github.com/cittafutura/booking-service/internal/models"
	"gorm.io/gorm"
)

type BlackoutRepository interface {
	Create(ctx context.Context, tx *gorm.DB, blackout *models.Blackout) error
	FindByID(ctx context.Context, id uint) (*models.Blackout, error)
	FindByHouse(ctx context.Context, tx *gorm.DB, houseID uint) ([]models.Blackout, error)
	Delete(ctx context.Context, id uint) error
}

type blackoutRepository struct {
	db *gorm.DB
}

func NewBlackoutRepository(db *gorm.DB) BlackoutRepository {
	return &blackoutRepository{db: db}
}

func (r *blackoutRepository) Create(ctx context.Context, tx *gorm.DB, blackout *models.Blackout) error {
	return tx.WithContext(ctx).Create(blackout).Error
}

func (r *blackoutRepository) FindByID(ctx context.Context, id uint) (*models.Blackout, error) {
	var blackout models.Blackout
	if err := r.db.WithContext(ctx).First(&blackout, id).Error; err != nil {
		return nil, err
	}
	return &blackout, nil
}

func (r *blackoutRepository) FindByHouse(ctx context.Context, tx *gorm.DB, houseID uint) ([]models.Blackout, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	var blackouts []models.Blackout
	err := conn.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("start_date ASC").
		Find(&blackouts).Error
	return blackouts, err
}

func (r *blackoutRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Blackout{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
