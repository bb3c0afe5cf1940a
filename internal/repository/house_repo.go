package repository

import (
	"context"

	"github.com/cittafutura/booking-service/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type HouseFilter struct {
	Query       string
	Services    []string
	MinCapacity int
}

type HouseRepository interface {
	Create(ctx context.Context, house *models.House) error
	FindByID(ctx context.Context, id uint) (*models.House, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.House, error)
	FindBySlugWithCalendar(ctx context.Context, slug string) (*models.House, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.House, error)
	List(ctx context.Context, filter HouseFilter) ([]models.House, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type houseRepository struct {
	db *gorm.DB
}

func NewHouseRepository(db *gorm.DB) HouseRepository {
	return &houseRepository{db: db}
}

func (r *houseRepository) Create(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *houseRepository) FindByID(ctx context.Context, id uint) (*models.House, error) {
	var house models.House
	if err := r.db.WithContext(ctx).First(&house, id).Error; err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.House, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	var house models.House
	if err := conn.WithContext(ctx).Where("slug = ?", slug).First(&house).Error; err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) FindBySlugWithCalendar(ctx context.Context, slug string) (*models.House, error) {
	var house models.House
	err := r.db.WithContext(ctx).
		Preload("Blackouts").
		Preload("Bookings").
		Where("slug = ?", slug).
		First(&house).Error
	if err != nil {
		return nil, err
	}
	return &house, nil
}

// FindByIDForUpdate locks the house row for the rest of the transaction.
// Every write that adds a blocking interval takes this lock first.
func (r *houseRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.House, error) {
	var house models.House
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&house, id).Error; err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) List(ctx context.Context, filter HouseFilter) ([]models.House, error) {
	var houses []models.House
	q := r.db.WithContext(ctx)
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("title ILIKE ? OR summary ILIKE ?", like, like)
	}
	if filter.MinCapacity > 0 {
		q = q.Where("capacity >= ?", filter.MinCapacity)
	}
	if len(filter.Services) > 0 {
		q = q.Where("services @> ?", pq.StringArray(filter.Services))
	}
	if err := q.Order("created_at DESC").Find(&houses).Error; err != nil {
		return nil, err
	}
	return houses, nil
}

func (r *houseRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.House{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *houseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.House{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
