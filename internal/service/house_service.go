package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type HouseInput struct {
	Slug     string
	Title    string
	Summary  *string
	Capacity int
	Services []string
	Photos   []string
}

// HouseUpdate carries only the fields to change.
type HouseUpdate struct {
	Slug     *string
	Title    *string
	Summary  *string
	Capacity *int
	Services []string
	Photos   []string
}

type HouseService interface {
	CreateHouse(ctx context.Context, in HouseInput) (*models.House, error)
	GetHouseBySlug(ctx context.Context, slug string) (*models.House, error)
	ListHouses(ctx context.Context, filter repository.HouseFilter) ([]models.House, error)
	UpdateHouse(ctx context.Context, id uint, in HouseUpdate) (*models.House, error)
	DeleteHouse(ctx context.Context, id uint) error
}

type houseService struct {
	repo repository.HouseRepository
}

func NewHouseService(repo repository.HouseRepository) HouseService {
	return &houseService{repo: repo}
}

func (s *houseService) CreateHouse(ctx context.Context, in HouseInput) (*models.House, error) {
	capacity := in.Capacity
	if capacity == 0 {
		capacity = 4
	}
	house := &models.House{
		Slug:     in.Slug,
		Title:    in.Title,
		Summary:  in.Summary,
		Capacity: capacity,
		Services: pq.StringArray(nonNil(in.Services)),
		Photos:   pq.StringArray(nonNil(in.Photos)),
	}
	if err := s.repo.Create(ctx, house); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create house: %w", err)
	}
	return house, nil
}

func (s *houseService) GetHouseBySlug(ctx context.Context, slug string) (*models.House, error) {
	house, err := s.repo.FindBySlugWithCalendar(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return house, nil
}

func (s *houseService) ListHouses(ctx context.Context, filter repository.HouseFilter) ([]models.House, error) {
	return s.repo.List(ctx, filter)
}

func (s *houseService) UpdateHouse(ctx context.Context, id uint, in HouseUpdate) (*models.House, error) {
	fields := map[string]any{}
	if in.Slug != nil {
		fields["slug"] = *in.Slug
	}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Summary != nil {
		fields["summary"] = *in.Summary
	}
	if in.Capacity != nil {
		fields["capacity"] = *in.Capacity
	}
	if in.Services != nil {
		fields["services"] = pq.StringArray(in.Services)
	}
	if in.Photos != nil {
		fields["photos"] = pq.StringArray(in.Photos)
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrHouseNotFound
			case repository.IsUniqueViolation(err):
				return nil, ErrSlugTaken
			}
			return nil, fmt.Errorf("update house: %w", err)
		}
	}

	house, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return house, nil
}

func (s *houseService) DeleteHouse(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHouseNotFound
		}
		return err
	}
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
