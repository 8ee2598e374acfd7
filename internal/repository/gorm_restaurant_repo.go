package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

// GormRestaurantRepository implements RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GORM-based restaurant repository.
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// Create creates a new restaurant. Only the seeder writes restaurants.
func (r *GormRestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}

	model := domain.RestaurantToModel(restaurant)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	restaurant.CreatedAt = model.CreatedAt
	restaurant.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a restaurant by ID.
func (r *GormRestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var model domain.RestaurantModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByIDs retrieves restaurants by id, preserving the order of ids.
// Missing ids are skipped.
func (r *GormRestaurantRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []domain.RestaurantModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Restaurant, len(models))
	for i := range models {
		byID[models[i].ID] = models[i].ToDomain()
	}

	restaurants := make([]*domain.Restaurant, 0, len(ids))
	for _, id := range ids {
		if rest, ok := byID[id]; ok {
			restaurants = append(restaurants, rest)
		}
	}
	return restaurants, nil
}

// List retrieves a page of restaurants ordered by id.
func (r *GormRestaurantRepository) List(ctx context.Context, offset, limit int) ([]*domain.Restaurant, error) {
	var models []domain.RestaurantModel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	restaurants := make([]*domain.Restaurant, len(models))
	for i := range models {
		restaurants[i] = models[i].ToDomain()
	}
	return restaurants, nil
}

// ListNewest retrieves the most recently created restaurants.
func (r *GormRestaurantRepository) ListNewest(ctx context.Context, limit int) ([]*domain.Restaurant, error) {
	var models []domain.RestaurantModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	restaurants := make([]*domain.Restaurant, len(models))
	for i := range models {
		restaurants[i] = models[i].ToDomain()
	}
	return restaurants, nil
}

// Exists checks whether a restaurant id resolves.
func (r *GormRestaurantRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RestaurantModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure interface is satisfied at compile time.
var _ RestaurantRepository = (*GormRestaurantRepository)(nil)
