package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GORM-based comment repository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment. Only the seeder writes comments.
func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	model := &domain.CommentModel{
		ID:           comment.ID,
		Text:         comment.Text,
		UserID:       comment.UserID,
		RestaurantID: comment.RestaurantID,
		CreatedAt:    comment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	comment.CreatedAt = model.CreatedAt
	return nil
}

// ListByUser returns a user's comments in original (insertion) order.
// Profile deduplication by restaurant depends on this order.
func (r *GormCommentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Comment, error) {
	var models []domain.CommentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(models), nil
}

// ListByRestaurant returns a restaurant's comments, newest first.
func (r *GormCommentRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Comment, error) {
	var models []domain.CommentModel
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(models), nil
}

// ListNewest returns the most recent comments across all restaurants.
func (r *GormCommentRepository) ListNewest(ctx context.Context, limit int) ([]*domain.Comment, error) {
	var models []domain.CommentModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(models), nil
}

func toDomainComments(models []domain.CommentModel) []*domain.Comment {
	comments := make([]*domain.Comment, len(models))
	for i := range models {
		comments[i] = models[i].ToDomain()
	}
	return comments
}

// Ensure interface is satisfied at compile time.
var _ CommentRepository = (*GormCommentRepository)(nil)
