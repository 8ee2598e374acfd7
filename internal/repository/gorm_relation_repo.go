package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// Requires TranslateError on the gorm.Config (see pkg/database).
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// relationDescriptor maps a relation kind onto its table shape.
type relationDescriptor struct {
	table     string
	actorCol  string
	targetCol string
	newRecord func(actorID, targetID string) interface{}
}

var relationDescriptors = map[domain.RelationKind]relationDescriptor{
	domain.RelationFavorite: {
		table:     domain.FavoriteModel{}.TableName(),
		actorCol:  "user_id",
		targetCol: "restaurant_id",
		newRecord: func(actorID, targetID string) interface{} {
			return &domain.FavoriteModel{UserID: actorID, RestaurantID: targetID}
		},
	},
	domain.RelationLike: {
		table:     domain.LikeModel{}.TableName(),
		actorCol:  "user_id",
		targetCol: "restaurant_id",
		newRecord: func(actorID, targetID string) interface{} {
			return &domain.LikeModel{UserID: actorID, RestaurantID: targetID}
		},
	},
	domain.RelationFollowship: {
		table:     domain.FollowshipModel{}.TableName(),
		actorCol:  "follower_id",
		targetCol: "following_id",
		newRecord: func(actorID, targetID string) interface{} {
			return &domain.FollowshipModel{FollowerID: actorID, FollowingID: targetID}
		},
	},
}

// GormRelationRepository implements RelationRepository for a single relation
// kind. All three kinds share this implementation; only the descriptor
// differs.
type GormRelationRepository struct {
	db   *gorm.DB
	kind domain.RelationKind
	desc relationDescriptor
}

// NewGormRelationRepository creates a GORM-backed relation repository for
// the given kind.
func NewGormRelationRepository(db *gorm.DB, kind domain.RelationKind) (*GormRelationRepository, error) {
	desc, ok := relationDescriptors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation kind: %s", kind)
	}
	return &GormRelationRepository{db: db, kind: kind, desc: desc}, nil
}

// Kind reports which relation this repository serves.
func (r *GormRelationRepository) Kind() domain.RelationKind { return r.kind }

// Add inserts the (actor, target) row. The composite unique index is the
// authoritative duplicate guard: a concurrent identical Add loses the race
// at the index, not at an application-level check.
func (r *GormRelationRepository) Add(ctx context.Context, actorID, targetID string) error {
	record := r.desc.newRecord(actorID, targetID)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrRelationExists
		}
		return err
	}
	return nil
}

// Remove deletes the (actor, target) row.
func (r *GormRelationRepository) Remove(ctx context.Context, actorID, targetID string) error {
	result := r.db.WithContext(ctx).
		Where(r.desc.actorCol+" = ? AND "+r.desc.targetCol+" = ?", actorID, targetID).
		Delete(r.desc.newRecord("", ""))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}

// Exists checks whether the (actor, target) row is present.
func (r *GormRelationRepository) Exists(ctx context.Context, actorID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.desc.table).
		Where(r.desc.actorCol+" = ? AND "+r.desc.targetCol+" = ?", actorID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTargets returns the target ids associated with the actor, oldest first.
func (r *GormRelationRepository) ListTargets(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table(r.desc.table).
		Where(r.desc.actorCol+" = ?", actorID).
		Order("id ASC").
		Pluck(r.desc.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActors returns the actor ids associated with the target, oldest first.
func (r *GormRelationRepository) ListActors(ctx context.Context, targetID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table(r.desc.table).
		Where(r.desc.targetCol+" = ?", targetID).
		Order("id ASC").
		Pluck(r.desc.actorCol, &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountActors returns how many actors point at the target.
func (r *GormRelationRepository) CountActors(ctx context.Context, targetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.desc.table).
		Where(r.desc.targetCol+" = ?", targetID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountActorsAll returns actor counts grouped by target in a single query.
func (r *GormRelationRepository) CountActorsAll(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Target string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table(r.desc.table).
		Select(r.desc.targetCol + " AS target, COUNT(*) AS count").
		Group(r.desc.targetCol).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Target] = rw.Count
	}
	return counts, nil
}

// Ensure interface is satisfied at compile time.
var _ RelationRepository = (*GormRelationRepository)(nil)
