package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Get returns an active (not deleted) user.
func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&u).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ierr.NotFound("user", id)
		}
		return nil, ierr.Database(err, "load user")
	}
	return &u, nil
}

func (s *UserStore) ListIDsByRole(ctx context.Context, role models.Role) ([]string, error) {
	ids := make([]string, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND deleted_at IS NULL", role).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, ierr.Database(err, "list users by role")
	}
	return ids, nil
}
