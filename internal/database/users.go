package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"seisaku-manager/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts u. Usernames are unique.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", u.Username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user %s: %w", u.Username, err)
	}
	if count > 0 {
		return ErrUserExists
	}
	return s.insert(ctx, u)
}

// insert relies on the unique index when two registrations pass the count
// check together. The DB must be opened with TranslateError.
func (s *UserStore) insert(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Username, err)
	}
	return nil
}

func (s *UserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if isNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &u, nil
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if isNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}
	return &u, nil
}

// List returns users ordered by username, only unapproved ones if pending.
func (s *UserStore) List(ctx context.Context, pending bool) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("username asc")
	if pending {
		q = q.Where("approved = ?", false)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Approve(ctx context.Context, id uint) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("approved", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to approve user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.ByID(ctx, id)
}
