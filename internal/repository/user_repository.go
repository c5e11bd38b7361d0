package repository

import (
	"context"

	"gorm.io/gorm"

	"intersectionreg/internal/model"
)

// UserRepository defines credential persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FirstOrCreate inserts user unless the username already exists. It
	// reports whether a row was created; existing rows are left untouched.
	FirstOrCreate(ctx context.Context, user *model.User) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FirstOrCreate(ctx context.Context, user *model.User) (bool, error) {
	res := r.db.WithContext(ctx).Where(model.User{Username: user.Username}).FirstOrCreate(user)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
