package repository

import (
	"context"

	"gorm.io/gorm"

	"intersectionreg/internal/model"
)

// DropdownRepository defines dropdown catalogue operations.
type DropdownRepository interface {
	ListByCategory(ctx context.Context, category string) ([]model.DropdownOption, error)
	Ensure(ctx context.Context, category, name string) error
}

type dropdownRepository struct {
	db *gorm.DB
}

// NewDropdownRepository creates a new dropdown repository.
func NewDropdownRepository(db *gorm.DB) DropdownRepository {
	return &dropdownRepository{db: db}
}

// ListByCategory lists the options of one category ordered by name.
func (r *dropdownRepository) ListByCategory(ctx context.Context, category string) ([]model.DropdownOption, error) {
	options := []model.DropdownOption{}
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("name").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Ensure inserts the option if it does not exist yet.
func (r *dropdownRepository) Ensure(ctx context.Context, category, name string) error {
	option := model.DropdownOption{Category: category, Name: name}
	return r.db.WithContext(ctx).Where(option).FirstOrCreate(&option).Error
}
