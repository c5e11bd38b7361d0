package repository

import (
	"context"

	"gorm.io/gorm"

	"intersectionreg/internal/model"
)

// RegistrationRepository defines registration persistence operations.
type RegistrationRepository interface {
	// Create inserts the registration and returns its id. Ids come from the
	// table's auto-increment, so concurrent inserts never share one.
	Create(ctx context.Context, registration *model.Registration) (uint, error)
	// ListAll returns every registration in reverse insertion order.
	ListAll(ctx context.Context) ([]model.Registration, error)
	FindByID(ctx context.Context, id uint) (*model.Registration, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create creates a new registration record.
func (r *registrationRepository) Create(ctx context.Context, registration *model.Registration) (uint, error) {
	if err := r.db.WithContext(ctx).Create(registration).Error; err != nil {
		return 0, err
	}
	return registration.ID, nil
}

// ListAll orders by id rather than created_at so clock adjustments never reorder results.
func (r *registrationRepository) ListAll(ctx context.Context) ([]model.Registration, error) {
	registrations := []model.Registration{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

// FindByID finds a registration by ID.
func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	var registration model.Registration
	if err := r.db.WithContext(ctx).First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}
