package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "intersectionreg/internal/errors"
	"intersectionreg/internal/metrics"
	"intersectionreg/internal/model"
	"intersectionreg/internal/repository"
	"intersectionreg/internal/upload"
)

// AttachmentStore saves and removes uploaded files. *upload.Uploader
// implements it.
type AttachmentStore interface {
	Save(ctx context.Context, field string, category upload.Category, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, category upload.Category, names ...string) error
}

// Attachments are the files submitted with a registration. Empty parts are
// ignored.
type Attachments struct {
	PhasingFile *multipart.FileHeader
	TimingFiles []*multipart.FileHeader
}

// RegistrationService handles registration submission and review.
type RegistrationService interface {
	Create(ctx context.Context, form RegistrationForm, files Attachments) (uint, error)
	List(ctx context.Context) ([]model.Registration, error)
	Get(ctx context.Context, id uint) (*model.Registration, error)
}

type registrationService struct {
	repo      repository.RegistrationRepository
	validator *FormValidator
	files     AttachmentStore
	log       *zap.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(repo repository.RegistrationRepository, files AttachmentStore, log *zap.Logger) RegistrationService {
	return &registrationService{
		repo:      repo,
		validator: NewFormValidator(),
		files:     files,
		log:       log,
	}
}

// Create validates the form, stores attachments and inserts the record. Files
// stored for a submission that is then rejected are removed again.
func (s *registrationService) Create(ctx context.Context, form RegistrationForm, files Attachments) (uint, error) {
	form.Normalize()
	if err := s.validator.Validate(&form); err != nil {
		metrics.RegistrationsRejected.WithLabelValues("validation").Inc()
		return 0, err
	}

	reg := form.Registration()
	var phasing, timing []string
	cleanup := func() {
		if err := s.files.Remove(ctx, upload.CategoryPhasing, phasing...); err != nil {
			s.log.Warn("remove orphaned phasing file", zap.Strings("files", phasing), zap.Error(err))
		}
		if err := s.files.Remove(ctx, upload.CategoryTiming, timing...); err != nil {
			s.log.Warn("remove orphaned timing files", zap.Strings("files", timing), zap.Error(err))
		}
	}

	if fh := files.PhasingFile; fh != nil && fh.Size > 0 {
		name, err := s.files.Save(ctx, "phasingFile", upload.CategoryPhasing, fh)
		if err != nil {
			s.uploadFailed(err)
			return 0, err
		}
		phasing = append(phasing, name)
		reg.PhasingFilePath = &name
	}

	for _, fh := range files.TimingFiles {
		if fh == nil || fh.Size == 0 {
			continue
		}
		name, err := s.files.Save(ctx, "timingFiles", upload.CategoryTiming, fh)
		if err != nil {
			s.uploadFailed(err)
			cleanup()
			return 0, err
		}
		timing = append(timing, name)
	}
	reg.TimingFiles = timing

	id, err := s.repo.Create(ctx, reg)
	if err != nil {
		s.log.Error("insert registration", zap.Error(err))
		metrics.RegistrationsRejected.WithLabelValues("persistence").Inc()
		cleanup()
		return 0, fmt.Errorf("%w: create registration: %w", apperrors.ErrPersistence, err)
	}

	metrics.RegistrationsCreated.Inc()
	metrics.UploadsStored.WithLabelValues(string(upload.CategoryPhasing)).Add(float64(len(phasing)))
	metrics.UploadsStored.WithLabelValues(string(upload.CategoryTiming)).Add(float64(len(timing)))
	s.log.Info("registration created", zap.Uint("id", id), zap.Int("timing_files", len(timing)))
	return id, nil
}

func (s *registrationService) uploadFailed(err error) {
	metrics.RegistrationsRejected.WithLabelValues("upload").Inc()
	var uploadErr *apperrors.UploadError
	if errors.As(err, &uploadErr) && uploadErr.Cause != nil {
		s.log.Error("store attachment", zap.String("field", uploadErr.Field), zap.String("file", uploadErr.File), zap.Error(uploadErr.Cause))
	}
}

// List returns every registration, newest first.
func (s *registrationService) List(ctx context.Context) ([]model.Registration, error) {
	registrations, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("list registrations", zap.Error(err))
		return nil, fmt.Errorf("%w: list registrations: %w", apperrors.ErrPersistence, err)
	}
	return registrations, nil
}

func (s *registrationService) Get(ctx context.Context, id uint) (*model.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		s.log.Error("get registration", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: get registration %d: %w", apperrors.ErrPersistence, id, err)
	}
	return registration, nil
}
