package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinical-records-server/internal/apperr"
	"clinical-records-server/internal/models"
	"clinical-records-server/internal/validation"
)

// WorkerInput is the create/update payload for a healthcare worker.
type WorkerInput struct {
	Name          validation.Optional[string] `json:"name"`
	PreferredName validation.Optional[string] `json:"preferred_name"`
	Profession    validation.Optional[string] `json:"profession"`
	Address       validation.Optional[string] `json:"address"`
	Phone         validation.Optional[string] `json:"phone"`
	Email         validation.Optional[string] `json:"email"`
}

// workerCandidate is the record being built from the input. For updates it starts
// as a copy of the stored worker.
type workerCandidate struct {
	input   WorkerInput
	partial bool
	worker  models.HealthcareWorker
}

var workerRules = []validation.Rule[workerCandidate]{
	{Field: "name", Check: func(c *workerCandidate) error {
		return requiredText(c.input.Name, c.partial, 2, 60, &c.worker.Name)
	}},
	{Field: "preferred_name", Check: func(c *workerCandidate) error {
		return optionalText(c.input.PreferredName, 100, &c.worker.PreferredName)
	}},
	{Field: "profession", Check: func(c *workerCandidate) error {
		return requiredText(c.input.Profession, c.partial, 3, 50, &c.worker.Profession)
	}},
	{Field: "address", Check: func(c *workerCandidate) error {
		return requiredText(c.input.Address, c.partial, 5, 120, &c.worker.Address)
	}},
	{Field: "phone", Check: func(c *workerCandidate) error {
		if c.partial && !c.input.Phone.Set {
			return nil
		}
		if err := validation.Required(c.input.Phone); err != nil {
			return err
		}
		phone, err := validation.Digits(c.input.Phone.Value, 10, 11)
		if err != nil {
			return err
		}
		c.worker.Phone = phone
		return nil
	}},
	{Field: "email", Check: func(c *workerCandidate) error {
		return optionalEmail(c.input.Email, &c.worker.Email)
	}},
}

const msgEmailTaken = "healthcare worker with this email already exists"

// WorkerService owns healthcare worker records.
type WorkerService struct {
	DB *gorm.DB
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(db *gorm.DB) *WorkerService {
	return &WorkerService{DB: db}
}

// List returns workers ordered by name, optionally filtered by a search term matched
// against id, or case-insensitively against name, preferred name, profession and email.
func (s *WorkerService) List(ctx context.Context, search string) ([]models.HealthcareWorker, error) {
	workers := []models.HealthcareWorker{}
	term, ok := NormalizeSearch(search)
	if !ok {
		return workers, nil
	}

	query := s.DB.WithContext(ctx).Order("name ASC").Order("id ASC")
	if term != "" {
		if id, isID := searchID(term); isID {
			query = query.Where("id = ?", id)
		} else {
			pattern := likePattern(term)
			query = query.Where(
				"(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(preferred_name) LIKE ? ESCAPE '!' OR LOWER(profession) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')",
				pattern, pattern, pattern, pattern,
			)
		}
	}

	if err := query.Find(&workers).Error; err != nil {
		return nil, apperr.Internal("list healthcare workers", err)
	}
	return workers, nil
}

// Get returns one worker.
func (s *WorkerService) Get(ctx context.Context, id uint) (*models.HealthcareWorker, error) {
	var worker models.HealthcareWorker
	if err := s.DB.WithContext(ctx).First(&worker, id).Error; err != nil {
		return nil, lookupError(err, "healthcare worker")
	}
	return &worker, nil
}

// Create validates the input and stores a new worker.
func (s *WorkerService) Create(ctx context.Context, input WorkerInput) (*models.HealthcareWorker, error) {
	c := workerCandidate{input: input}
	if err := s.validate(ctx, &c, 0); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(&c.worker).Error; err != nil {
		return nil, workerWriteError("create healthcare worker", err)
	}
	return &c.worker, nil
}

// Update applies input to an existing worker. With partial set only the supplied
// fields are validated and changed; otherwise every required field must be present.
func (s *WorkerService) Update(ctx context.Context, id uint, input WorkerInput, partial bool) (*models.HealthcareWorker, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c := workerCandidate{input: input, partial: partial, worker: *existing}
	if err := s.validate(ctx, &c, id); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(&c.worker).Error; err != nil {
		return nil, workerWriteError("update healthcare worker", err)
	}
	return &c.worker, nil
}

// Delete removes a worker unless a consultation still references it.
func (s *WorkerService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var worker models.HealthcareWorker
		// The row lock serialises this check with consultation bookings for the worker.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&worker, id).Error; err != nil {
			return lookupError(err, "healthcare worker")
		}

		var count int64
		if err := tx.Model(&models.MedicalConsultation{}).Where("healthcare_worker_id = ?", id).Count(&count).Error; err != nil {
			return apperr.Internal("count consultations", err)
		}
		if count > 0 {
			return apperr.Conflict("", protectedMessage(id, count))
		}

		if err := tx.Delete(&worker).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperr.Conflict("", protectedMessage(id, 1))
			}
			return apperr.Internal("delete healthcare worker", err)
		}
		return nil
	})
}

func (s *WorkerService) validate(ctx context.Context, c *workerCandidate, selfID uint) error {
	errs := validation.Run(c, workerRules)

	if c.worker.Email != nil && !errs.Has("email") {
		var count int64
		query := s.DB.WithContext(ctx).Model(&models.HealthcareWorker{}).Where("email = ?", *c.worker.Email)
		if selfID != 0 {
			query = query.Where("id <> ?", selfID)
		}
		if err := query.Count(&count).Error; err != nil {
			return apperr.Internal("check email uniqueness", err)
		}
		if count > 0 {
			errs.Add("email", msgEmailTaken)
		}
	}

	if !errs.Empty() {
		return apperr.Validation(errs)
	}
	return nil
}

func protectedMessage(id uint, count int64) string {
	return fmt.Sprintf("cannot delete healthcare worker %d: it is referenced by %d consultation(s)", id, count)
}

// workerWriteError maps a lost email race onto the same validation error as the pre-check.
func workerWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation(validation.Errors{"email": {msgEmailTaken}})
	}
	return apperr.Internal(op, err)
}

func lookupError(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Internal("load "+resource, err)
}
