package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinical-records-server/internal/apperr"
	"clinical-records-server/internal/models"
	"clinical-records-server/internal/validation"
)

// ConsultationInput is the create/update payload for a medical consultation.
type ConsultationInput struct {
	PatientName          validation.Optional[string] `json:"patient_name"`
	PatientPreferredName validation.Optional[string] `json:"patient_preferred_name"`
	Age                  validation.Optional[int64]  `json:"age"`
	HealthcareWorker     validation.Optional[int64]  `json:"healthcare_worker"`
	ConsultationDate     validation.Optional[string] `json:"consultation_date"`
	PatientPhone         validation.Optional[string] `json:"patient_phone"`
	PatientEmail         validation.Optional[string] `json:"patient_email"`
}

// ISO 8601 forms that carry their own offset, beyond RFC 3339.
var offsetLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z0700",
}

// Timestamps without an offset are read in the business location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// maxPatientAge is the range of the age column.
const maxPatientAge = math.MaxInt32

const (
	msgDoubleBooked  = "this healthcare worker already has a consultation booked at this time"
	msgNoContact     = "provide at least one contact channel: patient_phone or patient_email"
	msgWorkerMissing = "invalid pk \"%d\" - object does not exist"
)

var (
	errBadTimestamp = errors.New("invalid datetime format, use ISO 8601 such as 2026-01-31T14:30:00-03:00")
	errBadWorkerID  = errors.New("invalid healthcare worker id")
)

type consultationCandidate struct {
	input   ConsultationInput
	partial bool
	now     time.Time
	hours   BusinessHours
	record  models.MedicalConsultation
}

var consultationRules = []validation.Rule[consultationCandidate]{
	{Field: "patient_name", Check: func(c *consultationCandidate) error {
		var name string
		if c.partial && !c.input.PatientName.Set {
			return nil
		}
		if err := requiredText(c.input.PatientName, false, 2, 80, &name); err != nil {
			return err
		}
		if err := validation.LettersAndSpaces(name); err != nil {
			return err
		}
		c.record.PatientName = name
		return nil
	}},
	{Field: "patient_preferred_name", Check: func(c *consultationCandidate) error {
		return optionalText(c.input.PatientPreferredName, 100, &c.record.PatientPreferredName)
	}},
	{Field: "age", Check: func(c *consultationCandidate) error {
		age := int64(c.record.Age)
		if err := requiredInt(c.input.Age, c.partial, 0, maxPatientAge, &age); err != nil {
			return err
		}
		c.record.Age = uint(age)
		return nil
	}},
	{Field: "healthcare_worker", Check: func(c *consultationCandidate) error {
		id := int64(c.record.HealthcareWorkerID)
		if err := requiredInt(c.input.HealthcareWorker, c.partial, 1, 1<<53, &id); err != nil {
			if c.input.HealthcareWorker.Present() {
				return errBadWorkerID
			}
			return err
		}
		c.record.HealthcareWorkerID = uint(id)
		return nil
	}},
	{Field: "consultation_date", Check: func(c *consultationCandidate) error {
		if c.partial && !c.input.ConsultationDate.Set {
			return nil
		}
		if err := validation.Required(c.input.ConsultationDate); err != nil {
			return err
		}
		at, err := parseTimestamp(c.input.ConsultationDate.Value, c.hours.Location)
		if err != nil {
			return err
		}
		if at.Before(c.now) {
			return errPastDate
		}
		c.record.ConsultationDate = at
		return nil
	}},
	{Field: "patient_phone", Check: func(c *consultationCandidate) error {
		return optionalPhone(c.input.PatientPhone, &c.record.PatientPhone)
	}},
	{Field: "patient_email", Check: func(c *consultationCandidate) error {
		return optionalEmail(c.input.PatientEmail, &c.record.PatientEmail)
	}},
	// The remaining rules look at the merged record.
	{Field: "consultation_date", Check: func(c *consultationCandidate) error {
		if c.record.ConsultationDate.IsZero() || c.hours.Contains(c.record.ConsultationDate) {
			return nil
		}
		return fmt.Errorf("consultations must start between %s", c.hours)
	}},
	{Field: validation.NonFieldErrors, Check: func(c *consultationCandidate) error {
		named := c.record.PatientName != "" || c.input.PatientName.Present()
		if named && c.record.PatientPhone == nil && c.record.PatientEmail == nil {
			return errors.New(msgNoContact)
		}
		return nil
	}},
}

// parseTimestamp accepts ISO 8601 with an offset or a naive timestamp in loc, and
// returns UTC truncated to the second.
func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC().Truncate(time.Second), nil
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, errBadTimestamp
}

// ConsultationService owns medical consultation records.
type ConsultationService struct {
	DB    *gorm.DB
	Hours BusinessHours
	Now   func() time.Time
}

// NewConsultationService creates a new ConsultationService.
func NewConsultationService(db *gorm.DB, hours BusinessHours) *ConsultationService {
	return &ConsultationService{DB: db, Hours: hours, Now: time.Now}
}

// List returns consultations, latest first, optionally filtered by the referenced
// worker's id, name or preferred name.
func (s *ConsultationService) List(ctx context.Context, search string) ([]models.MedicalConsultation, error) {
	consultations := []models.MedicalConsultation{}
	term, ok := NormalizeSearch(search)
	if !ok {
		return consultations, nil
	}

	query := s.DB.WithContext(ctx).Model(&models.MedicalConsultation{}).
		Order("medical_consultations.consultation_date DESC").
		Order("medical_consultations.id DESC")
	if term != "" {
		if id, isID := searchID(term); isID {
			query = query.Where("medical_consultations.healthcare_worker_id = ?", id)
		} else {
			pattern := likePattern(term)
			query = query.
				Joins("JOIN healthcare_workers ON healthcare_workers.id = medical_consultations.healthcare_worker_id").
				Where("(LOWER(healthcare_workers.name) LIKE ? ESCAPE '!' OR LOWER(healthcare_workers.preferred_name) LIKE ? ESCAPE '!')", pattern, pattern)
		}
	}

	if err := query.Find(&consultations).Error; err != nil {
		return nil, apperr.Internal("list consultations", err)
	}
	return consultations, nil
}

// Get returns one consultation.
func (s *ConsultationService) Get(ctx context.Context, id uint) (*models.MedicalConsultation, error) {
	var consultation models.MedicalConsultation
	if err := s.DB.WithContext(ctx).First(&consultation, id).Error; err != nil {
		return nil, lookupError(err, "consultation")
	}
	return &consultation, nil
}

// Create validates the input and books a new consultation.
func (s *ConsultationService) Create(ctx context.Context, input ConsultationInput) (*models.MedicalConsultation, error) {
	return s.save(ctx, 0, input, false)
}

// Update applies input to an existing consultation and re-checks the merged record.
func (s *ConsultationService) Update(ctx context.Context, id uint, input ConsultationInput, partial bool) (*models.MedicalConsultation, error) {
	return s.save(ctx, id, input, partial)
}

// Delete removes a consultation.
func (s *ConsultationService) Delete(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.MedicalConsultation{}, id)
	if result.Error != nil {
		return apperr.Internal("delete consultation", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("consultation")
	}
	return nil
}

// save runs validation, the worker lookup, the double-booking check and the write in
// one transaction. The worker row stays locked until commit, so two bookings for the
// same worker cannot both pass the check; the unique index catches anything else.
func (s *ConsultationService) save(ctx context.Context, id uint, input ConsultationInput, partial bool) (*models.MedicalConsultation, error) {
	var saved models.MedicalConsultation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := consultationCandidate{input: input, partial: partial, now: s.Now(), hours: s.Hours}
		if id != 0 {
			if err := tx.First(&c.record, id).Error; err != nil {
				return lookupError(err, "consultation")
			}
		}

		errs := validation.Run(&c, consultationRules)

		if !errs.Has("healthcare_worker") {
			var worker models.HealthcareWorker
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&worker, c.record.HealthcareWorkerID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				errs.Add("healthcare_worker", fmt.Sprintf(msgWorkerMissing, c.record.HealthcareWorkerID))
			case err != nil:
				return apperr.Internal("lock healthcare worker", err)
			}
		}
		if !errs.Empty() {
			return apperr.Validation(errs)
		}

		var clashes int64
		query := tx.Model(&models.MedicalConsultation{}).
			Where("healthcare_worker_id = ? AND consultation_date = ?", c.record.HealthcareWorkerID, c.record.ConsultationDate)
		if id != 0 {
			query = query.Where("id <> ?", id)
		}
		if err := query.Count(&clashes).Error; err != nil {
			return apperr.Internal("check double booking", err)
		}
		if clashes > 0 {
			return apperr.Conflict(validation.NonFieldErrors, msgDoubleBooked)
		}

		write := tx.Create
		if id != 0 {
			write = tx.Save
		}
		if err := write(&c.record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(validation.NonFieldErrors, msgDoubleBooked)
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperr.Validation(validation.Errors{
					"healthcare_worker": {fmt.Sprintf(msgWorkerMissing, c.record.HealthcareWorkerID)},
				})
			}
			return apperr.Internal("save consultation", err)
		}
		saved = c.record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
