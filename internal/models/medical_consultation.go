package models

import (
	"encoding/json"
	"time"
)

// MedicalConsultation is a patient appointment booked with one healthcare worker.
// The composite unique index forbids double-booking a worker at the same instant.
type MedicalConsultation struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	PatientName          string    `gorm:"size:80;not null" json:"patient_name"`
	PatientPreferredName *string   `gorm:"size:100" json:"patient_preferred_name"`
	Age                  uint      `gorm:"not null" json:"age"`
	HealthcareWorkerID   uint      `gorm:"not null;uniqueIndex:idx_worker_slot,priority:1" json:"healthcare_worker"`
	ConsultationDate     time.Time `gorm:"not null;index;uniqueIndex:idx_worker_slot,priority:2" json:"consultation_date"`
	PatientPhone         *string   `gorm:"size:15" json:"patient_phone"`
	PatientEmail         *string   `gorm:"size:100" json:"patient_email"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Deleting a worker with consultations is refused by the database as well.
	HealthcareWorker *HealthcareWorker `gorm:"foreignKey:HealthcareWorkerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// DisplayName returns the patient's preferred name when one is set.
func (m MedicalConsultation) DisplayName() string {
	if m.PatientPreferredName != nil && *m.PatientPreferredName != "" {
		return *m.PatientPreferredName
	}
	return m.PatientName
}

func (m MedicalConsultation) MarshalJSON() ([]byte, error) {
	type plain MedicalConsultation
	return json.Marshal(struct {
		plain
		DisplayName string `json:"display_name"`
	}{plain(m), m.DisplayName()})
}
