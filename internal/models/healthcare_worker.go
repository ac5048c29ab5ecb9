package models

import (
	"encoding/json"
	"time"
)

// HealthcareWorker is a healthcare professional profile.
type HealthcareWorker struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:60;not null" json:"name"`
	PreferredName *string   `gorm:"size:100" json:"preferred_name"`
	Profession    string    `gorm:"size:50;not null" json:"profession"`
	Address       string    `gorm:"size:120;not null" json:"address"`
	Phone         string    `gorm:"size:15;not null" json:"phone"`
	Email         *string   `gorm:"size:100;uniqueIndex" json:"email"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DisplayName returns the preferred name when one is set.
func (w HealthcareWorker) DisplayName() string {
	if w.PreferredName != nil && *w.PreferredName != "" {
		return *w.PreferredName
	}
	return w.Name
}

func (w HealthcareWorker) MarshalJSON() ([]byte, error) {
	type plain HealthcareWorker
	return json.Marshal(struct {
		plain
		DisplayName string `json:"display_name"`
	}{plain(w), w.DisplayName()})
}
