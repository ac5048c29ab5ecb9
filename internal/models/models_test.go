package models

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestHealthcareWorker_DisplayName(t *testing.T) {
	w := HealthcareWorker{Name: "Dr. João Silva"}
	assert.Equal(t, "Dr. João Silva", w.DisplayName())

	w.PreferredName = strPtr("")
	assert.Equal(t, "Dr. João Silva", w.DisplayName())

	w.PreferredName = strPtr("João")
	assert.Equal(t, "João", w.DisplayName())
}

func TestMedicalConsultation_DisplayName(t *testing.T) {
	m := MedicalConsultation{PatientName: "Maria Souza"}
	assert.Equal(t, "Maria Souza", m.DisplayName())

	m.PatientPreferredName = strPtr("Mari")
	assert.Equal(t, "Mari", m.DisplayName())
}

func TestHealthcareWorker_MarshalJSON(t *testing.T) {
	w := HealthcareWorker{ID: 7, Name: "Dra. Ana", PreferredName: strPtr("Ana"), Phone: "33999190106"}
	raw, err := json.Marshal(w)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "Ana", body["display_name"])
	assert.Equal(t, "33999190106", body["phone"])
	assert.Nil(t, body["email"])
}

func TestMedicalConsultation_MarshalJSON(t *testing.T) {
	m := MedicalConsultation{ID: 3, PatientName: "Carlos", HealthcareWorkerID: 9}
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(9), body["healthcare_worker"])
	assert.Equal(t, "Carlos", body["display_name"])
}

func TestUser_Password(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("djangomaster"))
	assert.NotEqual(t, "djangomaster", u.Password)
	assert.True(t, u.CheckPassword("djangomaster"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestDialector_UnknownDriver(t *testing.T) {
	_, err := Dialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitDB_MillisecondClock(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "clock.db") + "?_foreign_keys=on"
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for i := 0; i < 20; i++ {
		now := db.Config.NowFunc()
		assert.Zero(t, now.Nanosecond()%int(time.Millisecond), now)
		assert.Equal(t, time.UTC, now.Location())
	}

	worker := HealthcareWorker{Name: "Dr. João Silva", Profession: "Clínico Geral", Address: "Rua das Flores, 123", Phone: "33999190106"}
	require.NoError(t, db.Create(&worker).Error)
	assert.Zero(t, worker.CreatedAt.Nanosecond()%int(time.Millisecond))

	var stored HealthcareWorker
	require.NoError(t, db.First(&stored, worker.ID).Error)
	assert.True(t, worker.CreatedAt.Equal(stored.CreatedAt), "%v != %v", worker.CreatedAt, stored.CreatedAt)
}

func TestMigrate_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "models.db") + "?_foreign_keys=on"
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	worker := HealthcareWorker{Name: "Dr. João Silva", Profession: "Clínico Geral", Address: "Rua das Flores, 123", Phone: "33999190106"}
	require.NoError(t, db.Create(&worker).Error)
	assert.NotZero(t, worker.ID)
	assert.False(t, worker.CreatedAt.IsZero())

	at := time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)
	first := MedicalConsultation{PatientName: "Maria", Age: 30, HealthcareWorkerID: worker.ID, ConsultationDate: at}
	require.NoError(t, db.Create(&first).Error)

	second := MedicalConsultation{PatientName: "Pedro", Age: 40, HealthcareWorkerID: worker.ID, ConsultationDate: at}
	assert.Error(t, db.Create(&second).Error, "composite unique index must reject a double booking")

	assert.Error(t, db.Delete(&HealthcareWorker{}, worker.ID).Error, "foreign key must protect referenced worker")

	token := RefreshToken{UserID: 0, Token: "x", ExpiresAt: at}
	user := User{Username: "akeenathon"}
	require.NoError(t, user.SetPassword("djangomaster"))
	require.NoError(t, db.Create(&user).Error)
	token.UserID = user.ID
	require.NoError(t, db.Create(&token).Error)
	assert.Len(t, token.ID, 36)
}
