package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BaseModel contains common columns for tables keyed by UUID
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
	Debug  bool
}

// Dialector picks the GORM dialector for the configured driver.
func Dialector(config DatabaseConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case "", "mysql":
		return mysql.Open(config.DSN), nil
	case "postgres":
		return postgres.Open(config.DSN), nil
	case "sqlite":
		return sqlite.Open(config.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// Now is the clock used for created_at and updated_at. MySQL keeps datetime(3), so
// timestamps are cut to milliseconds before they are written or returned.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// InitDB opens the database connection. Schema changes are applied separately by Migrate.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(config)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		// Driver errors become gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
		TranslateError: true,
		NowFunc:        Now,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if config.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", config.Driver, err)
	}
	return db, nil
}

// Migrate creates or updates every table owned by the application.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&HealthcareWorker{},
		&MedicalConsultation{},
	)
}
