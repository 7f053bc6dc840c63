package repository

import (
	"fmt"

	"tender-backend/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// New подключается к PostgreSQL и мигрирует схему
func New(dsn string) (*Repository, error) {
	return NewWithDialector(postgres.Open(dsn))
}

// NewWithDialector позволяет подменить драйвер (sqlite в тестах)
func NewWithDialector(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&ds.User{},
		&ds.CompanyProfile{},
		&ds.Tender{},
		&ds.Bid{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}
