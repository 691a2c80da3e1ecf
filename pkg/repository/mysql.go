package repository

import (
	"fmt"

	"github.com/example/posbridge/pkg/config"
	"github.com/example/posbridge/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenMySQL connects the local store used for the catalog mirror and the
// finalized-order journal.
func OpenMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Variation{},
		&models.Optional{},
		&models.Category{},
		&models.DiningTable{},
		&models.PaymentMethod{},
		&models.OrderRecord{},
		&models.OrderRecordItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// OrderJournal persists what this terminal submitted.
type OrderJournal struct {
	db *gorm.DB
}

func NewOrderJournal(db *gorm.DB) *OrderJournal {
	return &OrderJournal{db: db}
}

func (j *OrderJournal) Append(rec *models.OrderRecord) error {
	if err := j.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to journal order: %w", err)
	}
	return nil
}

func (j *OrderJournal) Recent(tenant string, limit int) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := j.db.Preload("Items").
		Where("tenant = ?", tenant).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read order journal: %w", err)
	}
	return records, nil
}
