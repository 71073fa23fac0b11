// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cuentasgo/backoffice/internal/config"
	"github.com/cuentasgo/backoffice/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode)

	// Connect to database
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// gen_random_uuid, the id column default, lives in pgcrypto.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.Purchase{},
		&models.StockAccount{},
		&models.WalletBalance{},
		&models.CommissionConfig{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Purchase indexes
		"CREATE INDEX IF NOT EXISTS idx_purchases_seller_status ON purchases(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_purchases_status ON purchases(status)",
		"CREATE INDEX IF NOT EXISTS idx_purchases_created_at ON purchases(created_at DESC)",

		// Stock account indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_accounts_seller ON stock_accounts(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_accounts_expiration ON stock_accounts(expiration_date)",
		"CREATE INDEX IF NOT EXISTS idx_stock_accounts_service_status ON stock_accounts(service_name, status)",

		// Commission config: newest-first resolution scans
		"CREATE INDEX IF NOT EXISTS idx_commission_configs_created ON commission_configs(created_at DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData inserts the first commission snapshot when the table is
// empty, so point-in-time resolution always has a floor to fall back to.
func SeedInitialData(db *gorm.DB, cfg config.CommissionConfig) error {
	var count int64
	if err := db.Model(&models.CommissionConfig{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count commission configs: %w", err)
	}
	if count > 0 {
		return nil
	}

	snapshot := &models.CommissionConfig{
		PublicationFee:    cfg.DefaultPublicationFee,
		WithdrawalPercent: cfg.DefaultWithdrawalPercent,
	}

	if err := db.Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to seed commission config: %w", err)
	}

	log.Println("Seeded initial commission configuration")
	return nil
}
