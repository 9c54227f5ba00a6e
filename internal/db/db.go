package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crmadmin/internal/config"
	"crmadmin/internal/models"
	console "crmadmin/internal/utils/logger"
)

var DB *gorm.DB
var log = console.New("DB")

func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	log.Info("Connecting to database...")
	maxRetries := 5
	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                                   logger.Default.LogMode(logger.Warn),
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
		})
		if err == nil {
			log.Success("Connected to database")

			sqlDB, err := DB.DB()
			if err != nil {
				return log.Error("Failed to get underlying *sql.DB instance", err)
			}

			sqlDB.SetMaxOpenConns(100)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(time.Minute * 30)

			if err := runMigrations(); err != nil {
				return log.Error("Failed to run migrations", err)
			}

			log.Success("Migrations completed")
			return nil
		}
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Second * 5)
	}
	return log.Error("giving up on database connection",
		fmt.Errorf("failed to connect after %d attempts", maxRetries))
}

func runMigrations() error {
	log.Info("Running migrations...")
	tx := DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.AutoMigrate(
		// Access-control tables
		&models.Module{},
		&models.Menu{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},

		// User management
		&models.User{},
		&models.Role{},
		&models.Department{},
		&models.SubDepartment{},
		&models.Designation{},
		&models.Region{},
		&models.BusinessVertical{},
		&models.LoginLog{},
		&models.AuditLog{},

		// Masters
		&models.Country{},
		&models.State{},
		&models.City{},
		&models.Currency{},
		&models.BusinessType{},
		&models.AccountType{},
		&models.AddressType{},
		&models.DocumentType{},
		&models.CompanyType{},
		&models.PartnerType{},
		&models.IndustrySegment{},
		&models.SubIndustrySegment{},
		&models.JobFunction{},
		&models.ProductServiceInterest{},
		&models.HeadOfCompany{},

		// Sales
		&models.Company{},
		&models.CompanyAddress{},
		&models.CompanyTurnover{},
		&models.CompanyProfit{},
		&models.CompanyDocument{},
		&models.Contact{},
	); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
