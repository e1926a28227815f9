package config

import (
	"fmt"
	"membership/domain"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootDB initializes the database connection and runs migrations.
func BootDB() (*gorm.DB, error) {
	url := GetDatabaseURL()
	var err error

	db, err = gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the models
	if err := autoMigrate(db); err != nil {
		return db, err
	}

	fmt.Println("DB initialized")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	// Pastikan ENUM sudah dibuat sebelum digunakan
	if err := db.Exec(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'gender_enum') THEN
			CREATE TYPE gender_enum AS ENUM ('Male', 'Female');
		END IF;
	END $$`).Error; err != nil {
		return fmt.Errorf("failed to create gender ENUM: %w", err)
	}

	if err := db.Exec(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'approval_enum') THEN
			CREATE TYPE approval_enum AS ENUM ('Pending', 'Approved', 'Rejected');
		END IF;
	END $$`).Error; err != nil {
		return fmt.Errorf("failed to create approval ENUM: %w", err)
	}

	if err := db.Exec(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'role_enum') THEN
			CREATE TYPE role_enum AS ENUM ('admin', 'staff');
		END IF;
	END $$`).Error; err != nil {
		return fmt.Errorf("failed to create role ENUM: %w", err)
	}

	// Migrasi tabel yang tidak memiliki foreign key lebih dulu
	if err := db.AutoMigrate(
		&domain.Religion{},
		&domain.Province{},
		&domain.Regency{},
		&domain.District{},
		&domain.Job{},
		&domain.Education{},
		&domain.EmployeeStatus{},
		&domain.TeachingLevel{},
		&domain.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	// Migrasi tabel yang memiliki foreign key
	if err := db.AutoMigrate(
		&domain.Member{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	if err := seedReferenceData(db); err != nil {
		return err
	}

	return seedAdmin(db)
}

// seedReferenceData fills the lookup tables on first boot so a fresh install
// can register members immediately.
func seedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.TeachingLevel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check teaching levels: %w", err)
	}
	if count > 0 {
		return nil
	}

	fmt.Println("Seeding reference data....")

	religions := []domain.Religion{
		{Name: "Islam"}, {Name: "Kristen"}, {Name: "Katolik"},
		{Name: "Hindu"}, {Name: "Buddha"}, {Name: "Konghucu"},
	}
	if err := db.Create(&religions).Error; err != nil {
		return fmt.Errorf("failed to seed religions: %w", err)
	}

	levels := []domain.TeachingLevel{
		{Name: "TK/PAUD"}, {Name: "SD/MI"}, {Name: "SMP/MTs"},
		{Name: "SMA/MA"}, {Name: "SMK"}, {Name: "SLB"}, {Name: "Perguruan Tinggi"},
	}
	if err := db.Create(&levels).Error; err != nil {
		return fmt.Errorf("failed to seed teaching levels: %w", err)
	}

	jobs := []domain.Job{
		{Name: "Guru"}, {Name: "Kepala Sekolah"}, {Name: "Dosen"},
		{Name: "Pengawas Sekolah"}, {Name: "Tenaga Kependidikan"},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return fmt.Errorf("failed to seed jobs: %w", err)
	}

	educations := []domain.Education{
		{Name: "SMA/Sederajat"}, {Name: "D3"}, {Name: "S1"}, {Name: "S2"}, {Name: "S3"},
	}
	if err := db.Create(&educations).Error; err != nil {
		return fmt.Errorf("failed to seed educations: %w", err)
	}

	statuses := []domain.EmployeeStatus{
		{Name: "PNS"}, {Name: "PPPK"}, {Name: "GTY"}, {Name: "Honorer"},
	}
	if err := db.Create(&statuses).Error; err != nil {
		return fmt.Errorf("failed to seed employee statuses: %w", err)
	}

	return nil
}

func seedAdmin(db *gorm.DB) error {
	var existingAdmin domain.User
	err := db.Where("role = 'admin' AND deleted_at IS NULL").First(&existingAdmin).Error
	if err != nil {
		fmt.Println("Creating default admin account....")
		adminUsername := os.Getenv("ADMIN_USERNAME")
		adminName := os.Getenv("ADMIN_NAME")
		adminPassword := os.Getenv("ADMIN_PASSWORD")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("could not hash password: %v", err)
		}

		now := time.Now()
		admin := domain.User{
			Username:  adminUsername,
			Name:      adminName,
			Password:  string(hashedPassword),
			Role:      "admin",
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = db.Create(&admin).Error
		if err != nil {
			return err
		}
		fmt.Println("Admin account created")
	}

	return nil
}
