package database

import (
	"log"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Site{},
		&model.SiteCoordinate{},
		&model.Pit{},
		&model.PitCoordinate{},
		&model.Block{},
		&model.Threshold{},
		&model.Claim{},
		&model.ClaimBlock{},
		&model.SurveyorClaim{},
		&model.SurveyorClaimBlock{},
		&model.ClaimSignature{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// SeedAdmin inserts a default admin principal when none exists, so a fresh
// database is usable. Token issuance lives outside this service; seeded
// credentials only matter for local setups.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     model.RoleAdmin,
		Status:   model.UserStatusActive,
	}
	return db.Create(&admin).Error
}
