package db

import (
	"fmt"
	"time"

	"softdesk-go/internal/config"
	"softdesk-go/internal/domain/identity"
	"softdesk-go/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the bootstrap superuser when admin credentials are configured
// and no superuser exists yet. Safe to run on every start.
func Seed(db *gorm.DB, cfg config.SeedConfig, log logger.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&identity.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("count superusers: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := identity.User{
		ID:                     uuid.NewString(),
		Username:               cfg.AdminUsername,
		Email:                  cfg.AdminEmail,
		PasswordHash:           string(hash),
		Birthdate:              time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		CanBeContacted:         true,
		CanDataBeShared:        true,
		CanProfileViewable:     true,
		CanContributeToProject: true,
		HasParentalApprovement: true,
		IsSuperuser:            true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("db: bootstrap superuser created", "username", admin.Username)
	return nil
}
