package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants, the closed set of principal roles.
const (
	RoleAdmin      = "admin"
	RoleContractor = "contractor"
	RoleSurveyor   = "surveyor"
	RoleManagerial = "managerial"
	RoleFinance    = "finance"
	RoleOwner      = "owner"
)

// UserStatus enum constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is the principal entity. Authentication (token issuance, credential
// checks) happens outside this service; claims, surveys and signatures only
// reference users by id and role.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:varchar(50);not null;index" json:"role"`
	Status    string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleContractor, RoleSurveyor, RoleManagerial, RoleFinance, RoleOwner:
		return true
	}
	return false
}
