package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Block status enum constants
const (
	BlockStatusActive   = "active"
	BlockStatusInactive = "inactive"
)

// Block is a subdivided work unit within a pit, the grain at which claims
// and surveys are measured. The same block may appear in many claims across
// different periods.
type Block struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PitID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"pit_id"`
	Pit         *Pit             `gorm:"foreignKey:PitID" json:"pit,omitempty"`
	Name        string           `gorm:"type:varchar(50);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Volume      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"volume"`
	Status      string           `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
