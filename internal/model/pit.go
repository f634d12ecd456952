package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pit is a working area inside a site, itself a 4-6 point UTM polygon.
type Pit struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SiteID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"site_id"`
	Site             *Site           `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	NoPit            string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"no_pit"`
	Name             string          `gorm:"type:varchar(50);not null" json:"name"`
	Description      string          `gorm:"type:text" json:"description"`
	CoordinateSystem string          `gorm:"type:varchar(20);not null;default:'UTM'" json:"coordinate_system"`
	UtmZone          string          `gorm:"type:varchar(10);not null" json:"utm_zone"`
	Datum            string          `gorm:"type:varchar(20);not null;default:'WGS84'" json:"datum"`
	Active           bool            `gorm:"column:status_aktif;not null;default:true" json:"active"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	UpdatedBy        *uuid.UUID      `gorm:"type:uuid" json:"updated_by"`
	Coordinates      []PitCoordinate `gorm:"foreignKey:PitID;constraint:OnDelete:CASCADE" json:"coordinates,omitempty"`
	Blocks           []Block         `gorm:"foreignKey:PitID;constraint:OnDelete:CASCADE" json:"blocks,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PitCoordinate is one ordered UTM vertex of a pit polygon.
type PitCoordinate struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PitID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"pit_id"`
	PointOrder int              `gorm:"not null" json:"point_order"`
	PointCode  string           `gorm:"type:varchar(20)" json:"point_code"`
	Easting    decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"easting"`
	Northing   decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"northing"`
	Elevation  *decimal.Decimal `gorm:"type:decimal(8,3)" json:"elevation"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
