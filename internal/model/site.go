package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Site is the outermost geographic container, defined by a 4-6 point UTM
// polygon. The polygon geometry lives in the `area` column and is written and
// measured entirely by spatial SQL; Go code never interprets it.
type Site struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NoSite           string           `gorm:"type:varchar(150);uniqueIndex;not null" json:"no_site"`
	Name             string           `gorm:"type:varchar(100);not null" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	CoordinateSystem string           `gorm:"type:varchar(20);not null;default:'UTM'" json:"coordinate_system"`
	UtmZone          string           `gorm:"type:varchar(10);not null" json:"utm_zone"` // e.g. "50S"
	Datum            string           `gorm:"type:varchar(20);not null;default:'WGS84'" json:"datum"`
	CreatedBy        *uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	UpdatedBy        *uuid.UUID       `gorm:"type:uuid" json:"updated_by"`
	Coordinates      []SiteCoordinate `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"coordinates,omitempty"`
	Pits             []Pit            `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"pits,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SiteCoordinate is one ordered UTM vertex of a site polygon.
type SiteCoordinate struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SiteID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"site_id"`
	PointOrder int              `gorm:"not null" json:"point_order"`
	PointCode  string           `gorm:"type:varchar(20)" json:"point_code"`
	Easting    decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"easting"`
	Northing   decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"northing"`
	Elevation  *decimal.Decimal `gorm:"type:decimal(8,3)" json:"elevation"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
