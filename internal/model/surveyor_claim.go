package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SurveyorClaim status enum constants
const (
	SurveyorClaimStatusSubmitted = "submitted"
	SurveyorClaimStatusValidated = "validated"
)

// SurveyorClaim is an independent surveyor's counter-measurement of a
// contractor Claim. The contractor linkage is fixed at creation. A claim may
// accumulate several surveys over time; reconciliation and signature lookups
// use the most recent by creation time.
type SurveyorClaim struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"claim_id"`
	Claim       *Claim               `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`
	ClaimNumber string               `gorm:"type:varchar(100);not null" json:"claim_number"`
	PtName      string               `gorm:"column:pt;type:varchar(100)" json:"pt_name"`
	SurveyorID  uuid.UUID            `gorm:"type:uuid;not null;index" json:"surveyor_id"`
	Surveyor    *User                `gorm:"foreignKey:SurveyorID" json:"surveyor,omitempty"`
	SiteID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"site_id"`
	Site        *Site                `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	PitID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"pit_id"`
	Pit         *Pit                 `gorm:"foreignKey:PitID" json:"pit,omitempty"`
	PeriodMonth int                  `gorm:"type:smallint;not null" json:"period_month"`
	PeriodYear  int                  `gorm:"not null" json:"period_year"`
	JobType     string               `gorm:"type:varchar(50);not null" json:"job_type"`
	Status      string               `gorm:"type:varchar(30);not null;default:'submitted'" json:"status"`
	TotalBcm    decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"total_bcm"`
	TotalAmount decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Blocks      []SurveyorClaimBlock `gorm:"foreignKey:SurveyorClaimID;constraint:OnDelete:CASCADE" json:"blocks,omitempty"`
	Signatures  []ClaimSignature     `gorm:"foreignKey:ClaimID" json:"signatures,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// SurveyorClaimBlock is one surveyor measurement, tied 1:1 to the contractor
// ClaimBlock it re-measures.
type SurveyorClaimBlock struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SurveyorClaimID uuid.UUID       `gorm:"type:uuid;not null;index" json:"surveyor_claim_id"`
	ClaimBlockID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"claim_block_id"`
	ClaimBlock      *ClaimBlock     `gorm:"foreignKey:ClaimBlockID" json:"claim_block,omitempty"`
	BlockID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"block_id"`
	Block           *Block          `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Bcm             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"bcm"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Date            *time.Time      `gorm:"type:date" json:"date"`
	Note            string          `gorm:"type:text" json:"note"`
	Materials       datatypes.JSON  `gorm:"type:jsonb" json:"materials"`
	FilePath        string          `gorm:"type:varchar(255)" json:"file_path"`
	FileType        string          `gorm:"type:varchar(20)" json:"file_type"`
	IsSurveyed      bool            `gorm:"not null;default:false" json:"is_surveyed"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
