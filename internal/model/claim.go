package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Claim status enum constants covering the full approval workflow:
// draft, submitted, auto_approved/rejected_system after reconciliation,
// then the managerial and finance decision pairs.
const (
	ClaimStatusDraft              = "draft"
	ClaimStatusSubmitted          = "submitted"
	ClaimStatusAutoApproved       = "auto_approved"
	ClaimStatusRejectedSystem     = "rejected_system"
	ClaimStatusApprovedManagerial = "approved_managerial"
	ClaimStatusRejectedManagerial = "rejected_managerial"
	ClaimStatusApprovedFinance    = "approved_finance"
	ClaimStatusRejectedFinance    = "rejected_finance"
)

// Claim is a contractor's assertion of excavated volume (BCM) and value for a
// period, per pit. Totals are derived from the owned blocks and recomputed on
// every block mutation, never hand-set.
type Claim struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimNumber  string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"claim_number"`
	PtName       string          `gorm:"column:pt;type:varchar(100);not null" json:"pt_name"`
	ContractorID uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractor_id"`
	Contractor   *User           `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	SiteID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"site_id"`
	Site         *Site           `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	PitID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"pit_id"`
	Pit          *Pit            `gorm:"foreignKey:PitID" json:"pit,omitempty"`
	PeriodMonth  int             `gorm:"type:smallint;not null" json:"period_month"`
	PeriodYear   int             `gorm:"not null" json:"period_year"`
	JobType      string          `gorm:"type:varchar(50);not null" json:"job_type"`
	Status       string          `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	TotalBcm     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_bcm"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Blocks       []ClaimBlock    `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"blocks,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ClaimBlock is one contractor-reported line item: the BCM and value claimed
// for a single geographic block, with an optional attachment and material list.
type ClaimBlock struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"claim_id"`
	BlockID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"block_id"`
	Block     *Block          `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Bcm       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"bcm"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Date      *time.Time      `gorm:"type:date" json:"date"`
	Note      string          `gorm:"type:text" json:"note"`
	Materials datatypes.JSON  `gorm:"type:jsonb" json:"materials"` // [{"material_name": "..."}]
	FilePath  string          `gorm:"type:varchar(255)" json:"file_path"`
	FileType  string          `gorm:"type:varchar(20)" json:"file_type"`

	// SurveyorBlock is the counter-measurement, when one exists. A claim
	// block with no surveyor block is "not yet surveyed".
	SurveyorBlock *SurveyorClaimBlock `gorm:"foreignKey:ClaimBlockID" json:"surveyor_block,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Material is one entry of a block's material list.
type Material struct {
	MaterialName string `json:"material_name"`
}
