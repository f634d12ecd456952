package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Threshold is the configured maximum acceptable deviation (in BCM) between
// contractor and surveyor totals for automatic approval. At most one row is
// active at any time; the reconciliation engine reads the active limit at
// adjudication time.
type Threshold struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	LimitValue  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"limit_value"`
	Description string          `gorm:"type:text" json:"description"`
	Active      bool            `gorm:"not null;default:false;index" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
