package model

import (
	"time"

	"github.com/google/uuid"
)

// Signature role enum constants
const (
	SignatureRoleSurveyor   = "surveyor"
	SignatureRoleManagerial = "managerial"
	SignatureRoleFinance    = "finance"
	SignatureRoleContractor = "contractor"
)

// ClaimSignature is an audit artifact: one signature per (survey, user, role),
// upserted on re-sign. ClaimID references the surveyor claim being signed.
// Signatures never influence adjudication.
type ClaimSignature struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClaimID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signature_claim_user_role" json:"claim_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signature_claim_user_role" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_signature_claim_user_role" json:"role"`
	Signature string    `gorm:"type:text" json:"signature"` // base64 payload or storage URL
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
