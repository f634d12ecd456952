package service

import (
	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/shopspring/decimal"
)

// ReconciliationResult captures one adjudication outcome for auditability.
type ReconciliationResult struct {
	SurveyorTotal   decimal.Decimal  `json:"surveyor_total"`
	ContractorTotal decimal.Decimal  `json:"contractor_total"`
	Deviation       decimal.Decimal  `json:"deviation"`
	ThresholdLimit  *decimal.Decimal `json:"threshold_limit"`
	Status          string           `json:"status"`
}

// Adjudicate compares validated surveyor volume against the contractor's
// claimed volume. A deviation within the active threshold's limit accepts the
// claim automatically; anything beyond it, or the absence of an active
// threshold, rejects it. The boundary case (deviation equal to the limit)
// accepts.
func Adjudicate(surveyorTotal, contractorTotal decimal.Decimal, threshold *model.Threshold) ReconciliationResult {
	res := ReconciliationResult{
		SurveyorTotal:   surveyorTotal,
		ContractorTotal: contractorTotal,
		Deviation:       surveyorTotal.Sub(contractorTotal).Abs(),
	}
	if threshold == nil {
		res.Status = model.ClaimStatusRejectedSystem
		return res
	}
	limit := threshold.LimitValue
	res.ThresholdLimit = &limit
	if res.Deviation.LessThanOrEqual(limit) {
		res.Status = model.ClaimStatusAutoApproved
	} else {
		res.Status = model.ClaimStatusRejectedSystem
	}
	return res
}

// SurveyedContractorTotal sums the contractor BCM of only the claim blocks
// the survey measured. A survey covering part of a claim is compared against
// that part, not the whole claim total.
func SurveyedContractorTotal(survey model.SurveyorClaim) decimal.Decimal {
	total := decimal.Zero
	for _, b := range survey.Blocks {
		if b.ClaimBlock != nil {
			total = total.Add(b.ClaimBlock.Bcm)
		}
	}
	return total
}

// BlockComparison is the per-block view reviewers see when weighing a
// managerial or finance decision.
type BlockComparison struct {
	BlockID       string           `json:"block_id"`
	BlockName     string           `json:"block_name"`
	ContractorBcm decimal.Decimal  `json:"contractor_bcm"`
	SurveyorBcm   decimal.Decimal  `json:"surveyor_bcm"`
	Deviation     decimal.Decimal  `json:"deviation"`
	DeviationPct  *decimal.Decimal `json:"deviation_pct"`
	WithinLimit   bool             `json:"within_threshold"`
}

// CompareBlock computes the signed deviation of a surveyor measurement from
// the contractor's figure. The percentage is nil when the contractor claimed
// zero volume, since the ratio is undefined there.
func CompareBlock(contractorBcm, surveyorBcm decimal.Decimal, threshold *model.Threshold) (deviation decimal.Decimal, pct *decimal.Decimal, within bool) {
	deviation = surveyorBcm.Sub(contractorBcm)
	if !contractorBcm.IsZero() {
		p := deviation.Div(contractorBcm).Mul(decimal.NewFromInt(100)).Round(2)
		pct = &p
	}
	if threshold != nil {
		within = deviation.Abs().LessThanOrEqual(threshold.LimitValue)
	}
	return deviation, pct, within
}
