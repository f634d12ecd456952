package service

import (
	"github.com/Putra-pkwl03/claim-app/internal/model"
)

// Review stages of the approval chain. The system stage is automatic; the
// managerial and finance stages are human overrides applied in that order.
const (
	StageManagerial = "managerial"
	StageFinance    = "finance"
)

// managerial and finance each own a fixed pair of decision statuses.
var stageDecisions = map[string]map[string]bool{
	StageManagerial: {
		model.ClaimStatusApprovedManagerial: true,
		model.ClaimStatusRejectedManagerial: true,
	},
	StageFinance: {
		model.ClaimStatusApprovedFinance: true,
		model.ClaimStatusRejectedFinance: true,
	},
}

// ValidDecision reports whether status is a legal decision for the given
// review stage. A reviewer may override in either direction regardless of the
// claim's current status; only the decision value itself is constrained.
func ValidDecision(stage, status string) bool {
	return stageDecisions[stage][status]
}

// IsTerminal reports whether a claim status ends the workflow. Finance
// decisions are final; every earlier status can still be overridden.
func IsTerminal(status string) bool {
	return status == model.ClaimStatusApprovedFinance || status == model.ClaimStatusRejectedFinance
}
