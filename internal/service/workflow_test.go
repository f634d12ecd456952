package service

import (
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidDecision(t *testing.T) {
	tests := []struct {
		stage  string
		status string
		want   bool
	}{
		{StageManagerial, model.ClaimStatusApprovedManagerial, true},
		{StageManagerial, model.ClaimStatusRejectedManagerial, true},
		{StageManagerial, model.ClaimStatusApprovedFinance, false},
		{StageManagerial, model.ClaimStatusAutoApproved, false},
		{StageFinance, model.ClaimStatusApprovedFinance, true},
		{StageFinance, model.ClaimStatusRejectedFinance, true},
		{StageFinance, model.ClaimStatusRejectedManagerial, false},
		{StageFinance, model.ClaimStatusSubmitted, false},
		{"unknown", model.ClaimStatusApprovedManagerial, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidDecision(tt.stage, tt.status), "stage=%s status=%s", tt.stage, tt.status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.ClaimStatusApprovedFinance))
	assert.True(t, IsTerminal(model.ClaimStatusRejectedFinance))
	assert.False(t, IsTerminal(model.ClaimStatusApprovedManagerial))
	assert.False(t, IsTerminal(model.ClaimStatusRejectedSystem))
	assert.False(t, IsTerminal(model.ClaimStatusSubmitted))
	assert.False(t, IsTerminal(model.ClaimStatusDraft))
}
