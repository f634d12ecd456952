package service

import (
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func threshold(limit string) *model.Threshold {
	return &model.Threshold{Name: "ops", LimitValue: dec(limit), Active: true}
}

func TestAdjudicate(t *testing.T) {
	tests := []struct {
		name       string
		surveyor   string
		contractor string
		threshold  *model.Threshold
		wantStatus string
	}{
		{
			name:       "small deviation approves",
			surveyor:   "1000.00",
			contractor: "980.00",
			threshold:  threshold("25.00"),
			wantStatus: model.ClaimStatusAutoApproved,
		},
		{
			name:       "deviation beyond limit rejects",
			surveyor:   "1000.00",
			contractor: "950.00",
			threshold:  threshold("25.00"),
			wantStatus: model.ClaimStatusRejectedSystem,
		},
		{
			name:       "deviation equal to limit approves",
			surveyor:   "1025.00",
			contractor: "1000.00",
			threshold:  threshold("25.00"),
			wantStatus: model.ClaimStatusAutoApproved,
		},
		{
			name:       "surveyor below contractor compares absolute",
			surveyor:   "975.00",
			contractor: "1000.00",
			threshold:  threshold("25.00"),
			wantStatus: model.ClaimStatusAutoApproved,
		},
		{
			name:       "identical totals approve",
			surveyor:   "500.00",
			contractor: "500.00",
			threshold:  threshold("0.00"),
			wantStatus: model.ClaimStatusAutoApproved,
		},
		{
			name:       "no active threshold rejects",
			surveyor:   "1000.00",
			contractor: "1000.00",
			threshold:  nil,
			wantStatus: model.ClaimStatusRejectedSystem,
		},
		{
			name:       "zero limit rejects any deviation",
			surveyor:   "1000.01",
			contractor: "1000.00",
			threshold:  threshold("0.00"),
			wantStatus: model.ClaimStatusRejectedSystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Adjudicate(dec(tt.surveyor), dec(tt.contractor), tt.threshold)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.True(t, res.Deviation.Equal(dec(tt.surveyor).Sub(dec(tt.contractor)).Abs()))
			if tt.threshold == nil {
				assert.Nil(t, res.ThresholdLimit)
			} else {
				require.NotNil(t, res.ThresholdLimit)
				assert.True(t, res.ThresholdLimit.Equal(tt.threshold.LimitValue))
			}
		})
	}
}

func TestCompareBlock(t *testing.T) {
	t.Run("signed deviation with percentage", func(t *testing.T) {
		deviation, pct, within := CompareBlock(dec("200.00"), dec("190.00"), threshold("25.00"))
		assert.True(t, deviation.Equal(dec("-10.00")))
		require.NotNil(t, pct)
		assert.True(t, pct.Equal(dec("-5.00")))
		assert.True(t, within)
	})

	t.Run("percentage nil when contractor claimed zero", func(t *testing.T) {
		deviation, pct, within := CompareBlock(dec("0"), dec("30.00"), threshold("25.00"))
		assert.True(t, deviation.Equal(dec("30.00")))
		assert.Nil(t, pct)
		assert.False(t, within)
	})

	t.Run("within is false without a threshold", func(t *testing.T) {
		_, _, within := CompareBlock(dec("100.00"), dec("100.00"), nil)
		assert.False(t, within)
	})

	t.Run("deviation equal to limit counts as within", func(t *testing.T) {
		_, _, within := CompareBlock(dec("100.00"), dec("125.00"), threshold("25.00"))
		assert.True(t, within)
	})
}

func TestSurveyedContractorTotal(t *testing.T) {
	blockA := model.ClaimBlock{Bcm: dec("500.00")}
	blockB := model.ClaimBlock{Bcm: dec("500.00")}

	t.Run("counts only surveyed blocks", func(t *testing.T) {
		survey := model.SurveyorClaim{
			Blocks: []model.SurveyorClaimBlock{
				{ClaimBlock: &blockA, Bcm: dec("500.00")},
			},
		}
		require.True(t, SurveyedContractorTotal(survey).Equal(dec("500.00")))

		// A survey covering part of the claim exactly is a zero-deviation
		// match, not a rejection for the unmeasured remainder.
		res := Adjudicate(dec("500.00"), SurveyedContractorTotal(survey), threshold("25.00"))
		assert.Equal(t, model.ClaimStatusAutoApproved, res.Status)
		assert.True(t, res.Deviation.IsZero())
	})

	t.Run("full coverage sums all linked blocks", func(t *testing.T) {
		survey := model.SurveyorClaim{
			Blocks: []model.SurveyorClaimBlock{
				{ClaimBlock: &blockA, Bcm: dec("490.00")},
				{ClaimBlock: &blockB, Bcm: dec("505.00")},
			},
		}
		assert.True(t, SurveyedContractorTotal(survey).Equal(dec("1000.00")))
	})

	t.Run("missing linkage contributes nothing", func(t *testing.T) {
		survey := model.SurveyorClaim{
			Blocks: []model.SurveyorClaimBlock{
				{ClaimBlock: nil, Bcm: dec("100.00")},
			},
		}
		assert.True(t, SurveyedContractorTotal(survey).IsZero())
	})
}
