package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyProduction is one month of approved BCM volume.
type MonthlyProduction struct {
	PeriodMonth int             `json:"period_month"`
	TotalBcm    decimal.Decimal `json:"total_bcm"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PitProduction is approved BCM volume aggregated per pit.
type PitProduction struct {
	PitID    string          `json:"pit_id"`
	PitName  string          `json:"pit_name"`
	TotalBcm decimal.Decimal `json:"total_bcm"`
}

// StatsRepository serves the dashboard aggregations. "Approved" means any of
// the approving statuses, from automatic acceptance up through finance.
type StatsRepository interface {
	ClaimCountsByStatus(ctx context.Context) (map[string]int64, error)
	// ClaimCountInPeriod counts claims for a period year; month 0 means the
	// whole year.
	ClaimCountInPeriod(ctx context.Context, year, month int) (int64, error)
	ApprovedClaimCount(ctx context.Context, year int) (int64, error)
	MonthlyProduction(ctx context.Context, year int) ([]MonthlyProduction, error)
	ProductionByPit(ctx context.Context, year int) ([]PitProduction, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

var approvedStatuses = []string{
	model.ClaimStatusAutoApproved,
	model.ClaimStatusApprovedManagerial,
	model.ClaimStatusApprovedFinance,
}

func (r *statsRepository) ClaimCountsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *statsRepository) ClaimCountInPeriod(ctx context.Context, year, month int) (int64, error) {
	q := GetDB(ctx, r.db).Model(&model.Claim{}).Where("period_year = ?", year)
	if month > 0 {
		q = q.Where("period_month = ?", month)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *statsRepository) ApprovedClaimCount(ctx context.Context, year int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("period_year = ? AND status IN ?", year, approvedStatuses).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) MonthlyProduction(ctx context.Context, year int) ([]MonthlyProduction, error) {
	var rows []MonthlyProduction
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Select("period_month, COALESCE(SUM(total_bcm), 0) AS total_bcm, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("period_year = ? AND status IN ?", year, approvedStatuses).
		Group("period_month").
		Order("period_month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) ProductionByPit(ctx context.Context, year int) ([]PitProduction, error) {
	var rows []PitProduction
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Select("claims.pit_id AS pit_id, pits.name AS pit_name, COALESCE(SUM(claims.total_bcm), 0) AS total_bcm").
		Joins("JOIN pits ON pits.id = claims.pit_id").
		Where("claims.period_year = ? AND claims.status IN ?", year, approvedStatuses).
		Group("claims.pit_id, pits.name").
		Order("total_bcm DESC").
		Scan(&rows).Error
	return rows, err
}
