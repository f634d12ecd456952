package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type DashboardSummary struct {
	Users struct {
		Total  int64            `json:"total"`
		ByRole map[string]int64 `json:"by_role"`
	} `json:"users"`
	Claims struct {
		Total     int64            `json:"total"`
		ThisMonth int64            `json:"this_month"`
		ThisYear  int64            `json:"this_year"`
		Approved  int64            `json:"approved"`
		Rejected  int64            `json:"rejected"`
		Pending   int64            `json:"pending"`
		ByStatus  map[string]int64 `json:"by_status"`
	} `json:"claims"`
}

// ProductionOverview summarizes the approved volume of one year. Average is
// per approved claim and zero when the year has none.
type ProductionOverview struct {
	TotalBcm        decimal.Decimal `json:"total_bcm"`
	CurrentMonthBcm decimal.Decimal `json:"current_month_bcm"`
	ApprovedClaims  int64           `json:"approved_claims"`
	AverageBcm      decimal.Decimal `json:"average_bcm_per_claim"`
}

type ProductionReport struct {
	Year     int                            `json:"year"`
	Overview ProductionOverview             `json:"overview"`
	Monthly  []repository.MonthlyProduction `json:"monthly"`
	ByPit    []repository.PitProduction     `json:"by_pit"`
}

// --- Interface ---

type DashboardService interface {
	Summary(ctx context.Context) (DashboardSummary, error)
	Production(ctx context.Context, year int) (ProductionReport, error)
}

type dashboardService struct {
	stats repository.StatsRepository
	users repository.UserRepository
}

func NewDashboardService(stats repository.StatsRepository, users repository.UserRepository) DashboardService {
	return &dashboardService{stats: stats, users: users}
}

// --- Implementation ---

func (s *dashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	var res DashboardSummary

	roleCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	res.Users.ByRole = roleCounts
	for _, n := range roleCounts {
		res.Users.Total += n
	}

	statusCounts, err := s.stats.ClaimCountsByStatus(ctx)
	if err != nil {
		return res, fmt.Errorf("count claims: %w", err)
	}
	now := time.Now()
	res.Claims.ThisYear, err = s.stats.ClaimCountInPeriod(ctx, now.Year(), 0)
	if err != nil {
		return res, fmt.Errorf("count claims this year: %w", err)
	}
	res.Claims.ThisMonth, err = s.stats.ClaimCountInPeriod(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return res, fmt.Errorf("count claims this month: %w", err)
	}

	res.Claims.ByStatus = statusCounts
	for status, n := range statusCounts {
		res.Claims.Total += n
		switch status {
		case model.ClaimStatusAutoApproved, model.ClaimStatusApprovedManagerial, model.ClaimStatusApprovedFinance:
			res.Claims.Approved += n
		case model.ClaimStatusRejectedSystem, model.ClaimStatusRejectedManagerial, model.ClaimStatusRejectedFinance:
			res.Claims.Rejected += n
		default:
			res.Claims.Pending += n
		}
	}
	return res, nil
}

func (s *dashboardService) Production(ctx context.Context, year int) (ProductionReport, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	monthly, err := s.stats.MonthlyProduction(ctx, year)
	if err != nil {
		return ProductionReport{}, fmt.Errorf("monthly production: %w", err)
	}
	byPit, err := s.stats.ProductionByPit(ctx, year)
	if err != nil {
		return ProductionReport{}, fmt.Errorf("production by pit: %w", err)
	}
	approved, err := s.stats.ApprovedClaimCount(ctx, year)
	if err != nil {
		return ProductionReport{}, fmt.Errorf("count approved claims: %w", err)
	}

	overview := ProductionOverview{ApprovedClaims: approved}
	currentMonth := int(time.Now().Month())
	for _, m := range monthly {
		overview.TotalBcm = overview.TotalBcm.Add(m.TotalBcm)
		if year == time.Now().Year() && m.PeriodMonth == currentMonth {
			overview.CurrentMonthBcm = m.TotalBcm
		}
	}
	if approved > 0 {
		overview.AverageBcm = overview.TotalBcm.DivRound(decimal.NewFromInt(approved), 2)
	}

	return ProductionReport{Year: year, Overview: overview, Monthly: monthly, ByPit: byPit}, nil
}
