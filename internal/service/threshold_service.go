package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateThresholdRequest struct {
	Name        string `json:"name" binding:"required"`
	LimitValue  string `json:"limit_value" binding:"required"` // Decimal string, e.g. "25.00"
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type UpdateThresholdRequest struct {
	Name        string `json:"name" binding:"required"`
	LimitValue  string `json:"limit_value" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type ThresholdResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LimitValue  string `json:"limit_value"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// --- Interface ---

type ThresholdService interface {
	List(ctx context.Context, offset, limit int) ([]ThresholdResponse, int64, error)
	Get(ctx context.Context, id string) (ThresholdResponse, error)
	GetActive(ctx context.Context) (*ThresholdResponse, error)
	Create(ctx context.Context, req CreateThresholdRequest) (ThresholdResponse, error)
	Update(ctx context.Context, id string, req UpdateThresholdRequest) (ThresholdResponse, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (ThresholdResponse, error)
}

type thresholdService struct {
	repo repository.ThresholdRepository
	tx   repository.TransactionManager
}

func NewThresholdService(repo repository.ThresholdRepository, tx repository.TransactionManager) ThresholdService {
	return &thresholdService{repo: repo, tx: tx}
}

// --- Implementation ---

func (s *thresholdService) List(ctx context.Context, offset, limit int) ([]ThresholdResponse, int64, error) {
	thresholds, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list thresholds: %w", err)
	}
	res := make([]ThresholdResponse, 0, len(thresholds))
	for _, t := range thresholds {
		res = append(res, toThresholdResponse(t))
	}
	return res, total, nil
}

func (s *thresholdService) Get(ctx context.Context, id string) (ThresholdResponse, error) {
	thresholdID, err := uuid.Parse(id)
	if err != nil {
		return ThresholdResponse{}, apperror.NewValidation("invalid threshold id")
	}
	threshold, err := s.repo.GetByID(ctx, thresholdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ThresholdResponse{}, apperror.NewNotFound("threshold")
		}
		return ThresholdResponse{}, fmt.Errorf("fetch threshold: %w", err)
	}
	return toThresholdResponse(*threshold), nil
}

func (s *thresholdService) GetActive(ctx context.Context) (*ThresholdResponse, error) {
	threshold, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active threshold: %w", err)
	}
	if threshold == nil {
		return nil, nil
	}
	res := toThresholdResponse(*threshold)
	return &res, nil
}

func (s *thresholdService) Create(ctx context.Context, req CreateThresholdRequest) (ThresholdResponse, error) {
	limit, err := parseLimitValue(req.LimitValue)
	if err != nil {
		return ThresholdResponse{}, err
	}

	threshold := model.Threshold{
		Name:        req.Name,
		LimitValue:  limit,
		Description: req.Description,
		Active:      req.Active,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.repo.CountByName(txCtx, req.Name, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check threshold name: %w", err)
		}
		if count > 0 {
			return apperror.NewFieldValidation("threshold name already in use", map[string]string{"name": "must be unique"})
		}
		if err := s.repo.Create(txCtx, &threshold); err != nil {
			return fmt.Errorf("create threshold: %w", err)
		}
		if threshold.Active {
			if err := s.repo.DeactivateOthers(txCtx, threshold.ID); err != nil {
				return fmt.Errorf("deactivate other thresholds: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ThresholdResponse{}, err
	}
	return toThresholdResponse(threshold), nil
}

func (s *thresholdService) Update(ctx context.Context, id string, req UpdateThresholdRequest) (ThresholdResponse, error) {
	thresholdID, err := uuid.Parse(id)
	if err != nil {
		return ThresholdResponse{}, apperror.NewValidation("invalid threshold id")
	}
	limit, err := parseLimitValue(req.LimitValue)
	if err != nil {
		return ThresholdResponse{}, err
	}

	var threshold *model.Threshold
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		threshold, err = s.repo.GetByID(txCtx, thresholdID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("threshold")
			}
			return fmt.Errorf("fetch threshold: %w", err)
		}
		count, err := s.repo.CountByName(txCtx, req.Name, thresholdID)
		if err != nil {
			return fmt.Errorf("check threshold name: %w", err)
		}
		if count > 0 {
			return apperror.NewFieldValidation("threshold name already in use", map[string]string{"name": "must be unique"})
		}

		threshold.Name = req.Name
		threshold.LimitValue = limit
		threshold.Description = req.Description
		if req.Active != nil {
			threshold.Active = *req.Active
		}
		if err := s.repo.Save(txCtx, threshold); err != nil {
			return fmt.Errorf("update threshold: %w", err)
		}
		if threshold.Active {
			if err := s.repo.DeactivateOthers(txCtx, threshold.ID); err != nil {
				return fmt.Errorf("deactivate other thresholds: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ThresholdResponse{}, err
	}
	return toThresholdResponse(*threshold), nil
}

func (s *thresholdService) Delete(ctx context.Context, id string) error {
	thresholdID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid threshold id")
	}
	threshold, err := s.repo.GetByID(ctx, thresholdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("threshold")
		}
		return fmt.Errorf("fetch threshold: %w", err)
	}
	if err := s.repo.Delete(ctx, threshold.ID); err != nil {
		return fmt.Errorf("delete threshold: %w", err)
	}
	return nil
}

// Activate makes the given threshold the single active one. Deactivation of
// the rest happens in the same transaction so readers never see two active
// thresholds.
func (s *thresholdService) Activate(ctx context.Context, id string) (ThresholdResponse, error) {
	thresholdID, err := uuid.Parse(id)
	if err != nil {
		return ThresholdResponse{}, apperror.NewValidation("invalid threshold id")
	}

	var threshold *model.Threshold
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		threshold, err = s.repo.GetByID(txCtx, thresholdID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("threshold")
			}
			return fmt.Errorf("fetch threshold: %w", err)
		}
		threshold.Active = true
		if err := s.repo.Save(txCtx, threshold); err != nil {
			return fmt.Errorf("activate threshold: %w", err)
		}
		if err := s.repo.DeactivateOthers(txCtx, threshold.ID); err != nil {
			return fmt.Errorf("deactivate other thresholds: %w", err)
		}
		return nil
	})
	if err != nil {
		return ThresholdResponse{}, err
	}
	return toThresholdResponse(*threshold), nil
}

// --- Helpers ---

func parseLimitValue(raw string) (decimal.Decimal, error) {
	limit, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.NewFieldValidation("invalid limit value", map[string]string{"limit_value": "must be a decimal number"})
	}
	if limit.IsNegative() {
		return decimal.Zero, apperror.NewFieldValidation("invalid limit value", map[string]string{"limit_value": "must not be negative"})
	}
	return limit, nil
}

func toThresholdResponse(t model.Threshold) ThresholdResponse {
	return ThresholdResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		LimitValue:  t.LimitValue.StringFixed(2),
		Description: t.Description,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}
