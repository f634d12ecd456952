package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CoordinateInput struct {
	PointOrder int    `json:"point_order" binding:"required,min=1"`
	PointCode  string `json:"point_code"`
	Easting    string `json:"easting" binding:"required"`
	Northing   string `json:"northing" binding:"required"`
	Elevation  string `json:"elevation"`
}

type CreateSiteRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	UtmZone     string            `json:"utm_zone" binding:"required"`
	Coordinates []CoordinateInput `json:"coordinates" binding:"required,dive"`
}

type CreatePitRequest struct {
	SiteID      string            `json:"site_id" binding:"required,uuid"`
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	UtmZone     string            `json:"utm_zone" binding:"required"`
	Active      *bool             `json:"active"`
	Coordinates []CoordinateInput `json:"coordinates" binding:"required,dive"`
}

type UpdatePitRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	UtmZone     string            `json:"utm_zone" binding:"required"`
	Active      *bool             `json:"active"`
	Coordinates []CoordinateInput `json:"coordinates" binding:"required,dive"`
}

type CreateBlockRequest struct {
	PitID       string `json:"pit_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Volume      string `json:"volume"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateBlockRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Volume      string `json:"volume"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type CoordinateResponse struct {
	PointOrder int      `json:"point_order"`
	PointCode  string   `json:"point_code"`
	Easting    string   `json:"easting"`
	Northing   string   `json:"northing"`
	Elevation  *string  `json:"elevation"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type BlockResponse struct {
	ID          string  `json:"id"`
	PitID       string  `json:"pit_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Volume      *string `json:"volume"`
	Status      string  `json:"status"`
}

type PitResponse struct {
	ID          string               `json:"id"`
	SiteID      string               `json:"site_id"`
	NoPit       string               `json:"no_pit"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	UtmZone     string               `json:"utm_zone"`
	Datum       string               `json:"datum"`
	Active      bool                 `json:"active"`
	AreaM2      float64              `json:"area_m2"`
	Coordinates []CoordinateResponse `json:"coordinates"`
	Blocks      []BlockResponse      `json:"blocks,omitempty"`
	CreatedAt   string               `json:"created_at"`
}

type SiteResponse struct {
	ID          string               `json:"id"`
	NoSite      string               `json:"no_site"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	UtmZone     string               `json:"utm_zone"`
	Datum       string               `json:"datum"`
	AreaM2      float64              `json:"area_m2"`
	TotalBlocks int                  `json:"total_blocks"`
	Coordinates []CoordinateResponse `json:"coordinates"`
	Pits        []PitResponse        `json:"pits,omitempty"`
	CreatedAt   string               `json:"created_at"`
}

// --- Interface ---

// SiteService manages the geographic hierarchy: sites, their pits, and the
// blocks inside pits. Polygon rings are validated here; the geometry itself
// is written and measured by spatial SQL through the geo repository.
type SiteService interface {
	CreateSite(ctx context.Context, userID uuid.UUID, req CreateSiteRequest) (SiteResponse, error)
	UpdateSite(ctx context.Context, id string, userID uuid.UUID, req CreateSiteRequest) (SiteResponse, error)
	DeleteSite(ctx context.Context, id string) error
	GetSite(ctx context.Context, id string) (SiteResponse, error)
	ListSites(ctx context.Context, offset, limit int) ([]SiteResponse, int64, error)

	CreatePit(ctx context.Context, userID uuid.UUID, req CreatePitRequest) (PitResponse, error)
	UpdatePit(ctx context.Context, id string, userID uuid.UUID, req UpdatePitRequest) (PitResponse, error)
	DeletePit(ctx context.Context, id string) error
	GetPit(ctx context.Context, id string) (PitResponse, error)
	ListPits(ctx context.Context, offset, limit int) ([]PitResponse, int64, error)

	CreateBlock(ctx context.Context, req CreateBlockRequest) (BlockResponse, error)
	UpdateBlock(ctx context.Context, id string, req UpdateBlockRequest) (BlockResponse, error)
	DeleteBlock(ctx context.Context, id string) error
	ListBlocks(ctx context.Context, pitID string) ([]BlockResponse, error)
}

type siteService struct {
	sites  repository.SiteRepository
	pits   repository.PitRepository
	blocks repository.BlockRepository
	geo    repository.GeoRepository
	tx     repository.TransactionManager
}

func NewSiteService(
	sites repository.SiteRepository,
	pits repository.PitRepository,
	blocks repository.BlockRepository,
	geo repository.GeoRepository,
	tx repository.TransactionManager,
) SiteService {
	return &siteService{sites: sites, pits: pits, blocks: blocks, geo: geo, tx: tx}
}

// --- Sites ---

func (s *siteService) CreateSite(ctx context.Context, userID uuid.UUID, req CreateSiteRequest) (SiteResponse, error) {
	points, err := parseCoordinates(req.Coordinates)
	if err != nil {
		return SiteResponse{}, err
	}
	wkt, err := repository.PolygonWKT(points)
	if err != nil {
		return SiteResponse{}, err
	}
	srid, err := repository.SRIDForZone(req.UtmZone)
	if err != nil {
		return SiteResponse{}, err
	}

	site := model.Site{
		NoSite:      siteNumber(req.Name, points),
		Name:        req.Name,
		Description: req.Description,
		UtmZone:     strings.ToUpper(req.UtmZone),
		CreatedBy:   &userID,
		UpdatedBy:   &userID,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.sites.CountByNoSite(txCtx, site.NoSite, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check site number: %w", err)
		}
		if count > 0 {
			return apperror.NewConflict("a site with the same name and boundary already exists")
		}
		if err := s.sites.Create(txCtx, &site); err != nil {
			return fmt.Errorf("create site: %w", err)
		}
		coords := siteCoordinates(site.ID, req.Coordinates, points)
		if err := s.sites.ReplaceCoordinates(txCtx, site.ID, coords); err != nil {
			return fmt.Errorf("store site coordinates: %w", err)
		}
		if err := s.geo.SetSiteArea(txCtx, site.ID, wkt, srid); err != nil {
			return fmt.Errorf("store site polygon: %w", err)
		}
		return nil
	})
	if err != nil {
		return SiteResponse{}, err
	}
	return s.GetSite(ctx, site.ID.String())
}

func (s *siteService) UpdateSite(ctx context.Context, id string, userID uuid.UUID, req CreateSiteRequest) (SiteResponse, error) {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return SiteResponse{}, apperror.NewValidation("invalid site id")
	}
	points, err := parseCoordinates(req.Coordinates)
	if err != nil {
		return SiteResponse{}, err
	}
	wkt, err := repository.PolygonWKT(points)
	if err != nil {
		return SiteResponse{}, err
	}
	srid, err := repository.SRIDForZone(req.UtmZone)
	if err != nil {
		return SiteResponse{}, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		site, err := s.sites.GetByID(txCtx, siteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("site")
			}
			return fmt.Errorf("fetch site: %w", err)
		}
		site.NoSite = siteNumber(req.Name, points)
		site.Name = req.Name
		site.Description = req.Description
		site.UtmZone = strings.ToUpper(req.UtmZone)
		site.UpdatedBy = &userID
		site.Coordinates = nil
		site.Pits = nil

		count, err := s.sites.CountByNoSite(txCtx, site.NoSite, site.ID)
		if err != nil {
			return fmt.Errorf("check site number: %w", err)
		}
		if count > 0 {
			return apperror.NewConflict("a site with the same name and boundary already exists")
		}
		if err := s.sites.Save(txCtx, site); err != nil {
			return fmt.Errorf("update site: %w", err)
		}
		coords := siteCoordinates(site.ID, req.Coordinates, points)
		if err := s.sites.ReplaceCoordinates(txCtx, site.ID, coords); err != nil {
			return fmt.Errorf("store site coordinates: %w", err)
		}
		if err := s.geo.SetSiteArea(txCtx, site.ID, wkt, srid); err != nil {
			return fmt.Errorf("store site polygon: %w", err)
		}
		return nil
	})
	if err != nil {
		return SiteResponse{}, err
	}
	return s.GetSite(ctx, id)
}

func (s *siteService) DeleteSite(ctx context.Context, id string) error {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid site id")
	}
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("site")
		}
		return fmt.Errorf("fetch site: %w", err)
	}
	if err := s.sites.Delete(ctx, site); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

func (s *siteService) GetSite(ctx context.Context, id string) (SiteResponse, error) {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return SiteResponse{}, apperror.NewValidation("invalid site id")
	}
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SiteResponse{}, apperror.NewNotFound("site")
		}
		return SiteResponse{}, fmt.Errorf("fetch site: %w", err)
	}
	return s.toSiteResponse(ctx, *site, true)
}

func (s *siteService) ListSites(ctx context.Context, offset, limit int) ([]SiteResponse, int64, error) {
	sites, total, err := s.sites.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list sites: %w", err)
	}
	res := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		resp, err := s.toSiteResponse(ctx, site, false)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, resp)
	}
	return res, total, nil
}

// --- Pits ---

func (s *siteService) CreatePit(ctx context.Context, userID uuid.UUID, req CreatePitRequest) (PitResponse, error) {
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return PitResponse{}, apperror.NewValidation("invalid site id")
	}
	points, err := parseCoordinates(req.Coordinates)
	if err != nil {
		return PitResponse{}, err
	}
	wkt, err := repository.PolygonWKT(points)
	if err != nil {
		return PitResponse{}, err
	}
	srid, err := repository.SRIDForZone(req.UtmZone)
	if err != nil {
		return PitResponse{}, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	pit := model.Pit{
		SiteID:      siteID,
		NoPit:       siteNumber(req.Name, points),
		Name:        req.Name,
		Description: req.Description,
		UtmZone:     strings.ToUpper(req.UtmZone),
		Active:      active,
		CreatedBy:   &userID,
		UpdatedBy:   &userID,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.sites.GetByID(txCtx, siteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("site")
			}
			return fmt.Errorf("fetch site: %w", err)
		}
		count, err := s.pits.CountByNoPit(txCtx, pit.NoPit, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check pit number: %w", err)
		}
		if count > 0 {
			return apperror.NewConflict("a pit with the same name and boundary already exists")
		}
		if err := s.pits.Create(txCtx, &pit); err != nil {
			return fmt.Errorf("create pit: %w", err)
		}
		coords := pitCoordinates(pit.ID, req.Coordinates, points)
		if err := s.pits.ReplaceCoordinates(txCtx, pit.ID, coords); err != nil {
			return fmt.Errorf("store pit coordinates: %w", err)
		}
		if err := s.geo.SetPitArea(txCtx, pit.ID, wkt, srid); err != nil {
			return fmt.Errorf("store pit polygon: %w", err)
		}
		return nil
	})
	if err != nil {
		return PitResponse{}, err
	}
	return s.GetPit(ctx, pit.ID.String())
}

func (s *siteService) UpdatePit(ctx context.Context, id string, userID uuid.UUID, req UpdatePitRequest) (PitResponse, error) {
	pitID, err := uuid.Parse(id)
	if err != nil {
		return PitResponse{}, apperror.NewValidation("invalid pit id")
	}
	points, err := parseCoordinates(req.Coordinates)
	if err != nil {
		return PitResponse{}, err
	}
	wkt, err := repository.PolygonWKT(points)
	if err != nil {
		return PitResponse{}, err
	}
	srid, err := repository.SRIDForZone(req.UtmZone)
	if err != nil {
		return PitResponse{}, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		pit, err := s.pits.GetByID(txCtx, pitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("pit")
			}
			return fmt.Errorf("fetch pit: %w", err)
		}
		pit.NoPit = siteNumber(req.Name, points)
		pit.Name = req.Name
		pit.Description = req.Description
		pit.UtmZone = strings.ToUpper(req.UtmZone)
		if req.Active != nil {
			pit.Active = *req.Active
		}
		pit.UpdatedBy = &userID
		pit.Site = nil
		pit.Coordinates = nil
		pit.Blocks = nil

		count, err := s.pits.CountByNoPit(txCtx, pit.NoPit, pit.ID)
		if err != nil {
			return fmt.Errorf("check pit number: %w", err)
		}
		if count > 0 {
			return apperror.NewConflict("a pit with the same name and boundary already exists")
		}
		if err := s.pits.Save(txCtx, pit); err != nil {
			return fmt.Errorf("update pit: %w", err)
		}
		coords := pitCoordinates(pit.ID, req.Coordinates, points)
		if err := s.pits.ReplaceCoordinates(txCtx, pit.ID, coords); err != nil {
			return fmt.Errorf("store pit coordinates: %w", err)
		}
		if err := s.geo.SetPitArea(txCtx, pit.ID, wkt, srid); err != nil {
			return fmt.Errorf("store pit polygon: %w", err)
		}
		return nil
	})
	if err != nil {
		return PitResponse{}, err
	}
	return s.GetPit(ctx, id)
}

func (s *siteService) DeletePit(ctx context.Context, id string) error {
	pitID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid pit id")
	}
	pit, err := s.pits.GetByID(ctx, pitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("pit")
		}
		return fmt.Errorf("fetch pit: %w", err)
	}
	if err := s.pits.Delete(ctx, pit); err != nil {
		return fmt.Errorf("delete pit: %w", err)
	}
	return nil
}

func (s *siteService) GetPit(ctx context.Context, id string) (PitResponse, error) {
	pitID, err := uuid.Parse(id)
	if err != nil {
		return PitResponse{}, apperror.NewValidation("invalid pit id")
	}
	pit, err := s.pits.GetByID(ctx, pitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PitResponse{}, apperror.NewNotFound("pit")
		}
		return PitResponse{}, fmt.Errorf("fetch pit: %w", err)
	}
	return s.toPitResponse(ctx, *pit)
}

func (s *siteService) ListPits(ctx context.Context, offset, limit int) ([]PitResponse, int64, error) {
	pits, total, err := s.pits.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list pits: %w", err)
	}
	res := make([]PitResponse, 0, len(pits))
	for _, pit := range pits {
		resp, err := s.toPitResponse(ctx, pit)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, resp)
	}
	return res, total, nil
}

// --- Blocks ---

func (s *siteService) CreateBlock(ctx context.Context, req CreateBlockRequest) (BlockResponse, error) {
	pitID, err := uuid.Parse(req.PitID)
	if err != nil {
		return BlockResponse{}, apperror.NewValidation("invalid pit id")
	}
	volume, err := parseOptionalDecimal(req.Volume, "volume")
	if err != nil {
		return BlockResponse{}, err
	}
	status := req.Status
	if status == "" {
		status = model.BlockStatusActive
	}

	block := model.Block{
		PitID:       pitID,
		Name:        req.Name,
		Description: req.Description,
		Volume:      volume,
		Status:      status,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.pits.GetByID(txCtx, pitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("pit")
			}
			return fmt.Errorf("fetch pit: %w", err)
		}
		if err := s.blocks.Create(txCtx, &block); err != nil {
			return fmt.Errorf("create block: %w", err)
		}
		return nil
	})
	if err != nil {
		return BlockResponse{}, err
	}
	return toBlockResponse(block), nil
}

func (s *siteService) UpdateBlock(ctx context.Context, id string, req UpdateBlockRequest) (BlockResponse, error) {
	blockID, err := uuid.Parse(id)
	if err != nil {
		return BlockResponse{}, apperror.NewValidation("invalid block id")
	}
	volume, err := parseOptionalDecimal(req.Volume, "volume")
	if err != nil {
		return BlockResponse{}, err
	}

	block, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BlockResponse{}, apperror.NewNotFound("block")
		}
		return BlockResponse{}, fmt.Errorf("fetch block: %w", err)
	}
	block.Name = req.Name
	block.Description = req.Description
	block.Volume = volume
	if req.Status != "" {
		block.Status = req.Status
	}
	block.Pit = nil
	if err := s.blocks.Save(ctx, block); err != nil {
		return BlockResponse{}, fmt.Errorf("update block: %w", err)
	}
	return toBlockResponse(*block), nil
}

func (s *siteService) DeleteBlock(ctx context.Context, id string) error {
	blockID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid block id")
	}
	block, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("block")
		}
		return fmt.Errorf("fetch block: %w", err)
	}
	if err := s.blocks.Delete(ctx, block); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

func (s *siteService) ListBlocks(ctx context.Context, pitID string) ([]BlockResponse, error) {
	id, err := uuid.Parse(pitID)
	if err != nil {
		return nil, apperror.NewValidation("invalid pit id")
	}
	blocks, err := s.blocks.ListByPit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	res := make([]BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		res = append(res, toBlockResponse(b))
	}
	return res, nil
}

// --- Helpers ---

// siteNumber derives a stable identifier from the name and the leading digits
// of each vertex, e.g. "TANJUNG HARAPAN - 49184918".
func siteNumber(name string, points []repository.UTMPoint) string {
	var code strings.Builder
	for _, p := range points {
		code.WriteByte(leadingDigit(p.Easting))
		code.WriteByte(leadingDigit(p.Northing))
	}
	return strings.ToUpper(strings.TrimSpace(name)) + " - " + code.String()
}

func leadingDigit(d decimal.Decimal) byte {
	s := d.Abs().Truncate(0).String()
	if len(s) == 0 {
		return '0'
	}
	return s[0]
}

func parseCoordinates(inputs []CoordinateInput) ([]repository.UTMPoint, error) {
	points := make([]repository.UTMPoint, 0, len(inputs))
	for i, in := range inputs {
		easting, err := decimal.NewFromString(in.Easting)
		if err != nil {
			return nil, apperror.NewFieldValidation("invalid coordinate",
				map[string]string{fmt.Sprintf("coordinates.%d.easting", i): "must be a decimal number"})
		}
		northing, err := decimal.NewFromString(in.Northing)
		if err != nil {
			return nil, apperror.NewFieldValidation("invalid coordinate",
				map[string]string{fmt.Sprintf("coordinates.%d.northing", i): "must be a decimal number"})
		}
		points = append(points, repository.UTMPoint{Easting: easting, Northing: northing})
	}
	return points, nil
}

func siteCoordinates(siteID uuid.UUID, inputs []CoordinateInput, points []repository.UTMPoint) []model.SiteCoordinate {
	coords := make([]model.SiteCoordinate, 0, len(inputs))
	for i, in := range inputs {
		c := model.SiteCoordinate{
			SiteID:     siteID,
			PointOrder: in.PointOrder,
			PointCode:  in.PointCode,
			Easting:    points[i].Easting,
			Northing:   points[i].Northing,
		}
		if in.Elevation != "" {
			if e, err := decimal.NewFromString(in.Elevation); err == nil {
				c.Elevation = &e
			}
		}
		coords = append(coords, c)
	}
	return coords
}

func pitCoordinates(pitID uuid.UUID, inputs []CoordinateInput, points []repository.UTMPoint) []model.PitCoordinate {
	coords := make([]model.PitCoordinate, 0, len(inputs))
	for i, in := range inputs {
		c := model.PitCoordinate{
			PitID:      pitID,
			PointOrder: in.PointOrder,
			PointCode:  in.PointCode,
			Easting:    points[i].Easting,
			Northing:   points[i].Northing,
		}
		if in.Elevation != "" {
			if e, err := decimal.NewFromString(in.Elevation); err == nil {
				c.Elevation = &e
			}
		}
		coords = append(coords, c)
	}
	return coords
}

func parseOptionalDecimal(raw, field string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, apperror.NewFieldValidation("invalid "+field, map[string]string{field: "must be a non-negative decimal"})
	}
	return &d, nil
}

func (s *siteService) toSiteResponse(ctx context.Context, site model.Site, withLatLng bool) (SiteResponse, error) {
	area, err := s.geo.SiteArea(ctx, site.ID)
	if err != nil {
		return SiteResponse{}, fmt.Errorf("measure site area: %w", err)
	}

	resp := SiteResponse{
		ID:          site.ID.String(),
		NoSite:      site.NoSite,
		Name:        site.Name,
		Description: site.Description,
		UtmZone:     site.UtmZone,
		Datum:       site.Datum,
		AreaM2:      area,
		CreatedAt:   site.CreatedAt.Format(time.RFC3339),
	}
	resp.Coordinates, err = s.toCoordinateResponses(ctx, site.UtmZone, siteCoordsToPoints(site.Coordinates), site.Coordinates, withLatLng)
	if err != nil {
		return SiteResponse{}, err
	}
	for _, pit := range site.Pits {
		resp.TotalBlocks += len(pit.Blocks)
		pitResp, err := s.toPitResponse(ctx, pit)
		if err != nil {
			return SiteResponse{}, err
		}
		resp.Pits = append(resp.Pits, pitResp)
	}
	return resp, nil
}

func (s *siteService) toPitResponse(ctx context.Context, pit model.Pit) (PitResponse, error) {
	area, err := s.geo.PitArea(ctx, pit.ID)
	if err != nil {
		return PitResponse{}, fmt.Errorf("measure pit area: %w", err)
	}

	resp := PitResponse{
		ID:          pit.ID.String(),
		SiteID:      pit.SiteID.String(),
		NoPit:       pit.NoPit,
		Name:        pit.Name,
		Description: pit.Description,
		UtmZone:     pit.UtmZone,
		Datum:       pit.Datum,
		Active:      pit.Active,
		AreaM2:      area,
		CreatedAt:   pit.CreatedAt.Format(time.RFC3339),
	}
	for _, c := range pit.Coordinates {
		resp.Coordinates = append(resp.Coordinates, coordinateResponse(c.PointOrder, c.PointCode, c.Easting, c.Northing, c.Elevation))
	}
	for _, b := range pit.Blocks {
		resp.Blocks = append(resp.Blocks, toBlockResponse(b))
	}
	return resp, nil
}

// toCoordinateResponses reprojects each vertex to WGS84 for map display when
// requested. Reprojection failures surface; a boundary that cannot be placed
// on a map is a data problem, not a cosmetic one.
func (s *siteService) toCoordinateResponses(ctx context.Context, zone string, points []repository.UTMPoint, coords []model.SiteCoordinate, withLatLng bool) ([]CoordinateResponse, error) {
	res := make([]CoordinateResponse, 0, len(coords))
	srid := 0
	if withLatLng {
		var err error
		srid, err = repository.SRIDForZone(zone)
		if err != nil {
			return nil, err
		}
	}
	for i, c := range coords {
		cr := coordinateResponse(c.PointOrder, c.PointCode, c.Easting, c.Northing, c.Elevation)
		if withLatLng {
			ll, err := s.geo.UTMToLatLng(ctx, points[i], srid)
			if err != nil {
				return nil, err
			}
			cr.Lat = &ll.Lat
			cr.Lng = &ll.Lng
		}
		res = append(res, cr)
	}
	return res, nil
}

func coordinateResponse(order int, code string, easting, northing decimal.Decimal, elevation *decimal.Decimal) CoordinateResponse {
	cr := CoordinateResponse{
		PointOrder: order,
		PointCode:  code,
		Easting:    easting.StringFixed(3),
		Northing:   northing.StringFixed(3),
	}
	if elevation != nil {
		e := elevation.StringFixed(3)
		cr.Elevation = &e
	}
	return cr
}

func siteCoordsToPoints(coords []model.SiteCoordinate) []repository.UTMPoint {
	points := make([]repository.UTMPoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, repository.UTMPoint{Easting: c.Easting, Northing: c.Northing})
	}
	return points
}

func toBlockResponse(b model.Block) BlockResponse {
	resp := BlockResponse{
		ID:          b.ID.String(),
		PitID:       b.PitID.String(),
		Name:        b.Name,
		Description: b.Description,
		Status:      b.Status,
	}
	if b.Volume != nil {
		v := b.Volume.StringFixed(2)
		resp.Volume = &v
	}
	return resp
}
