package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	Save(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error)
	List(ctx context.Context, offset, limit int) ([]model.Site, int64, error)
	CountByNoSite(ctx context.Context, noSite string, excludeID uuid.UUID) (int64, error)
	ReplaceCoordinates(ctx context.Context, siteID uuid.UUID, coords []model.SiteCoordinate) error
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(ctx context.Context, site *model.Site) error {
	return GetDB(ctx, r.db).Create(site).Error
}

func (r *siteRepository) Save(ctx context.Context, site *model.Site) error {
	return GetDB(ctx, r.db).Save(site).Error
}

func (r *siteRepository) Delete(ctx context.Context, site *model.Site) error {
	return GetDB(ctx, r.db).Delete(site).Error
}

func (r *siteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	err := GetDB(ctx, r.db).
		Preload("Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("point_order ASC") }).
		Preload("Pits", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Pits.Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("point_order ASC") }).
		First(&site, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) List(ctx context.Context, offset, limit int) ([]model.Site, int64, error) {
	db := GetDB(ctx, r.db)
	var total int64
	if err := db.Model(&model.Site{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sites []model.Site
	err := db.
		Preload("Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("point_order ASC") }).
		Preload("Pits").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&sites).Error
	return sites, total, err
}

func (r *siteRepository) CountByNoSite(ctx context.Context, noSite string, excludeID uuid.UUID) (int64, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Site{}).Where("no_site = ?", noSite)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *siteRepository) ReplaceCoordinates(ctx context.Context, siteID uuid.UUID, coords []model.SiteCoordinate) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("site_id = ?", siteID).Delete(&model.SiteCoordinate{}).Error; err != nil {
		return err
	}
	if len(coords) == 0 {
		return nil
	}
	return db.Create(&coords).Error
}

type PitRepository interface {
	Create(ctx context.Context, pit *model.Pit) error
	Save(ctx context.Context, pit *model.Pit) error
	Delete(ctx context.Context, pit *model.Pit) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Pit, error)
	List(ctx context.Context, offset, limit int) ([]model.Pit, int64, error)
	CountByNoPit(ctx context.Context, noPit string, excludeID uuid.UUID) (int64, error)
	ReplaceCoordinates(ctx context.Context, pitID uuid.UUID, coords []model.PitCoordinate) error
}

type pitRepository struct {
	db *gorm.DB
}

func NewPitRepository(db *gorm.DB) PitRepository {
	return &pitRepository{db: db}
}

func (r *pitRepository) Create(ctx context.Context, pit *model.Pit) error {
	return GetDB(ctx, r.db).Create(pit).Error
}

func (r *pitRepository) Save(ctx context.Context, pit *model.Pit) error {
	return GetDB(ctx, r.db).Save(pit).Error
}

func (r *pitRepository) Delete(ctx context.Context, pit *model.Pit) error {
	return GetDB(ctx, r.db).Delete(pit).Error
}

func (r *pitRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Pit, error) {
	var pit model.Pit
	err := GetDB(ctx, r.db).
		Preload("Site").
		Preload("Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("point_order ASC") }).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&pit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pit, nil
}

func (r *pitRepository) List(ctx context.Context, offset, limit int) ([]model.Pit, int64, error) {
	db := GetDB(ctx, r.db)
	var total int64
	if err := db.Model(&model.Pit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pits []model.Pit
	err := db.
		Preload("Site").
		Preload("Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("point_order ASC") }).
		Preload("Blocks").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&pits).Error
	return pits, total, err
}

func (r *pitRepository) CountByNoPit(ctx context.Context, noPit string, excludeID uuid.UUID) (int64, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Pit{}).Where("no_pit = ?", noPit)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *pitRepository) ReplaceCoordinates(ctx context.Context, pitID uuid.UUID, coords []model.PitCoordinate) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("pit_id = ?", pitID).Delete(&model.PitCoordinate{}).Error; err != nil {
		return err
	}
	if len(coords) == 0 {
		return nil
	}
	return db.Create(&coords).Error
}

type BlockRepository interface {
	Create(ctx context.Context, block *model.Block) error
	Save(ctx context.Context, block *model.Block) error
	Delete(ctx context.Context, block *model.Block) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Block, error)
	ListByPit(ctx context.Context, pitID uuid.UUID) ([]model.Block, error)
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *model.Block) error {
	return GetDB(ctx, r.db).Create(block).Error
}

func (r *blockRepository) Save(ctx context.Context, block *model.Block) error {
	return GetDB(ctx, r.db).Save(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, block *model.Block) error {
	return GetDB(ctx, r.db).Delete(block).Error
}

func (r *blockRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Block, error) {
	var block model.Block
	err := GetDB(ctx, r.db).Preload("Pit").First(&block, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) ListByPit(ctx context.Context, pitID uuid.UUID) ([]model.Block, error) {
	var blocks []model.Block
	err := GetDB(ctx, r.db).Where("pit_id = ?", pitID).Order("created_at ASC").Find(&blocks).Error
	return blocks, err
}
