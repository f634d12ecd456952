package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UTMPoint is a single easting/northing pair in the site's UTM zone.
type UTMPoint struct {
	Easting  decimal.Decimal
	Northing decimal.Decimal
}

// LatLng is a WGS84 coordinate produced by reprojecting a UTM point.
type LatLng struct {
	Lat float64
	Lng float64
}

// PolygonWKT builds a closed POLYGON ring from 4 to 6 boundary points.
// The first point is repeated at the end to close the ring.
func PolygonWKT(points []UTMPoint) (string, error) {
	if len(points) < 4 || len(points) > 6 {
		return "", apperror.NewValidation("polygon requires between 4 and 6 boundary points")
	}
	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Easting.String())
		sb.WriteString(" ")
		sb.WriteString(p.Northing.String())
	}
	sb.WriteString(", ")
	sb.WriteString(points[0].Easting.String())
	sb.WriteString(" ")
	sb.WriteString(points[0].Northing.String())
	sb.WriteString("))")
	return sb.String(), nil
}

// SRIDForZone maps a UTM zone label like "50S" or "33N" to its EPSG SRID.
// Southern-hemisphere zones live in the 327xx range, northern in 326xx.
func SRIDForZone(zone string) (int, error) {
	zone = strings.ToUpper(strings.TrimSpace(zone))
	if len(zone) < 2 {
		return 0, apperror.NewValidation("invalid UTM zone")
	}
	hemi := zone[len(zone)-1]
	num, err := strconv.Atoi(zone[:len(zone)-1])
	if err != nil || num < 1 || num > 60 {
		return 0, apperror.NewValidation("invalid UTM zone")
	}
	switch hemi {
	case 'N':
		return 32600 + num, nil
	case 'S':
		return 32700 + num, nil
	default:
		return 0, apperror.NewValidation("invalid UTM zone")
	}
}

// GeoRepository runs the PostGIS geometry operations that back site and pit
// boundaries. Geometry stays in the database; callers only pass WKT and SRIDs.
type GeoRepository interface {
	SetSiteArea(ctx context.Context, siteID uuid.UUID, wkt string, srid int) error
	SetPitArea(ctx context.Context, pitID uuid.UUID, wkt string, srid int) error
	SiteArea(ctx context.Context, siteID uuid.UUID) (float64, error)
	PitArea(ctx context.Context, pitID uuid.UUID) (float64, error)
	UTMToLatLng(ctx context.Context, p UTMPoint, srid int) (LatLng, error)
}

type geoRepository struct {
	db *gorm.DB
}

func NewGeoRepository(db *gorm.DB) GeoRepository {
	return &geoRepository{db: db}
}

func (r *geoRepository) SetSiteArea(ctx context.Context, siteID uuid.UUID, wkt string, srid int) error {
	return GetDB(ctx, r.db).Exec(
		"UPDATE sites SET area = ST_GeomFromText(?, ?) WHERE id = ?",
		wkt, srid, siteID,
	).Error
}

func (r *geoRepository) SetPitArea(ctx context.Context, pitID uuid.UUID, wkt string, srid int) error {
	return GetDB(ctx, r.db).Exec(
		"UPDATE pits SET area = ST_GeomFromText(?, ?) WHERE id = ?",
		wkt, srid, pitID,
	).Error
}

func (r *geoRepository) SiteArea(ctx context.Context, siteID uuid.UUID) (float64, error) {
	var area float64
	err := GetDB(ctx, r.db).Raw(
		"SELECT COALESCE(ST_Area(area), 0) FROM sites WHERE id = ?", siteID,
	).Scan(&area).Error
	return area, err
}

func (r *geoRepository) PitArea(ctx context.Context, pitID uuid.UUID) (float64, error) {
	var area float64
	err := GetDB(ctx, r.db).Raw(
		"SELECT COALESCE(ST_Area(area), 0) FROM pits WHERE id = ?", pitID,
	).Scan(&area).Error
	return area, err
}

func (r *geoRepository) UTMToLatLng(ctx context.Context, p UTMPoint, srid int) (LatLng, error) {
	var res struct {
		Lat float64
		Lng float64
	}
	err := GetDB(ctx, r.db).Raw(
		"SELECT ST_Y(pt) AS lat, ST_X(pt) AS lng FROM (SELECT ST_Transform(ST_SetSRID(ST_MakePoint(?, ?), ?), 4326) AS pt) sub",
		p.Easting, p.Northing, srid,
	).Scan(&res).Error
	if err != nil {
		return LatLng{}, fmt.Errorf("transform UTM point: %w", err)
	}
	return LatLng{Lat: res.Lat, Lng: res.Lng}, nil
}
