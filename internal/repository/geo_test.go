package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utm(e, n string) UTMPoint {
	easting, err := decimal.NewFromString(e)
	if err != nil {
		panic(err)
	}
	northing, err := decimal.NewFromString(n)
	if err != nil {
		panic(err)
	}
	return UTMPoint{Easting: easting, Northing: northing}
}

func TestPolygonWKT(t *testing.T) {
	t.Run("closes the ring with the first point", func(t *testing.T) {
		wkt, err := PolygonWKT([]UTMPoint{
			utm("400000", "9200000"),
			utm("400100", "9200000"),
			utm("400100", "9200100"),
			utm("400000", "9200100"),
		})
		require.NoError(t, err)
		assert.Equal(t,
			"POLYGON((400000 9200000, 400100 9200000, 400100 9200100, 400000 9200100, 400000 9200000))",
			wkt)
	})

	t.Run("accepts six points", func(t *testing.T) {
		_, err := PolygonWKT([]UTMPoint{
			utm("0", "0"), utm("1", "0"), utm("2", "1"),
			utm("2", "2"), utm("1", "3"), utm("0", "2"),
		})
		assert.NoError(t, err)
	})

	t.Run("rejects fewer than four points", func(t *testing.T) {
		_, err := PolygonWKT([]UTMPoint{utm("0", "0"), utm("1", "0"), utm("1", "1")})
		assert.Error(t, err)
	})

	t.Run("rejects more than six points", func(t *testing.T) {
		points := make([]UTMPoint, 7)
		for i := range points {
			points[i] = utm("0", "0")
		}
		_, err := PolygonWKT(points)
		assert.Error(t, err)
	})
}

func TestSRIDForZone(t *testing.T) {
	tests := []struct {
		zone    string
		want    int
		wantErr bool
	}{
		{"50S", 32750, false},
		{"50N", 32650, false},
		{"33N", 32633, false},
		{"1S", 32701, false},
		{"60N", 32660, false},
		{"50s", 32750, false},
		{" 50S ", 32750, false},
		{"61N", 0, true},
		{"0S", 0, true},
		{"50X", 0, true},
		{"S", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := SRIDForZone(tt.zone)
		if tt.wantErr {
			assert.Error(t, err, "zone %q", tt.zone)
			continue
		}
		require.NoError(t, err, "zone %q", tt.zone)
		assert.Equal(t, tt.want, got, "zone %q", tt.zone)
	}
}
