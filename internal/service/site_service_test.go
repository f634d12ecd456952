package service

import (
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(e, n string) repository.UTMPoint {
	points, err := parseCoordinates([]CoordinateInput{{PointOrder: 1, Easting: e, Northing: n}})
	if err != nil {
		panic(err)
	}
	return points[0]
}

func TestSiteNumber(t *testing.T) {
	points := []repository.UTMPoint{
		point("412345.500", "9123456.250"),
		point("413000.000", "9123500.000"),
		point("413100.000", "9124000.000"),
		point("412400.000", "9124100.000"),
	}

	got := siteNumber("Tanjung Harapan", points)
	assert.Equal(t, "TANJUNG HARAPAN - 49494949", got)
}

func TestSiteNumberTrimsName(t *testing.T) {
	points := []repository.UTMPoint{
		point("500000", "1000000"),
		point("500010", "1000000"),
		point("500010", "1000010"),
		point("500000", "1000010"),
	}
	got := siteNumber("  pit utara ", points)
	assert.Equal(t, "PIT UTARA - 51515151", got)
}

func TestParseCoordinates(t *testing.T) {
	t.Run("parses decimal strings", func(t *testing.T) {
		points, err := parseCoordinates([]CoordinateInput{
			{PointOrder: 1, Easting: "412345.5", Northing: "9123456.25"},
		})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "412345.5", points[0].Easting.String())
	})

	t.Run("rejects non-numeric easting", func(t *testing.T) {
		_, err := parseCoordinates([]CoordinateInput{
			{PointOrder: 1, Easting: "abc", Northing: "9123456"},
		})
		assert.Error(t, err)
	})
}
