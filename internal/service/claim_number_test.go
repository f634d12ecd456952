package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRomanMonth(t *testing.T) {
	assert.Equal(t, "I", RomanMonth(1))
	assert.Equal(t, "IV", RomanMonth(4))
	assert.Equal(t, "VIII", RomanMonth(8))
	assert.Equal(t, "XII", RomanMonth(12))
	assert.Equal(t, "", RomanMonth(0))
	assert.Equal(t, "", RomanMonth(13))
}

func TestContractorClaimNumber(t *testing.T) {
	createdAt := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

	t.Run("formats sequence, company, roman month and year", func(t *testing.T) {
		got := ContractorClaimNumber(7, "PT Maju Jaya", createdAt)
		assert.Equal(t, "007/PIK-SRV/PT MAJU JAYA/OB/VIII/2026", got)
	})

	t.Run("sequence keeps growing past three digits", func(t *testing.T) {
		got := ContractorClaimNumber(1042, "PT Maju Jaya", createdAt)
		assert.Equal(t, "1042/PIK-SRV/PT MAJU JAYA/OB/VIII/2026", got)
	})

	t.Run("company name is trimmed and uppercased", func(t *testing.T) {
		got := ContractorClaimNumber(1, "  pt kecil  ", time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, "001/PIK-SRV/PT KECIL/OB/I/2025", got)
	})
}

func TestSurveyorClaimNumber(t *testing.T) {
	at := time.Date(2026, time.March, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "PIK-SRV/1772368200", SurveyorClaimNumber(at))
}
