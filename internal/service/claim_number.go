package service

import (
	"fmt"
	"strings"
	"time"
)

var romanMonths = [13]string{
	"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII",
}

// RomanMonth renders a 1-based month number in roman numerals, as used in
// claim document numbers. Out-of-range months return an empty string.
func RomanMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return romanMonths[month]
}

// ContractorClaimNumber builds a claim document number from the yearly
// sequence, the contractor's company name, and the creation date, e.g.
// "007/PIK-SRV/PT MAJU JAYA/OB/VIII/2026".
func ContractorClaimNumber(seq int64, ptName string, createdAt time.Time) string {
	return fmt.Sprintf("%03d/PIK-SRV/%s/OB/%s/%d",
		seq,
		strings.ToUpper(strings.TrimSpace(ptName)),
		RomanMonth(int(createdAt.Month())),
		createdAt.Year(),
	)
}

// SurveyorClaimNumber tags a survey with its submission instant.
func SurveyorClaimNumber(submittedAt time.Time) string {
	return fmt.Sprintf("PIK-SRV/%d", submittedAt.Unix())
}
