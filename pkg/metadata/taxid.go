package metadata

import (
	"fmt"
	"strings"
)

const TaxIDLength = 14

// NormalizeTaxID strips every non-digit character.
func NormalizeTaxID(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

func NewTaxID(value string) (string, error) {
	digits := NormalizeTaxID(value)
	if len(digits) != TaxIDLength {
		return "", fmt.Errorf("tax id must have %d digits, got %d", TaxIDLength, len(digits))
	}
	return digits, nil
}
