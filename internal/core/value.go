// Package core holds the domain model for extracted financial hierarchies
// and the cell value parsing used while scanning spreadsheets.
//
// This file parses raw spreadsheet cells into monetary amounts. Source files
// mix plain numbers with Brazilian-formatted currency strings (R$ 1.234,56,
// parenthesized credits), so parsing is deliberately forgiving: anything that
// cannot be read as a number resolves to zero rather than an error.
package core

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cellNoise = regexp.MustCompile(`[^0-9,.\-]`)
	// 1.234 or 1.234.567 with no comma: dots are thousand groups.
	dotGroups = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
)

// ParseCell converts a raw cell value into a float64. Numeric inputs pass
// through; nil and empty inputs yield zero; strings go through ParseAmount.
// It never fails: header text, merged cells and stray annotations all
// resolve to zero.
func ParseCell(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return ParseAmount(x)
	default:
		return 0
	}
}

// ParseAmount parses a monetary string. It strips currency markers and
// percent signs, treats parenthesized values as negative, and normalizes the
// Brazilian number format (thousands ".", decimal ","). Strings without a
// comma keep a trailing dot fraction as the decimal part unless the dots
// form thousand groups. Unparsable input yields zero.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := strings.Contains(s, "(") && strings.Contains(s, ")")

	s = cellNoise.ReplaceAllString(s, "")
	if s == "" || s == "-" {
		return 0
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if dotGroups.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg && f > 0 {
		f = -f
	}
	return f
}
