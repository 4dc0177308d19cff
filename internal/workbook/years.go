package workbook

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Sheets whose names carry these fragments hold charts and comparisons, not
// yearly data.
var skipSheetTerms = []string{"comparativo", "gráfico", "grafico", "projeç", "projec", "dre"}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// ResolveYear maps a sheet name to its fiscal year. Digit-only names parse
// directly; otherwise a 20xx token in the sheet name wins, and result or
// forecast sheets fall back to a 20xx token in the workbook name. Years
// outside 2000..2100 are rejected.
func ResolveYear(sheet, workbookName string) (int, bool) {
	name := strings.TrimSpace(sheet)
	lower := strings.ToLower(name)
	for _, term := range skipSheetTerms {
		if strings.Contains(lower, term) {
			return 0, false
		}
	}

	if y, err := strconv.Atoi(name); err == nil {
		return y, validYear(y)
	}
	if tok := yearPattern.FindString(name); tok != "" {
		y, _ := strconv.Atoi(tok)
		return y, validYear(y)
	}
	if strings.Contains(lower, "resultado") || strings.Contains(lower, "previs") {
		if tok := yearPattern.FindString(workbookName); tok != "" {
			y, _ := strconv.Atoi(tok)
			return y, validYear(y)
		}
	}
	return 0, false
}

func validYear(y int) bool {
	return y >= 2000 && y <= 2100
}

// YearSheets groups candidate sheet names per fiscal year, best first. When
// several sheets resolve to the same year the caller tries them in order and
// keeps the first that yields data.
func YearSheets(names []string, workbookName string) map[int][]string {
	out := map[int][]string{}
	for _, name := range names {
		if year, ok := ResolveYear(name, workbookName); ok {
			out[year] = append(out[year], name)
		}
	}
	for _, sheets := range out {
		sort.SliceStable(sheets, func(i, j int) bool {
			return sheetPriority(sheets[i]) < sheetPriority(sheets[j])
		})
	}
	return out
}

// sheetPriority ranks candidates: closed results beat digit-only year sheets,
// which beat forecasts.
func sheetPriority(name string) int {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "resultado") && !strings.Contains(lower, "previs"):
		return 0
	case digitsOnly(strings.TrimSpace(name)):
		return 1
	case strings.Contains(lower, "previs"):
		return 2
	default:
		return 3
	}
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
