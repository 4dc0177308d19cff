// Package scanner reverse-engineers the structure of a financial sheet:
// it locates the description, month and annual columns and classifies each
// row as a section header, parent item, sub-item, revenue row or noise.
//
// The source sheets follow loose visual conventions rather than a schema:
// ALL-CAPS section headers (CUSTOS FIXOS, RECEITAS), dash-prefixed sub-items
// under a parent row, pre-aggregated TOTAL rows that must be discarded, and
// Brazilian-formatted currency cells.
package scanner

import (
	"strings"

	"despesas/internal/core"
)

// RowKind classifies a scanned sheet row.
type RowKind int

const (
	RowSkip RowKind = iota
	RowSectionHeader
	RowRevenueHeader
	RowRevenue
	RowParentItem
	RowSubItem
)

func (k RowKind) String() string {
	switch k {
	case RowSectionHeader:
		return "section_header"
	case RowRevenueHeader:
		return "revenue_header"
	case RowRevenue:
		return "revenue"
	case RowParentItem:
		return "parent_item"
	case RowSubItem:
		return "sub_item"
	default:
		return "skip"
	}
}

// ClassifiedRow is one scanned sheet row with its structural role and the
// context it was found in.
type ClassifiedRow struct {
	Label   string
	Kind    RowKind
	Section string // enclosing section header label, "" when none
	Parent  string // enclosing parent item label, sub-items only
	Annual  float64
	Monthly core.Monthly
}

// Columns holds the discovered column layout of a sheet grid.
type Columns struct {
	Description int
	Annual      int            // -1 when absent
	Month       map[string]int // month code -> column index
}

var descriptionHeaders = []string{
	"DESCRIÇÃO", "DESCRICAO", "DESCRIPTION", "CONTA", "ACCOUNT", "DESPESA", "EXPENSE", "ITEM",
}

var annualHeaders = []string{"TOTAL", "ANUAL", "ANNUAL", "SOMA", "SUM", "ACUMULADO"}

// Section labels open a new section when the row label starts with one of
// them. Ordered longest-first so CUSTOS VARIÁVEIS is not shadowed by a
// shorter prefix.
var sectionHeaders = []string{
	"CUSTOS NÃO OPERACIONAIS", "CUSTOS NAO OPERACIONAIS",
	"DESPESAS NÃO OPERACIONAIS", "DESPESAS NAO OPERACIONAIS",
	"DESPESAS ADMINISTRATIVAS", "DESPESAS OPERACIONAIS", "DESPESAS FINANCEIRAS",
	"CUSTOS VARIÁVEIS", "CUSTOS VARIAVEIS", "CUSTOS FIXOS",
	"CUSTO VARIÁVEL", "CUSTO VARIAVEL", "CUSTO FIXO",
	"RECEITAS", "RECEITA",
}

// Revenue rows match RECEITA/FATURAMENTO only. VENDAS is deliberately not a
// revenue marker: it shows up in expense labels such as "Comissões sobre
// Vendas" and "Despesas com Vendas".
var revenueKeywords = []string{"RECEITA", "FATURAMENTO"}

// Pre-aggregated and balance-sheet rows. Matching rows are discarded to
// avoid double counting. Bare LUCRO is deliberately absent: labels such as
// "Distribuição de Lucros" are real expense rows.
var skipPatterns = []string{
	"TOTAL", "SUBTOTAL", "SUB-TOTAL", "SOMA", "CONSOLIDADO",
	"RESULTADO", "EBITDA", "EBIT", "MARGEM",
	"PONTO EQUILÍBRIO", "PONTO EQUILIBRIO",
	"LUCRO LÍQUIDO", "LUCRO LIQUIDO", "PREJUÍZO", "PREJUIZO",
	"COMPOSIÇÃO", "COMPOSICAO", "SALDO", "APLICAÇ", "APLICAC",
	"RETIRADA", "EXCEDENTE",
	"BALANÇO", "BALANCO", "BALANCE", "POSIÇÃO", "POSICAO",
	"ATIVO", "PASSIVO", "PATRIMÔNIO", "PATRIMONIO",
	"DEMONSTRATIVO", "DRE",
}

var currencyPrefixes = []string{"R$", "$", "€", "£"}

// lookahead is how many following rows are inspected for dash-prefixed
// children when deciding whether a parent item stays open.
const lookahead = 4

// DetectColumns locates the description, month and annual columns from the
// header row, falling back to the first free-text column for descriptions.
// It returns core.ErrNoDescriptionColumn when no description column can be
// found; such sheets contribute no data.
func DetectColumns(grid [][]string) (Columns, error) {
	cols := Columns{Description: -1, Annual: -1, Month: map[string]int{}}
	if len(grid) == 0 {
		return cols, core.ErrNoDescriptionColumn
	}

	header := grid[0]
	for idx, cell := range header {
		token := core.NormalizeName(cell)
		if token == "" {
			continue
		}
		if cols.Description == -1 && matchesAny(token, descriptionHeaders) {
			cols.Description = idx
			continue
		}
		monthFound := false
		for _, m := range core.Months {
			if strings.Contains(token, m) {
				if _, taken := cols.Month[m]; !taken {
					cols.Month[m] = idx
				}
				monthFound = true
				break
			}
		}
		if monthFound {
			continue
		}
		if cols.Annual == -1 && matchesAny(token, annualHeaders) {
			cols.Annual = idx
		}
	}

	if cols.Description == -1 {
		cols.Description = firstTextColumn(grid)
	}
	if cols.Description == -1 {
		return cols, core.ErrNoDescriptionColumn
	}
	return cols, nil
}

// firstTextColumn returns the first column holding free text in the early
// data rows, skipping columns already identified as numeric.
func firstTextColumn(grid [][]string) int {
	limit := len(grid)
	if limit > 11 {
		limit = 11
	}
	width := len(grid[0])
	for col := 0; col < width; col++ {
		for row := 1; row < limit; row++ {
			if col >= len(grid[row]) {
				continue
			}
			cell := strings.TrimSpace(grid[row][col])
			if cell != "" && core.ParseAmount(cell) == 0 && len(cell) >= 3 {
				return col
			}
		}
	}
	return -1
}

// Scan classifies every row of the grid. The first row is treated as the
// header and never classified.
func Scan(grid [][]string) ([]ClassifiedRow, error) {
	cols, err := DetectColumns(grid)
	if err != nil {
		return nil, err
	}
	return scanRows(grid, cols), nil
}

func scanRows(grid [][]string, cols Columns) []ClassifiedRow {
	var rows []ClassifiedRow

	currentSection := ""
	currentParent := ""
	inRevenue := false

	for i := 1; i < len(grid); i++ {
		label := rowLabel(grid[i], cols.Description)
		if label == "" {
			continue
		}

		annual, monthly := rowValues(grid[i], cols)

		switch {
		case isNoise(label) || isSkipRow(label):
			rows = append(rows, ClassifiedRow{Label: label, Kind: RowSkip, Section: currentSection})

		case isSectionHeader(label):
			currentSection = label
			currentParent = ""
			inRevenue = isRevenueLabel(label)
			kind := RowSectionHeader
			if inRevenue {
				kind = RowRevenueHeader
			}
			rows = append(rows, ClassifiedRow{Label: label, Kind: kind, Section: currentSection, Annual: annual, Monthly: monthly})

		case isSubItem(label):
			name := strings.TrimSpace(strings.TrimLeft(label, "- "))
			if currentParent == "" || name == "" {
				// Dash row with no open parent is stray formatting.
				rows = append(rows, ClassifiedRow{Label: label, Kind: RowSkip, Section: currentSection})
				continue
			}
			kind := RowSubItem
			if inRevenue {
				kind = RowRevenue
			}
			rows = append(rows, ClassifiedRow{
				Label:   name,
				Kind:    kind,
				Section: currentSection,
				Parent:  currentParent,
				Annual:  annual,
				Monthly: monthly,
			})

		case inRevenue || isRevenueLabel(label):
			currentParent = ""
			rows = append(rows, ClassifiedRow{Label: label, Kind: RowRevenue, Section: currentSection, Annual: annual, Monthly: monthly})

		default:
			// A valueless row only counts when dash children follow:
			// parents may carry no figure of their own, their total
			// comes from the children.
			parent := hasDashChildren(grid, i, cols.Description)
			if annual == 0 && len(monthly) == 0 && !parent {
				rows = append(rows, ClassifiedRow{Label: label, Kind: RowSkip, Section: currentSection})
				continue
			}
			if parent {
				currentParent = label
			} else {
				currentParent = ""
			}
			rows = append(rows, ClassifiedRow{Label: label, Kind: RowParentItem, Section: currentSection, Annual: annual, Monthly: monthly})
		}
	}

	return rows
}

func rowLabel(row []string, descCol int) string {
	if descCol < len(row) {
		if label := strings.TrimSpace(row[descCol]); label != "" {
			return label
		}
	}
	// Merged cells sometimes shift the label into a neighbour column.
	for col := 0; col < 3 && col < len(row); col++ {
		cell := strings.TrimSpace(row[col])
		if cell != "" && core.ParseAmount(cell) == 0 {
			return cell
		}
	}
	return ""
}

// rowValues extracts the row value: annual column when present and non-zero,
// otherwise the sum of the month cells.
func rowValues(row []string, cols Columns) (float64, core.Monthly) {
	monthly := core.Monthly{}
	for m, col := range cols.Month {
		if col < len(row) {
			if v := core.ParseAmount(row[col]); v != 0 {
				monthly[m] = v
			}
		}
	}
	var annual float64
	if cols.Annual >= 0 && cols.Annual < len(row) {
		annual = core.ParseAmount(row[cols.Annual])
	}
	if annual == 0 {
		annual = monthly.Sum()
	}
	if len(monthly) == 0 {
		monthly = nil
	}
	return annual, monthly
}

// hasDashChildren looks ahead a few rows for dash-prefixed children.
func hasDashChildren(grid [][]string, row, descCol int) bool {
	for i := row + 1; i <= row+lookahead && i < len(grid); i++ {
		label := rowLabel(grid[i], descCol)
		if label == "" {
			continue
		}
		if isSubItem(label) {
			return true
		}
		return false
	}
	return false
}

func isSubItem(label string) bool {
	return strings.HasPrefix(label, "-") && !strings.HasPrefix(label, "--")
}

func isSectionHeader(label string) bool {
	norm := core.NormalizeName(label)
	for _, h := range sectionHeaders {
		if strings.HasPrefix(norm, h) {
			return true
		}
	}
	return false
}

func isRevenueLabel(label string) bool {
	norm := core.NormalizeName(label)
	for _, kw := range revenueKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

func isSkipRow(label string) bool {
	norm := core.NormalizeName(label)
	for _, p := range skipPatterns {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

// isNoise flags labels too short to be descriptions or starting with a bare
// currency symbol.
func isNoise(label string) bool {
	if len([]rune(strings.TrimSpace(label))) < 3 {
		return true
	}
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(label, p) {
			return true
		}
	}
	return false
}

func matchesAny(token string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(token, p) {
			return true
		}
	}
	return false
}
