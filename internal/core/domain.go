package core

import (
	"errors"
	"strings"
)

// Months are the fixed 3-letter Portuguese month codes used by the source
// spreadsheets, in fiscal order.
var Months = []string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

type (
	// Monthly maps a month code (JAN..DEZ) to a monetary value. Zero months
	// are omitted.
	Monthly map[string]float64

	// LineItem is a leaf of the expense hierarchy.
	LineItem struct {
		Name    string  `json:"name"`
		Annual  float64 `json:"value"`
		Monthly Monthly `json:"monthly,omitempty"`
	}

	// DetailCategory is the optional third level, derived from a "/" suffix
	// in the source label (e.g. "Salários/Funcionários").
	DetailCategory struct {
		Name   string      `json:"name"`
		Annual float64     `json:"value"`
		Items  []*LineItem `json:"items"`
	}

	// Subcategory groups line items under a section. When Details is
	// non-empty its Annual equals the sum of detail totals, otherwise the
	// sum of item totals.
	Subcategory struct {
		Name    string            `json:"name"`
		Annual  float64           `json:"value"`
		Monthly Monthly           `json:"monthly,omitempty"`
		Items   []*LineItem       `json:"items,omitempty"`
		Details []*DetailCategory `json:"detail_categories,omitempty"`
	}

	// Section is a top-level cost bucket (CUSTOS FIXOS, CUSTOS VARIÁVEIS, ...).
	Section struct {
		Name          string         `json:"name"`
		Annual        float64        `json:"value"`
		Monthly       Monthly        `json:"monthly,omitempty"`
		Subcategories []*Subcategory `json:"subcategories"`
	}

	// Revenue holds the values of revenue-classified rows. Revenue never
	// enters Sections.
	Revenue struct {
		Annual  float64 `json:"annual"`
		Monthly Monthly `json:"monthly,omitempty"`
	}

	// YearRecord is the extracted hierarchy for one fiscal year.
	YearRecord struct {
		Year     int        `json:"year"`
		Revenue  Revenue    `json:"revenue"`
		Sections []*Section `json:"sections"`
	}
)

var (
	ErrNoDescriptionColumn = errors.New("no description column detected")
	ErrNoYearSheets        = errors.New("no sheet resolves to a fiscal year")
)

// NormalizeName canonicalizes a label for comparisons: trimmed, upper-cased,
// underscores treated as spaces.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
}

// SameName reports whether two labels are equal after normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

func (m Monthly) Clone() Monthly {
	if m == nil {
		return nil
	}
	out := make(Monthly, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge adds the other map key-wise into m and returns m. A nil receiver
// allocates.
func (m Monthly) Merge(other Monthly) Monthly {
	if len(other) == 0 {
		return m
	}
	if m == nil {
		m = make(Monthly, len(other))
	}
	for k, v := range other {
		m[k] += v
	}
	return m
}

// Sum returns the sum of all monthly values.
func (m Monthly) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

func (it *LineItem) Clone() *LineItem {
	if it == nil {
		return nil
	}
	return &LineItem{Name: it.Name, Annual: it.Annual, Monthly: it.Monthly.Clone()}
}

// Recompute refreshes the detail total from its items.
func (d *DetailCategory) Recompute() {
	d.Annual = 0
	for _, it := range d.Items {
		d.Annual += it.Annual
	}
}

// Detail returns the detail category with the given name, or nil.
func (s *Subcategory) Detail(name string) *DetailCategory {
	for _, d := range s.Details {
		if SameName(d.Name, name) {
			return d
		}
	}
	return nil
}

// Item returns the line item with the given name, or nil.
func (s *Subcategory) Item(name string) *LineItem {
	for _, it := range s.Items {
		if SameName(it.Name, name) {
			return it
		}
	}
	return nil
}

// Recompute refreshes the subcategory totals bottom-up. With line items the
// annual total is their sum; with only detail categories it is the sum of
// detail totals. A childless subcategory keeps the value scanned from its
// source row.
func (s *Subcategory) Recompute() {
	for _, d := range s.Details {
		d.Recompute()
	}
	if len(s.Items) > 0 {
		s.Annual = 0
		for _, it := range s.Items {
			s.Annual += it.Annual
		}
		s.Monthly = Monthly{}
		for _, it := range s.Items {
			s.Monthly = s.Monthly.Merge(it.Monthly)
		}
	} else if len(s.Details) > 0 {
		s.Annual = 0
		for _, d := range s.Details {
			s.Annual += d.Annual
		}
	}
}

// Empty reports whether the subcategory carries no value and no children.
func (s *Subcategory) Empty() bool {
	return s.Annual == 0 && len(s.Items) == 0 && len(s.Details) == 0
}

// Subcategory returns the subcategory with the given name, or nil.
func (sec *Section) Subcategory(name string) *Subcategory {
	for _, s := range sec.Subcategories {
		if SameName(s.Name, name) {
			return s
		}
	}
	return nil
}

// Recompute refreshes the section totals from its subcategories.
func (sec *Section) Recompute() {
	sec.Annual = 0
	sec.Monthly = Monthly{}
	for _, s := range sec.Subcategories {
		s.Recompute()
		sec.Annual += s.Annual
		sec.Monthly = sec.Monthly.Merge(s.Monthly)
	}
}

// Empty reports whether the section carries no value and no children.
func (sec *Section) Empty() bool {
	return sec.Annual == 0 && len(sec.Subcategories) == 0
}

// Section returns the section with the given name, or nil.
func (y *YearRecord) Section(name string) *Section {
	for _, sec := range y.Sections {
		if SameName(sec.Name, name) {
			return sec
		}
	}
	return nil
}

// Recompute refreshes every total in the record bottom-up and drops sections
// left with no value and no children.
func (y *YearRecord) Recompute() {
	kept := y.Sections[:0]
	for _, sec := range y.Sections {
		sec.Recompute()
		if !sec.Empty() {
			kept = append(kept, sec)
		}
	}
	y.Sections = kept
}

// TotalCosts is the sum of all section totals. Revenue is excluded.
func (y *YearRecord) TotalCosts() float64 {
	var total float64
	for _, sec := range y.Sections {
		total += sec.Annual
	}
	return total
}
