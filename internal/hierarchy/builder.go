package hierarchy

import (
	"despesas/internal/core"
	"despesas/internal/scanner"
)

// Build assembles one year's scanned rows into the canonical expense tree.
// Sections come from the taxonomy main categories, subcategories from parent
// rows, line items from their dash-prefixed children. Revenue rows never
// enter the cost sections.
func Build(year int, rows []scanner.ClassifiedRow) *core.YearRecord {
	return BuildWithSource(year, rows, "")
}

// BuildWithSource is Build with an upstream source bucket hint forwarded to
// the classifier for labels neither keywords nor section context resolve.
func BuildWithSource(year int, rows []scanner.ClassifiedRow, source string) *core.YearRecord {
	b := &builder{
		record: &core.YearRecord{Year: year, Revenue: core.Revenue{Monthly: core.Monthly{}}},
		source: source,
	}
	for _, row := range rows {
		switch row.Kind {
		case scanner.RowRevenue:
			b.record.Revenue.Annual += row.Annual
			b.record.Revenue.Monthly = b.record.Revenue.Monthly.Merge(row.Monthly)
		case scanner.RowRevenueHeader:
			b.headerRevenue.Annual += row.Annual
			b.headerRevenue.Monthly = b.headerRevenue.Monthly.Merge(row.Monthly)
		case scanner.RowParentItem:
			b.addParent(row)
		case scanner.RowSubItem:
			b.addSubItem(row)
		}
	}
	// Revenue section headers often repeat the sum of the rows below them;
	// their value only counts when no revenue data rows carried one.
	if b.record.Revenue.Annual == 0 && b.headerRevenue.Annual != 0 {
		b.record.Revenue = b.headerRevenue
	}
	b.record.Recompute()
	return b.record
}

type builder struct {
	record        *core.YearRecord
	source        string
	headerRevenue core.Revenue
}

// addParent places a standalone or parent row. A plain label becomes a
// subcategory named after the row; a "Item/Detail" label becomes a line item
// inside its taxonomy subcategory instead.
func (b *builder) addParent(row scanner.ClassifiedRow) {
	res := ClassifyWithSource(row.Label, row.Section, b.source)
	sec := ensureSection(b.record, res.MainName)
	if res.DetailCategory != "" {
		sub := ensureSubcategory(sec, res.SubcategoryName)
		b.addItem(sub, res.ItemName, res.DetailCategory, row)
		return
	}
	sub := ensureSubcategory(sec, res.ItemName)
	sub.Annual += row.Annual
	sub.Monthly = sub.Monthly.Merge(row.Monthly)
}

// addSubItem places a dash-prefixed child under the subcategory named after
// its parent row. The parent's classification decides the section so a
// parent's children never scatter across sections.
func (b *builder) addSubItem(row scanner.ClassifiedRow) {
	parent := ClassifyWithSource(row.Parent, row.Section, b.source)
	sec := ensureSection(b.record, parent.MainName)
	sub := ensureSubcategory(sec, parent.ItemName)
	item, detail := SplitDetail(row.Label)
	b.addItem(sub, item, detail, row)
}

// addItem accumulates a row into the named line item, creating it when
// absent, and indexes it under a detail category when the label carried one.
func (b *builder) addItem(sub *core.Subcategory, name, detail string, row scanner.ClassifiedRow) {
	it := sub.Item(name)
	if it == nil {
		it = &core.LineItem{Name: name, Monthly: core.Monthly{}}
		sub.Items = append(sub.Items, it)
	}
	it.Annual += row.Annual
	it.Monthly = it.Monthly.Merge(row.Monthly)

	if detail == "" {
		return
	}
	d := sub.Detail(detail)
	if d == nil {
		d = &core.DetailCategory{Name: detail}
		sub.Details = append(sub.Details, d)
	}
	for _, existing := range d.Items {
		if existing == it {
			return
		}
	}
	d.Items = append(d.Items, it)
}

// ensureSection finds a section by normalized name or appends a new one.
func ensureSection(rec *core.YearRecord, name string) *core.Section {
	if sec := rec.Section(name); sec != nil {
		return sec
	}
	sec := &core.Section{Name: name, Monthly: core.Monthly{}}
	rec.Sections = append(rec.Sections, sec)
	return sec
}

func ensureSubcategory(sec *core.Section, name string) *core.Subcategory {
	if sub := sec.Subcategory(name); sub != nil {
		return sub
	}
	sub := &core.Subcategory{Name: name, Monthly: core.Monthly{}}
	sec.Subcategories = append(sec.Subcategories, sub)
	return sub
}
