package hierarchy

import "despesas/internal/core"

// Consolidator rebuilds year trees so that mapped subcategories and items
// land in their canonical place regardless of how each source sheet nested
// them. Consolidation is idempotent: consolidating an already consolidated
// record changes nothing.
type Consolidator struct {
	mapping *Mapping
}

// NewConsolidator returns a consolidator using the given mapping, or the
// default mapping when nil.
func NewConsolidator(m *Mapping) *Consolidator {
	if m == nil {
		m = DefaultMapping()
	}
	return &Consolidator{mapping: m}
}

// Consolidate returns a rebuilt copy of the record. The input is not
// modified.
func (c *Consolidator) Consolidate(rec *core.YearRecord) *core.YearRecord {
	out := &core.YearRecord{
		Year: rec.Year,
		Revenue: core.Revenue{
			Annual:  rec.Revenue.Annual,
			Monthly: rec.Revenue.Monthly.Clone(),
		},
	}

	for _, sec := range rec.Sections {
		for _, sub := range sec.Subcategories {
			c.placeSubcategory(out, sec, sub)
		}
	}

	dropEmptySubcategories(out)
	out.Recompute()
	return out
}

// ConsolidateAll consolidates every year, preserving order.
func (c *Consolidator) ConsolidateAll(records []*core.YearRecord) []*core.YearRecord {
	out := make([]*core.YearRecord, len(records))
	for i, rec := range records {
		out[i] = c.Consolidate(rec)
	}
	return out
}

// placeSubcategory copies one subcategory into the output tree. A mapped
// subcategory collapses into a single line item named after it under the
// target, merging with an identically named item when one exists; otherwise
// the subcategory stays put and only its mapped items relocate.
func (c *Consolidator) placeSubcategory(out *core.YearRecord, sec *core.Section, sub *core.Subcategory) {
	if rule, ok := c.mapping.Lookup(sub.Name); ok {
		dst := ensureSubcategory(ensureSection(out, rule.Section), rule.Target)
		annual := sub.Annual
		monthly := sub.Monthly.Clone()
		if annual == 0 && len(sub.Items) > 0 {
			// Subcategory totals not yet recomputed, derive them
			// from the children being absorbed.
			for _, it := range sub.Items {
				annual += it.Annual
				monthly = monthly.Merge(it.Monthly)
			}
		}
		accumulateItem(dst, sub.Name, annual, monthly)
		return
	}

	dst := ensureSubcategory(ensureSection(out, sec.Name), sub.Name)
	kept := make(map[string]bool, len(sub.Items))
	for _, it := range sub.Items {
		if rule, ok := c.mapping.Lookup(it.Name); ok {
			moved := ensureSubcategory(ensureSection(out, rule.Section), rule.Target)
			accumulateItem(moved, it.Name, it.Annual, it.Monthly)
			continue
		}
		accumulateItem(dst, it.Name, it.Annual, it.Monthly)
		kept[core.NormalizeName(it.Name)] = true
	}
	if len(sub.Items) == 0 {
		dst.Annual += sub.Annual
		dst.Monthly = dst.Monthly.Merge(sub.Monthly)
	}
	copyDetails(dst, sub, kept)
}

// copyDetails re-indexes the kept items of dst under the source's detail
// categories. Details of relocated items are dropped with them.
func copyDetails(dst *core.Subcategory, src *core.Subcategory, kept map[string]bool) {
	for _, d := range src.Details {
		for _, it := range d.Items {
			if !kept[core.NormalizeName(it.Name)] {
				continue
			}
			target := dst.Item(it.Name)
			if target == nil {
				continue
			}
			nd := dst.Detail(d.Name)
			if nd == nil {
				nd = &core.DetailCategory{Name: d.Name}
				dst.Details = append(dst.Details, nd)
			}
			nd.Items = append(nd.Items, target)
		}
	}
}

func accumulateItem(sub *core.Subcategory, name string, annual float64, monthly core.Monthly) {
	it := sub.Item(name)
	if it == nil {
		it = &core.LineItem{Name: name, Monthly: core.Monthly{}}
		sub.Items = append(sub.Items, it)
	}
	it.Annual += annual
	it.Monthly = it.Monthly.Merge(monthly)
}

func dropEmptySubcategories(rec *core.YearRecord) {
	for _, sec := range rec.Sections {
		subs := sec.Subcategories[:0]
		for _, sub := range sec.Subcategories {
			if !sub.Empty() {
				subs = append(subs, sub)
			}
		}
		sec.Subcategories = subs
	}
}
