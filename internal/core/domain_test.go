package core

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"  Energia Elétrica ", "ENERGIA ELÉTRICA"},
		{"custos_fixos", "CUSTOS FIXOS"},
		{"CUSTOS FIXOS", "CUSTOS FIXOS"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.out {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
	if !SameName("energia elétrica", "ENERGIA ELÉTRICA") {
		t.Error("SameName should ignore case")
	}
}

func TestMonthlyMerge(t *testing.T) {
	var m Monthly
	m = m.Merge(Monthly{"JAN": 100, "FEV": 50})
	m = m.Merge(Monthly{"JAN": 25})
	if m["JAN"] != 125 || m["FEV"] != 50 {
		t.Fatalf("unexpected merge result: %v", m)
	}
	if got := m.Sum(); got != 175 {
		t.Fatalf("Sum = %v, want 175", got)
	}
}

func TestRecomputeTotals(t *testing.T) {
	sub := &Subcategory{
		Name: "Pessoal",
		Items: []*LineItem{
			{Name: "Salários", Annual: 1000, Monthly: Monthly{"JAN": 500, "FEV": 500}},
			{Name: "FGTS", Annual: 200, Monthly: Monthly{"JAN": 200}},
		},
	}
	sec := &Section{Name: "CUSTOS FIXOS", Subcategories: []*Subcategory{sub}}
	year := &YearRecord{Year: 2023, Sections: []*Section{sec}}

	year.Recompute()

	if sub.Annual != 1200 {
		t.Errorf("subcategory annual = %v, want 1200", sub.Annual)
	}
	if sec.Annual != 1200 {
		t.Errorf("section annual = %v, want 1200", sec.Annual)
	}
	if sec.Monthly["JAN"] != 700 {
		t.Errorf("section JAN = %v, want 700", sec.Monthly["JAN"])
	}
	if year.TotalCosts() != 1200 {
		t.Errorf("total costs = %v, want 1200", year.TotalCosts())
	}
}

func TestRecomputeWithDetails(t *testing.T) {
	sub := &Subcategory{
		Name: "Pessoal",
		Items: []*LineItem{
			{Name: "Salários", Annual: 800},
			{Name: "Pró-labore", Annual: 400},
		},
		Details: []*DetailCategory{
			{Name: "Funcionários", Items: []*LineItem{{Name: "Salários", Annual: 800}}},
			{Name: "Diretoria", Items: []*LineItem{{Name: "Pró-labore", Annual: 400}}},
		},
	}
	sub.Recompute()
	if sub.Annual != 1200 {
		t.Fatalf("annual with details = %v, want 1200", sub.Annual)
	}
	if d := sub.Detail("funcionários"); d == nil || d.Annual != 800 {
		t.Fatalf("detail lookup failed: %+v", d)
	}
}

func TestRecomputeKeepsChildlessSubcategoryValue(t *testing.T) {
	sub := &Subcategory{
		Name:    "Energia Elétrica",
		Annual:  1200,
		Monthly: Monthly{"JAN": 100},
	}
	sub.Recompute()
	if sub.Annual != 1200 {
		t.Fatalf("annual = %v, want 1200", sub.Annual)
	}
	if sub.Monthly["JAN"] != 100 {
		t.Fatalf("JAN = %v, want 100", sub.Monthly["JAN"])
	}
}

func TestRecomputeDropsEmptySections(t *testing.T) {
	year := &YearRecord{
		Year: 2024,
		Sections: []*Section{
			{Name: "CUSTOS FIXOS", Subcategories: []*Subcategory{
				{Name: "Pessoal", Items: []*LineItem{{Name: "Salários", Annual: 100}}},
			}},
			{Name: "VAZIA"},
		},
	}
	year.Recompute()
	if len(year.Sections) != 1 {
		t.Fatalf("expected empty section dropped, got %d sections", len(year.Sections))
	}
	if year.Section("vazia") != nil {
		t.Error("empty section still reachable")
	}
}
