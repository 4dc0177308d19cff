package services

import (
	"context"
	"errors"
	"testing"

	"despesas/internal/core"
	"despesas/internal/workbook/memory"
)

func yearGrid(annual string) [][]string {
	return [][]string{
		{"Descrição", "JAN", "FEV", "TOTAL"},
		{"RECEITAS", "", "", ""},
		{"Faturamento", "5000", "5000", "10000"},
		{"CUSTOS FIXOS", "", "", ""},
		{"Energia Elétrica", "100", "100", annual},
		{"Funcionários", "", "", "3000"},
		{"- Salários", "1200", "1200", "2400"},
		{"- FGTS", "300", "300", "600"},
		{"TOTAL CUSTOS FIXOS", "1600", "1600", "4200"},
	}
}

func TestExtractWorkbook(t *testing.T) {
	src := memory.New("resultado.xlsx").
		SetSheet("2023", yearGrid("1200")).
		SetSheet("2024", yearGrid("1500")).
		SetSheet("Gráfico", [][]string{{"só gráfico"}})

	svc := NewExtractionService(nil)
	got, err := svc.Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(got.Records))
	}
	if got.Records[0].Year != 2023 || got.Records[1].Year != 2024 {
		t.Errorf("years = %v", got.Years())
	}

	for _, rec := range got.Records {
		if rec.Revenue.Annual != 10000 {
			t.Errorf("year %d: revenue = %v, want 10000", rec.Year, rec.Revenue.Annual)
		}
		fixos := rec.Section("Custos Fixos")
		if fixos == nil {
			t.Fatalf("year %d: missing Custos Fixos", rec.Year)
		}
		// Consolidation folds the standalone subcategory into Infraestrutura.
		infra := fixos.Subcategory("Infraestrutura")
		if infra == nil || infra.Item("Energia Elétrica") == nil {
			t.Fatalf("year %d: Energia Elétrica not consolidated", rec.Year)
		}
		if fixos.Subcategory("Energia Elétrica") != nil {
			t.Errorf("year %d: standalone Energia Elétrica survived", rec.Year)
		}
		if sub := fixos.Subcategory("Funcionários"); sub == nil || sub.Annual != 3000 {
			t.Errorf("year %d: Funcionários = %+v", rec.Year, sub)
		}
	}

	if got.Records[0].Section("Custos Fixos").Subcategory("Infraestrutura").Item("Energia Elétrica").Annual != 1200 {
		t.Error("2023 Energia Elétrica value wrong")
	}
	if got.Records[1].Section("Custos Fixos").Subcategory("Infraestrutura").Item("Energia Elétrica").Annual != 1500 {
		t.Error("2024 Energia Elétrica value wrong")
	}
}

func TestExtractNoYearSheets(t *testing.T) {
	src := memory.New("notas.xlsx").SetSheet("Resumo", [][]string{{"nada"}})

	_, err := NewExtractionService(nil).Extract(context.Background(), src)
	if !errors.Is(err, core.ErrNoYearSheets) {
		t.Fatalf("err = %v, want ErrNoYearSheets", err)
	}
}

func TestExtractPrefersResultSheet(t *testing.T) {
	src := memory.New("Resultado Financeiro - 2024.xlsx").
		SetSheet("Previsão", yearGrid("999")).
		SetSheet("Resultado", yearGrid("1500"))

	got, err := NewExtractionService(nil).Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].Year != 2024 {
		t.Fatalf("records = %v", got.Years())
	}
	infra := got.Records[0].Section("Custos Fixos").Subcategory("Infraestrutura")
	if infra == nil || infra.Item("Energia Elétrica") == nil {
		t.Fatal("missing consolidated item")
	}
	if infra.Item("Energia Elétrica").Annual != 1500 {
		t.Errorf("value = %v, want the result sheet's 1500", infra.Item("Energia Elétrica").Annual)
	}
}

func TestExtractFallsBackToNextCandidate(t *testing.T) {
	src := memory.New("Resultado Financeiro - 2024.xlsx").
		SetSheet("Resultado", [][]string{{"sem", "colunas", "uteis"}}).
		SetSheet("Previsão", yearGrid("800"))

	got, err := NewExtractionService(nil).Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got.Records) != 1 {
		t.Fatalf("records = %v", got.Years())
	}
	infra := got.Records[0].Section("Custos Fixos").Subcategory("Infraestrutura")
	if infra == nil || infra.Item("Energia Elétrica") == nil || infra.Item("Energia Elétrica").Annual != 800 {
		t.Fatal("forecast sheet fallback failed")
	}
}

// faultySource fails grid reads for one sheet while listing it normally.
type faultySource struct {
	*memory.Workbook
	failSheet string
}

func (f *faultySource) Grid(ctx context.Context, sheet string) ([][]string, error) {
	if sheet == f.failSheet {
		return nil, errors.New("range read failed")
	}
	return f.Workbook.Grid(ctx, sheet)
}

func TestExtractSkipsUnreadableSheet(t *testing.T) {
	src := &faultySource{
		Workbook: memory.New("Resultado Financeiro - 2024.xlsx").
			SetSheet("Resultado", yearGrid("1500")).
			SetSheet("Previsão", yearGrid("800")),
		failSheet: "Resultado",
	}

	got, err := NewExtractionService(nil).Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].Year != 2024 {
		t.Fatalf("records = %v", got.Years())
	}
	infra := got.Records[0].Section("Custos Fixos").Subcategory("Infraestrutura")
	if infra == nil || infra.Item("Energia Elétrica") == nil || infra.Item("Energia Elétrica").Annual != 800 {
		t.Fatal("unreadable sheet was not skipped in favour of the next candidate")
	}
}
