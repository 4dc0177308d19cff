package hierarchy

import "testing"

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		wantMain string
		wantSub  string
	}{
		{"salaries", "Salários", CatFixos, "pessoal"},
		{"fgts", "FGTS sobre folha", CatFixos, "pessoal"},
		{"electricity", "Energia Elétrica", CatFixos, "ocupacao"},
		{"rent", "Aluguel da sede", CatFixos, "ocupacao"},
		{"accounting", "Escritório Contábil", CatFixos, "servicos_profissionais"},
		{"lawyers", "Advogados", CatFixos, "servicos_profissionais"},
		{"software", "Licença de Software", CatFixos, "tecnologia"},
		{"insurance", "Seguro Empresarial", CatFixos, "seguros"},
		{"banking", "Tarifas Bancárias", CatFixos, "financeiras"},
		{"taxes", "Simples Nacional", CatFixos, "impostos_taxas"},
		{"commissions", "Comissões sobre Vendas", CatVariaveis, "comissoes"},
		{"freight", "Frete de Entrega", CatVariaveis, "custos_producao"},
		{"marketing", "Campanha de Marketing", CatVariaveis, "marketing_vendas"},
		{"travel", "Viagens Comerciais", CatVariaveis, "comerciais"},
		{"provision", "Provisão para Contingências", CatNaoOperacional, "provisoes"},
		{"fine", "Multa de Trânsito", CatNaoOperacional, "multas_penalidades"},
		{"unknown", "Despesa Misteriosa", CatNaoOperacional, "extraordinarias"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.label)
			if got.MainCategory != tt.wantMain {
				t.Errorf("main = %q, want %q", got.MainCategory, tt.wantMain)
			}
			if got.Subcategory != tt.wantSub {
				t.Errorf("sub = %q, want %q", got.Subcategory, tt.wantSub)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "escritório" belongs to administrativas but "contábil" is listed
	// earlier under serviços profissionais, so the earlier rule wins.
	got := Classify("Escritório Contábil")
	if got.Subcategory != "servicos_profissionais" {
		t.Fatalf("sub = %q, want servicos_profissionais", got.Subcategory)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("Condomínio do Prédio")
	for i := 0; i < 50; i++ {
		if got := Classify("Condomínio do Prédio"); got != first {
			t.Fatalf("iteration %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestClassifySectionFallback(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		wantMain string
		wantSub  string
	}{
		{"variable section", "CUSTOS VARIÁVEIS", CatVariaveis, "custos_producao"},
		{"non operational section", "CUSTOS NÃO OPERACIONAIS", CatNaoOperacional, "extraordinarias"},
		{"fixed section", "CUSTOS FIXOS", CatFixos, "administrativas"},
		{"financial section", "DESPESAS FINANCEIRAS", CatFixos, "financeiras"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInSection("Rubrica Genérica", tt.section)
			if got.MainCategory != tt.wantMain || got.Subcategory != tt.wantSub {
				t.Errorf("got %s/%s, want %s/%s",
					got.MainCategory, got.Subcategory, tt.wantMain, tt.wantSub)
			}
		})
	}
}

func TestClassifyKeywordBeatsSection(t *testing.T) {
	got := ClassifyInSection("Comissões", "CUSTOS FIXOS")
	if got.MainCategory != CatVariaveis || got.Subcategory != "comissoes" {
		t.Fatalf("got %s/%s, want keyword match custos_variaveis/comissoes",
			got.MainCategory, got.Subcategory)
	}
}

func TestClassifySourceBucketFallback(t *testing.T) {
	got := ClassifyWithSource("Rubrica Genérica", "", "marketing_expenses")
	if got.MainCategory != CatVariaveis || got.Subcategory != "marketing_vendas" {
		t.Fatalf("got %s/%s, want custos_variaveis/marketing_vendas",
			got.MainCategory, got.Subcategory)
	}

	// Section context outranks the source bucket.
	got = ClassifyWithSource("Rubrica Genérica", "CUSTOS VARIÁVEIS", "taxes")
	if got.Subcategory != "custos_producao" {
		t.Fatalf("sub = %q, want custos_producao", got.Subcategory)
	}
}

func TestSplitDetail(t *testing.T) {
	tests := []struct {
		label      string
		wantItem   string
		wantDetail string
	}{
		{"Salários/Funcionários", "Salários", "funcionários"},
		{"Salários / Funcionários", "Salários", "funcionários"},
		{"Energia Elétrica", "Energia Elétrica", ""},
		{"/Órfão", "/Órfão", ""},
	}
	for _, tt := range tests {
		item, detail := SplitDetail(tt.label)
		if item != tt.wantItem || detail != tt.wantDetail {
			t.Errorf("SplitDetail(%q) = (%q, %q), want (%q, %q)",
				tt.label, item, detail, tt.wantItem, tt.wantDetail)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	if got := CategoryName(CatFixos); got != "Custos Fixos" {
		t.Errorf("CategoryName = %q", got)
	}
	if got := SubcategoryName(CatFixos, "ocupacao"); got != "Ocupação e Utilidades" {
		t.Errorf("SubcategoryName = %q", got)
	}
	if got := SubcategoryName(CatFixos, "nope"); got != "nope" {
		t.Errorf("unknown subcategory = %q, want id echoed", got)
	}
}
