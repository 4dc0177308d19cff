// Package hierarchy turns classified sheet rows into the canonical expense
// tree: keyword classification into a fixed taxonomy, per-year tree building
// and cross-year consolidation.
package hierarchy

import (
	"strings"

	"despesas/internal/core"
)

// Main category identifiers. The taxonomy is fixed: three main categories,
// each with an ordered list of subcategories.
const (
	CatFixos          = "custos_fixos"
	CatVariaveis      = "custos_variaveis"
	CatNaoOperacional = "custos_nao_operacionais"
)

// Result is the taxonomy placement of one expense label.
type Result struct {
	MainCategory    string
	MainName        string
	Subcategory     string
	SubcategoryName string
	// DetailCategory is the lower-cased "/" suffix of the label, "" when absent.
	DetailCategory string
	// ItemName is the label with any "/" suffix removed.
	ItemName string
}

type subcatRule struct {
	id       string
	name     string
	keywords []string
}

type mainRule struct {
	id   string
	name string
	subs []subcatRule
}

// taxonomy is iterated in declaration order and the first keyword match
// wins, so more specific subcategories must be declared before generic
// ones. Reordering entries changes classification results.
var taxonomy = []mainRule{
	{
		id:   CatFixos,
		name: "Custos Fixos",
		subs: []subcatRule{
			{id: "pessoal", name: "Pessoal", keywords: []string{
				"salário", "salarios", "férias", "ferias", "13º", "fgts", "inss",
				"vale", "benefício", "beneficio", "plano de saúde", "plano saude",
				"alimentação", "alimentacao", "transporte", "rescisão", "rescisao",
				"folha", "funcionário", "funcionario", "colaborador", "pro labore", "pró-labore",
			}},
			{id: "ocupacao", name: "Ocupação e Utilidades", keywords: []string{
				"aluguel", "condomínio", "condominio", "iptu", "energia",
				"água", "agua", "luz", "internet", "telefone", "gás", "gas",
				"limpeza", "segurança", "seguranca", "manutenção", "manutencao",
				"infraestrutura",
			}},
			{id: "servicos_profissionais", name: "Serviços Profissionais", keywords: []string{
				"contabilidade", "contador", "contábil", "contabil", "jurídico", "juridico",
				"advocacia", "advogado", "consultoria", "auditoria", "assessoria",
				"profissional", "terceirizado", "prestador",
			}},
			{id: "tecnologia", name: "Tecnologia e Sistemas", keywords: []string{
				"software", "sistema", "licença", "licenca", "informática", "informatica",
				"computador", "servidor", "cloud", "nuvem", "assinatura", "plataforma",
			}},
			{id: "seguros", name: "Seguros", keywords: []string{
				"seguro", "apólice", "apolice", "proteção", "protecao", "cobertura", "sinistro",
			}},
			{id: "administrativas", name: "Despesas Administrativas", keywords: []string{
				"administrativo", "administração", "administracao", "escritório", "escritorio",
				"material", "papelaria", "correio", "cartório", "cartorio",
				"documentação", "documentacao", "despesa administrativa",
			}},
			{id: "financeiras", name: "Despesas Financeiras", keywords: []string{
				"financeiro", "banco", "tarifa", "juros", "iof", "taxa",
				"cobrança", "cobranca", "cartão", "cartao", "despesa financeira",
				"tarifa bancária", "tarifa bancaria",
			}},
			{id: "impostos_taxas", name: "Impostos e Taxas", keywords: []string{
				"imposto", "tributo", "iss", "icms", "pis", "cofins", "csll",
				"irpj", "iptu", "contribuição", "contribuicao", "simples nacional",
			}},
		},
	},
	{
		id:   CatVariaveis,
		name: "Custos Variáveis",
		subs: []subcatRule{
			{id: "comissoes", name: "Comissões e Repasses", keywords: []string{
				"comissão", "comissao", "repasse", "corretagem", "agenciamento",
				"intermediação", "intermediacao", "parceiro", "afiliado",
			}},
			{id: "custos_producao", name: "Custos de Produção", keywords: []string{
				"produção", "producao", "insumo", "matéria prima", "materia prima",
				"embalagem", "frete", "logística", "logistica",
			}},
			{id: "marketing_vendas", name: "Marketing e Vendas", keywords: []string{
				"marketing", "publicidade", "propaganda", "campanha", "anúncio", "anuncio",
				"mídia", "midia", "divulgação", "divulgacao", "promoção", "promocao", "evento",
			}},
			{id: "comerciais", name: "Despesas Comerciais", keywords: []string{
				"comercial", "venda", "cliente", "negociação", "negociacao",
				"representação", "representacao", "viagem", "hospedagem",
				"deslocamento", "viagens",
			}},
		},
	},
	{
		id:   CatNaoOperacional,
		name: "Custos Não Operacionais",
		subs: []subcatRule{
			{id: "extraordinarias", name: "Extraordinárias", keywords: []string{
				"extraordinário", "extraordinario", "eventual", "imprevisto",
				"emergência", "emergencia", "excepcional", "único", "unico",
			}},
			{id: "provisoes", name: "Provisões e Reservas", keywords: []string{
				"provisão", "provisao", "reserva", "contingência", "contingencia",
				"depreciação", "depreciacao", "amortização", "amortizacao",
			}},
			{id: "multas_penalidades", name: "Multas e Penalidades", keywords: []string{
				"multa", "penalidade", "infração", "infracao", "autuação", "autuacao",
				"processo", "judicial",
			}},
		},
	},
}

// sectionHints resolve labels that match no keyword by inspecting the
// enclosing section name.
var sectionHints = []struct {
	substring string
	main, sub string
}{
	{"CUSTOS VARIÁVEIS", CatVariaveis, "custos_producao"},
	{"CUSTOS VARIAVEIS", CatVariaveis, "custos_producao"},
	{"NÃO OPERACIONA", CatNaoOperacional, "extraordinarias"},
	{"NAO OPERACIONA", CatNaoOperacional, "extraordinarias"},
	{"CUSTOS FIXOS", CatFixos, "administrativas"},
	{"ADMINISTRATIV", CatFixos, "administrativas"},
	{"OPERACIONAL", CatFixos, "administrativas"},
	{"FINANCEIRA", CatFixos, "financeiras"},
}

// sourceBuckets map the coarse buckets produced by simpler upstream
// extractors straight to a taxonomy position.
var sourceBuckets = map[string]struct{ main, sub string }{
	"taxes":                   {CatFixos, "impostos_taxas"},
	"commissions":             {CatVariaveis, "comissoes"},
	"administrative_expenses": {CatFixos, "administrativas"},
	"operational_costs":       {CatFixos, "administrativas"},
	"marketing_expenses":      {CatVariaveis, "marketing_vendas"},
	"financial_expenses":      {CatFixos, "financeiras"},
	"non_operational_costs":   {CatNaoOperacional, "extraordinarias"},
	"fixed_costs":             {CatFixos, "administrativas"},
	"variable_costs":          {CatVariaveis, "custos_producao"},
}

// Classify assigns a label to its (main category, subcategory) pair using
// keyword rules only. It is pure: the same label always yields the same
// result for a given taxonomy.
func Classify(label string) Result {
	return ClassifyWithSource(label, "", "")
}

// ClassifyInSection classifies a label with the enclosing section name as a
// fallback for labels no keyword matches.
func ClassifyInSection(label, section string) Result {
	return ClassifyWithSource(label, section, "")
}

// ClassifyWithSource classifies a label; section context and an upstream
// source bucket act as fallbacks, in that order. Labels nothing resolves
// land in the Não Operacionais / Extraordinárias catch-all, never an error.
func ClassifyWithSource(label, section, source string) Result {
	item, detail := SplitDetail(label)
	res := Result{ItemName: item, DetailCategory: detail}

	lower := strings.ToLower(item)
	for _, main := range taxonomy {
		for _, sub := range main.subs {
			for _, kw := range sub.keywords {
				if strings.Contains(lower, kw) {
					res.MainCategory, res.MainName = main.id, main.name
					res.Subcategory, res.SubcategoryName = sub.id, sub.name
					return res
				}
			}
		}
	}

	if section != "" {
		norm := core.NormalizeName(section)
		for _, hint := range sectionHints {
			if strings.Contains(norm, hint.substring) {
				return withCategory(res, hint.main, hint.sub)
			}
		}
	}

	if bucket, ok := sourceBuckets[source]; ok {
		return withCategory(res, bucket.main, bucket.sub)
	}

	// Explicit catch-all.
	return withCategory(res, CatNaoOperacional, "extraordinarias")
}

// SplitDetail splits an optional "/" suffix off a label: "Salários/Funcionários"
// yields ("Salários", "funcionários").
func SplitDetail(label string) (item, detail string) {
	label = strings.TrimSpace(label)
	if idx := strings.Index(label, "/"); idx >= 0 {
		item = strings.TrimSpace(label[:idx])
		detail = strings.ToLower(strings.TrimSpace(label[idx+1:]))
		if item == "" {
			item = label
			detail = ""
		}
		return item, detail
	}
	return label, ""
}

// CategoryName returns the display name of a main category id.
func CategoryName(id string) string {
	for _, main := range taxonomy {
		if main.id == id {
			return main.name
		}
	}
	return id
}

// SubcategoryName returns the display name of a subcategory id.
func SubcategoryName(mainID, subID string) string {
	for _, main := range taxonomy {
		if main.id != mainID {
			continue
		}
		for _, sub := range main.subs {
			if sub.id == subID {
				return sub.name
			}
		}
	}
	return subID
}

func withCategory(res Result, mainID, subID string) Result {
	res.MainCategory = mainID
	res.MainName = CategoryName(mainID)
	res.Subcategory = subID
	res.SubcategoryName = SubcategoryName(mainID, subID)
	return res
}
