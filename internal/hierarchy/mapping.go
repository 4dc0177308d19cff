package hierarchy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"despesas/internal/core"
)

// Rule relocates a subcategory or line item whose name matches Match into
// the Target subcategory inside the named Section during consolidation.
type Rule struct {
	Match   string `yaml:"match"`
	Target  string `yaml:"target"`
	Section string `yaml:"section"`
}

// Mapping is a name-keyed set of consolidation rules. Lookups normalize the
// queried name, so case and underscore variants of a label all hit the same
// rule.
type Mapping struct {
	rules map[string]Rule
}

// NewMapping builds a mapping from the given rules. Later rules override
// earlier ones with the same normalized match.
func NewMapping(rules ...Rule) *Mapping {
	m := &Mapping{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		m.Add(r)
	}
	return m
}

// DefaultMapping returns the built-in consolidation rules: scattered
// infrastructure lines are folded into a single Infraestrutura subcategory
// and profit distributions into Distribuição de Lucros, both under fixed
// costs.
func DefaultMapping() *Mapping {
	return NewMapping(
		Rule{Match: "Energia Elétrica", Target: "Infraestrutura", Section: "CUSTOS FIXOS"},
		Rule{Match: "Condomínios", Target: "Infraestrutura", Section: "CUSTOS FIXOS"},
		Rule{Match: "Advogados", Target: "Infraestrutura", Section: "CUSTOS FIXOS"},
		Rule{Match: "Escritório Contábil", Target: "Infraestrutura", Section: "CUSTOS FIXOS"},
		Rule{Match: "Seguros", Target: "Infraestrutura", Section: "CUSTOS FIXOS"},
		Rule{Match: "Lucro", Target: "Distribuição de Lucros", Section: "CUSTOS FIXOS"},
	)
}

// Add inserts or replaces the rule for its normalized match name.
func (m *Mapping) Add(r Rule) {
	m.rules[core.NormalizeName(r.Match)] = r
}

// Lookup returns the rule for a subcategory or item name, if any.
func (m *Mapping) Lookup(name string) (Rule, bool) {
	r, ok := m.rules[core.NormalizeName(name)]
	return r, ok
}

// Len returns the number of rules.
func (m *Mapping) Len() int {
	return len(m.rules)
}

type mappingFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseMapping decodes a YAML rule list:
//
//	rules:
//	  - match: "Energia Elétrica"
//	    target: "Infraestrutura"
//	    section: "CUSTOS FIXOS"
func ParseMapping(data []byte) (*Mapping, error) {
	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	for i, r := range file.Rules {
		if r.Match == "" || r.Target == "" || r.Section == "" {
			return nil, fmt.Errorf("parse mapping: rule %d is missing match, target or section", i)
		}
	}
	return NewMapping(file.Rules...), nil
}

// LoadMapping reads a YAML mapping file and overlays its rules on the
// defaults, so a file only needs to list deviations.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	loaded, err := ParseMapping(data)
	if err != nil {
		return nil, err
	}
	m := DefaultMapping()
	for _, r := range loaded.rules {
		m.Add(r)
	}
	return m, nil
}
