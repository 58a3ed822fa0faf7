// Package refdata owns the static reference tables: document control codes
// and historical tax rates. Both are loaded once at startup into immutable
// lookup structures; lookups never fail after a successful load.
package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ControlCodeEntry maps a document-type code to its class-code description
// and the slash-delimited role labels for party roles "1" and "2". Only the
// final slash segment of a role string is semantically meaningful, e.g.
// "MORTGAGOR/BORROWER" labels the party "BORROWER".
type ControlCodeEntry struct {
	TypeCode             string `yaml:"code"`
	ClassCodeDescription string `yaml:"class"`
	Party1               string `yaml:"party1"`
	Party2               string `yaml:"party2"`
}

// Party1Label resolves the display label for role "1" parties.
func (e ControlCodeEntry) Party1Label() string {
	return roleLabel(e.Party1)
}

// Party2Label resolves the display label for role "2" parties.
func (e ControlCodeEntry) Party2Label() string {
	return roleLabel(e.Party2)
}

// roleLabel takes the text after the final "/", the literal string when
// there is no "/", and "Party" when the role string is absent.
func roleLabel(role string) string {
	if role == "" {
		return "Party"
	}
	if idx := strings.LastIndex(role, "/"); idx >= 0 {
		return role[idx+1:]
	}
	return role
}

// ControlCodes is the read-only document-type lookup table.
type ControlCodes struct {
	entries map[string]ControlCodeEntry
}

// NewControlCodes builds the lookup from entries, rejecting rows without a
// type code.
func NewControlCodes(entries []ControlCodeEntry) (*ControlCodes, error) {
	m := make(map[string]ControlCodeEntry, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.TypeCode) == "" {
			return nil, fmt.Errorf("control code entry missing type code (class %q)", e.ClassCodeDescription)
		}
		m[e.TypeCode] = e
	}
	return &ControlCodes{entries: m}, nil
}

// Lookup returns the entry for a document-type code.
func (c *ControlCodes) Lookup(typeCode string) (ControlCodeEntry, bool) {
	e, ok := c.entries[typeCode]
	return e, ok
}

// Len reports the number of loaded entries.
func (c *ControlCodes) Len() int {
	return len(c.entries)
}

// LoadControlCodes reads the control-code table from a yaml file.
func LoadControlCodes(path string) (*ControlCodes, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read control codes: %w", err)
	}
	return ParseControlCodes(raw)
}

// ParseControlCodes builds the table from yaml bytes.
func ParseControlCodes(raw []byte) (*ControlCodes, error) {
	var entries []ControlCodeEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse control codes: %w", err)
	}
	return NewControlCodes(entries)
}

// TaxRateEntry is one statutory rate row, keyed by fiscal-year label and
// tax-class code. Rate is a percentage (e.g. 12.5 means 12.5%).
type TaxRateEntry struct {
	Year     string  `yaml:"year"`
	TaxClass string  `yaml:"taxClass"`
	Rate     float64 `yaml:"rate"`
}

type rateKey struct {
	year     string
	taxClass string
}

// TaxRates is the read-only (fiscal year, tax class) → rate table.
type TaxRates struct {
	rates map[rateKey]float64
}

// NewTaxRates builds the lookup, rejecting rows missing either key part.
func NewTaxRates(entries []TaxRateEntry) (*TaxRates, error) {
	m := make(map[rateKey]float64, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Year) == "" || strings.TrimSpace(e.TaxClass) == "" {
			return nil, fmt.Errorf("tax rate entry missing year or tax class (year %q, class %q)", e.Year, e.TaxClass)
		}
		m[rateKey{year: e.Year, taxClass: e.TaxClass}] = e.Rate
	}
	return &TaxRates{rates: m}, nil
}

// Rate returns the rate percent for a fiscal year and tax class, or nil when
// the table has no entry. Absent entries are an expected degraded-data
// condition, not an error.
func (t *TaxRates) Rate(year, taxClass string) *float64 {
	if r, ok := t.rates[rateKey{year: year, taxClass: taxClass}]; ok {
		return &r
	}
	return nil
}

// Len reports the number of loaded rate rows.
func (t *TaxRates) Len() int {
	return len(t.rates)
}

// LoadTaxRates reads the rate table from a yaml file.
func LoadTaxRates(path string) (*TaxRates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tax rates: %w", err)
	}
	return ParseTaxRates(raw)
}

// ParseTaxRates builds the table from yaml bytes.
func ParseTaxRates(raw []byte) (*TaxRates, error) {
	var entries []TaxRateEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse tax rates: %w", err)
	}
	return NewTaxRates(entries)
}
