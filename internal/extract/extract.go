// Package extract implements the text-pattern heuristic that pulls
// fiscal document metadata out of extracted plain text.
//
// Every field is matched independently. A pattern that does not match,
// or a match that does not parse, leaves the field unset. The caller
// must treat every field as provisional.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fields holds the metadata recovered from document text. Nil or empty
// fields were not found in the text.
type Fields struct {
	Number    string
	Total     *decimal.Decimal
	TaxID     string
	IssueDate *time.Time
}

var (
	numberPattern = regexp.MustCompile(`(?i)(?:nota fiscal|nf-?e?|n[°º]|n[úu]mero)[:\s]*(\d+)`)

	// The amount requires a decimal separator and exactly two
	// fractional digits. Both the Brazilian comma and the dot are
	// accepted.
	totalPattern = regexp.MustCompile(`(?i)(?:valor total|total geral|total)[:\s]*r?\$?\s*((?:\d{1,3}(?:\.\d{3})*|\d+)[.,]\d{2})\b`)

	cnpjPattern = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)
	cpfPattern  = regexp.MustCompile(`\d{3}\.?\d{3}\.?\d{3}-?\d{2}`)

	datePattern = regexp.MustCompile(`(?i)(?:data|emiss[ãa]o|emitida)[:\s]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{4})`)
)

// dateLayouts are tried in order, the first successful parse wins.
var dateLayouts = []string{"02/01/2006", "02-01-2006", "02.01.2006"}

// Parse scans the text for fiscal document metadata.
func Parse(text string) Fields {
	return Fields{
		Number:    number(text),
		Total:     total(text),
		TaxID:     taxID(text),
		IssueDate: issueDate(text),
	}
}

func number(text string) string {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	return m[1]
}

func total(text string) *decimal.Decimal {
	m := totalPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	// Normalize "1.234,56" to "1234.56"
	raw := m[1]
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		// A value that matched the pattern but does not parse is
		// discarded, not reported
		return nil
	}

	return &value
}

func taxID(text string) string {
	// CNPJ first: a CNPJ contains a CPF-shaped substring, so the order
	// matters
	if m := cnpjPattern.FindString(text); m != "" {
		return m
	}

	return cpfPattern.FindString(text)
}

func issueDate(text string) *time.Time {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, m[1])
		if err == nil {
			t = t.In(time.UTC)
			return &t
		}
	}

	return nil
}
