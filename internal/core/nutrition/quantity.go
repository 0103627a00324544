package nutrition

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Parser confidence tiers, highest pattern priority first.
const (
	confExactMetric  = 1.0
	confIntUnit      = 0.9
	confSpelledUnit  = 0.8
	confBareInt      = 0.7
	confDefaultGuess = 0.5
)

// defaultUnit is the serving unit assumed when none is stated.
const defaultUnit = "phần"

// spelledNumbers maps normalized Vietnamese numerals and vague
// quantifiers to amounts. Vague words carry a conventional estimate.
var spelledNumbers = map[string]float64{
	"mot": 1, "hai": 2, "ba": 3, "bon": 4, "nam": 5,
	"sau": 6, "bay": 7, "tam": 8, "chin": 9, "muoi": 10,
	"vai": 2, "may": 3, "dam": 5, "chuc": 10,
}

// QuantityParser extracts amounts and units from meal clauses. Patterns
// apply in priority order; the first hit wins.
type QuantityParser struct {
	units     *UnitTable
	metricRe  *regexp.Regexp
	intUnitRe *regexp.Regexp
	spelledRe *regexp.Regexp
	bareIntRe *regexp.Regexp
}

// NewQuantityParser builds a parser recognizing the units in table.
func NewQuantityParser(table *UnitTable) *QuantityParser {
	unitNames := table.Units()
	// Longest first so "chen" is not shadowed by a shorter alternative.
	sort.Slice(unitNames, func(i, j int) bool {
		if len(unitNames[i]) != len(unitNames[j]) {
			return len(unitNames[i]) > len(unitNames[j])
		}
		return unitNames[i] < unitNames[j]
	})
	for i, u := range unitNames {
		unitNames[i] = regexp.QuoteMeta(u)
	}
	unitAlt := strings.Join(unitNames, "|")

	words := make([]string, 0, len(spelledNumbers))
	for w := range spelledNumbers {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	return &QuantityParser{
		units:     table,
		metricRe:  regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(kilogram|gram|lit|gr|kg|ml|g|l)\b`),
		intUnitRe: regexp.MustCompile(`(\d+)\s*(` + unitAlt + `)\b`),
		spelledRe: regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\s+(` + unitAlt + `)\b`),
		bareIntRe: regexp.MustCompile(`(\d+)`),
	}
}

// Parse extracts the quantity stated in text.
func (p *QuantityParser) Parse(text string) QuantityInfo {
	info, _ := p.parseSpan(text)
	return info
}

// parseSpan additionally returns the matched substring of the normalized
// text so the extractor can excise it before name matching. The span is
// empty when the default guess applied.
func (p *QuantityParser) parseSpan(text string) (QuantityInfo, string) {
	norm := Normalize(text)

	if m := p.metricRe.FindStringSubmatch(norm); m != nil {
		amount, _ := strconv.ParseFloat(m[1], 64)
		unit := m[2]
		switch unit {
		case "kg", "kilogram":
			amount *= 1000
			unit = "g"
		case "l", "lit":
			amount *= 1000
			unit = "ml"
		case "gr", "gram":
			unit = "g"
		}
		return QuantityInfo{Amount: amount, Unit: unit, Type: QuantityExact, Confidence: confExactMetric}, m[0]
	}

	if m := p.intUnitRe.FindStringSubmatch(norm); m != nil {
		amount, _ := strconv.ParseFloat(m[1], 64)
		// Matching ran on folded text; surface the accented unit form.
		return QuantityInfo{Amount: amount, Unit: p.units.Display(m[2]), Type: QuantityRelative, Confidence: confIntUnit}, m[0]
	}

	if m := p.spelledRe.FindStringSubmatch(norm); m != nil {
		return QuantityInfo{Amount: spelledNumbers[m[1]], Unit: p.units.Display(m[2]), Type: QuantityRelative, Confidence: confSpelledUnit}, m[0]
	}

	if m := p.bareIntRe.FindStringSubmatch(norm); m != nil {
		amount, _ := strconv.ParseFloat(m[1], 64)
		return QuantityInfo{Amount: amount, Unit: defaultUnit, Type: QuantityRelative, Confidence: confBareInt}, m[0]
	}

	return QuantityInfo{Amount: 1, Unit: defaultUnit, Type: QuantityRelative, Confidence: confDefaultGuess}, ""
}
