package nutrition

import (
	"regexp"
	"strings"
)

// clauseSeparators split an utterance into per-food clauses: punctuation,
// "+", and Vietnamese conjunctions meaning and/then/with/next. Spelled-out
// whitespace boundaries because \b is ASCII-only and fails after diacritics.
var clauseSeparators = regexp.MustCompile(`[,.;]|\+|\svà\s|\srồi\s|\ssau đó\s|\stiếp theo\s|\scùng\s|\svới\s`)

// stopWords are pronouns, time-of-day words and filler verbs stripped from
// each clause before matching. Whole-word, applied on the lowercased text.
var stopWords = []string{
	"tôi", "mình", "em", "anh", "chị", "bạn", "hôm nay",
	"sáng", "trưa", "tối", "đã", "ăn", "uống", "dùng", "thì",
	"có", "bữa ăn", "bữa", "hôm qua", "ngày mai",
}

var stopWordRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(stopWords))
	for i, w := range stopWords {
		res[i] = regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(w) + `($|\s)`)
	}
	return res
}()

// noSugarRe detects "không đường" markers on normalized text.
var noSugarRe = regexp.MustCompile(`\b(khong|ko|k0)\s*(co\s*)?duong\b`)

// noSugarStripRes excise the marker from raw text before name matching.
var noSugarStripRes = []*regexp.Regexp{
	regexp.MustCompile(`(không|khong|ko|k0)\s*(có\s*)?đường`),
	regexp.MustCompile(`(khong|ko|k0)\s*(co\s*)?duong`),
	regexp.MustCompile(`\bno\s*sugar\b`),
	regexp.MustCompile(`\bsugar\s*free\b`),
	regexp.MustCompile(`\bunsweetened\b`),
}

// fillerRes drop container words left behind after quantity removal.
// Compiled against normalized text, so the patterns are diacritic-free.
var fillerRes = func() []*regexp.Regexp {
	words := []string{"cai", "cuc", "mieng", "phan", "suat", "cua"}
	res := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		res[i] = regexp.MustCompile(`\b` + w + `\b`)
	}
	return res
}()

// Extraction is a pre-record: one recognized food mention within an
// utterance, before weight and nutrition computation.
type Extraction struct {
	OriginalText    string
	FoodName        string
	MatchConfidence float64
	Quantity        QuantityInfo
	NoSugar         bool
}

// Extractor splits utterances into clauses and resolves each to a food
// mention. Clauses that match nothing are silently dropped.
type Extractor struct {
	matcher *Matcher
	parser  *QuantityParser
}

// NewExtractor builds an extractor over the given matcher and parser.
func NewExtractor(matcher *Matcher, parser *QuantityParser) *Extractor {
	return &Extractor{matcher: matcher, parser: parser}
}

// Extract pulls every recognizable food mention out of utterance.
func (e *Extractor) Extract(utterance string) []Extraction {
	parts := clauseSeparators.Split(strings.ToLower(utterance), -1)

	var out []Extraction
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len([]rune(part)) < 2 {
			continue
		}

		clean := part
		for _, re := range stopWordRes {
			clean = re.ReplaceAllString(clean, " ")
		}
		clean = collapseSpaces(clean)
		if clean == "" {
			continue
		}

		noSugar := HasNoSugarMarker(clean)
		if noSugar {
			clean = StripNoSugar(clean)
		}

		quantity, span := e.parser.parseSpan(clean)
		foodText := e.removeQuantity(clean, span)

		name, conf := e.matcher.Find(foodText)
		if name == "" {
			continue
		}
		out = append(out, Extraction{
			OriginalText:    part,
			FoodName:        name,
			MatchConfidence: conf,
			Quantity:        quantity,
			NoSugar:         noSugar,
		})
	}
	return out
}

// StripNoSugar excises "không đường" markers so they do not corrupt name
// matching.
func StripNoSugar(text string) string {
	for _, re := range noSugarStripRes {
		text = re.ReplaceAllString(text, " ")
	}
	return collapseSpaces(text)
}

// HasNoSugarMarker detects "không đường" and its English equivalents.
func HasNoSugarMarker(text string) bool {
	norm := Normalize(text)
	if norm == "" {
		return false
	}
	if noSugarRe.MatchString(norm) {
		return true
	}
	return strings.Contains(norm, "no sugar") ||
		strings.Contains(norm, "sugar free") ||
		strings.Contains(norm, "unsweetened")
}

// removeQuantity strips the recognized quantity span and filler container
// words so they do not pollute name matching.
func (e *Extractor) removeQuantity(text, span string) string {
	result := Normalize(text)
	if span != "" {
		result = strings.Replace(result, span, " ", 1)
	}
	for _, re := range fillerRes {
		result = re.ReplaceAllString(result, " ")
	}
	return collapseSpaces(result)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
