package nutrition

// UnitTable maps serving-container units to default weights in grams (ml
// for drinks). Keys are normalized (diacritics stripped) unit names.
type UnitTable struct {
	grams   map[string]float64
	aliases map[string]string
	display map[string]string
}

// NewUnitTable builds the default Vietnamese serving-unit table.
func NewUnitTable() *UnitTable {
	return &UnitTable{
		grams: map[string]float64{
			"bat":   180,
			"chen":  100,
			"dia":   250,
			"to":    500,
			"ly":    250,
			"coc":   250,
			"o":     120,
			"qua":   50,
			"trai":  50,
			"mieng": 100,
			"phan":  200,
			"suat":  250,
			"chai":  330,
			"lon":   330,
			"goi":   70,
			"hop":   250,
		},
		aliases: map[string]string{
			"li":     "ly",
			"glass":  "ly",
			"cup":    "coc",
			"tach":   "coc",
			"bowl":   "to",
			"plate":  "dia",
			"bottle": "chai",
			"can":    "lon",
			"pack":   "goi",
			"packet": "goi",
			"box":    "hop",
			"piece":  "mieng",
		},
		display: map[string]string{
			"bat":   "bát",
			"chen":  "chén",
			"dia":   "đĩa",
			"to":    "tô",
			"ly":    "ly",
			"coc":   "cốc",
			"o":     "ổ",
			"qua":   "quả",
			"trai":  "trái",
			"mieng": "miếng",
			"phan":  "phần",
			"suat":  "suất",
			"chai":  "chai",
			"lon":   "lon",
			"goi":   "gói",
			"hop":   "hộp",
		},
	}
}

// Resolve returns the canonical unit name for u, or u unchanged when it is
// not a known alias.
func (t *UnitTable) Resolve(u string) string {
	u = Normalize(u)
	if canon, ok := t.aliases[u]; ok {
		return canon
	}
	return u
}

// Display returns the accented form of a unit for records and rendered
// text. Unknown units pass through unchanged.
func (t *UnitTable) Display(u string) string {
	if d, ok := t.display[t.Resolve(u)]; ok {
		return d
	}
	return u
}

// Known reports whether unit (after alias resolution) has a default weight.
func (t *UnitTable) Known(unit string) bool {
	_, ok := t.grams[t.Resolve(unit)]
	return ok
}

// DefaultGrams returns the default weight for one unit, and whether the
// unit was known.
func (t *UnitTable) DefaultGrams(unit string) (float64, bool) {
	g, ok := t.grams[t.Resolve(unit)]
	return g, ok
}

// Defaults returns a copy of the canonical unit-to-grams table.
func (t *UnitTable) Defaults() map[string]float64 {
	out := make(map[string]float64, len(t.grams))
	for u, g := range t.grams {
		out[u] = g
	}
	return out
}

// Units returns every canonical unit name. Used by the quantity parser to
// recognize relative units.
func (t *UnitTable) Units() []string {
	out := make([]string, 0, len(t.grams)+len(t.aliases))
	for u := range t.grams {
		out = append(out, u)
	}
	for a := range t.aliases {
		out = append(out, a)
	}
	return out
}
