package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantityParser(t *testing.T) {
	p := NewQuantityParser(NewUnitTable())

	tests := []struct {
		name  string
		input string
		want  QuantityInfo
	}{
		{
			"metric grams",
			"150g thịt bò",
			QuantityInfo{Amount: 150, Unit: "g", Type: QuantityExact, Confidence: 1.0},
		},
		{
			"metric with space and gram word",
			"200 gram cá",
			QuantityInfo{Amount: 200, Unit: "g", Type: QuantityExact, Confidence: 1.0},
		},
		{
			"kilogram converts to grams",
			"0.5 kg gạo",
			QuantityInfo{Amount: 500, Unit: "g", Type: QuantityExact, Confidence: 1.0},
		},
		{
			"liter converts to ml",
			"2 lít nước cam",
			QuantityInfo{Amount: 2000, Unit: "ml", Type: QuantityExact, Confidence: 1.0},
		},
		{
			"milliliters",
			"330ml bia",
			QuantityInfo{Amount: 330, Unit: "ml", Type: QuantityExact, Confidence: 1.0},
		},
		{
			"integer with relative unit",
			"2 bát cơm",
			QuantityInfo{Amount: 2, Unit: "bát", Type: QuantityRelative, Confidence: 0.9},
		},
		{
			"integer with aliased unit",
			"1 bowl phở",
			QuantityInfo{Amount: 1, Unit: "tô", Type: QuantityRelative, Confidence: 0.9},
		},
		{
			"spelled numeral",
			"một bát cơm",
			QuantityInfo{Amount: 1, Unit: "bát", Type: QuantityRelative, Confidence: 0.8},
		},
		{
			"spelled numeral four",
			"bốn bát phở",
			QuantityInfo{Amount: 4, Unit: "bát", Type: QuantityRelative, Confidence: 0.8},
		},
		{
			"vague quantifier vai",
			"vài miếng gà nướng",
			QuantityInfo{Amount: 2, Unit: "miếng", Type: QuantityRelative, Confidence: 0.8},
		},
		{
			"vague quantifier may",
			"mấy bát cơm",
			QuantityInfo{Amount: 3, Unit: "bát", Type: QuantityRelative, Confidence: 0.8},
		},
		{
			"bare integer",
			"2 trứng chiên",
			QuantityInfo{Amount: 2, Unit: "phần", Type: QuantityRelative, Confidence: 0.7},
		},
		{
			"no number at all",
			"cơm",
			QuantityInfo{Amount: 1, Unit: "phần", Type: QuantityRelative, Confidence: 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.input))
		})
	}
}

func TestQuantityParserPriority(t *testing.T) {
	p := NewQuantityParser(NewUnitTable())

	// A metric quantity outranks a relative one in the same clause.
	got := p.Parse("1 bát cơm trắng 150g")
	assert.Equal(t, QuantityExact, got.Type)
	assert.Equal(t, 150.0, got.Amount)
	assert.Equal(t, 1.0, got.Confidence)

	// "hai bát" must not degrade to a bare-integer guess.
	got = p.Parse("hai bát phở")
	assert.Equal(t, QuantityRelative, got.Type)
	assert.Equal(t, 2.0, got.Amount)
	assert.Equal(t, "bát", got.Unit)
	assert.Equal(t, 0.8, got.Confidence)
}

func TestQuantityParserSpan(t *testing.T) {
	p := NewQuantityParser(NewUnitTable())

	_, span := p.parseSpan("2 bát cơm")
	assert.Equal(t, "2 bat", span)

	_, span = p.parseSpan("cơm")
	assert.Empty(t, span)
}
