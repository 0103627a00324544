package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	matcher := NewMatcher(NewDictionary())
	parser := NewQuantityParser(NewUnitTable())
	return NewExtractor(matcher, parser)
}

func TestExtractSingleFood(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("tôi ăn 2 bát cơm")
	require.Len(t, got, 1)
	assert.Equal(t, "cơm trắng", got[0].FoodName)
	assert.Equal(t, 2.0, got[0].Quantity.Amount)
	assert.Equal(t, "bát", got[0].Quantity.Unit)
	assert.Equal(t, QuantityRelative, got[0].Quantity.Type)
	assert.False(t, got[0].NoSugar)
}

func TestExtractMultipleClauses(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("2 bát cơm, 1 đĩa thịt kho và canh rau")
	require.Len(t, got, 3)
	assert.Equal(t, "cơm trắng", got[0].FoodName)
	assert.Equal(t, "thịt kho", got[1].FoodName)
	assert.Equal(t, "canh rau", got[2].FoodName)
}

func TestExtractConjunctionSeparators(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("sáng ăn phở bò rồi uống cà phê sữa")
	require.Len(t, got, 2)
	assert.Equal(t, "phở bò", got[0].FoodName)
	assert.Equal(t, "cà phê sữa", got[1].FoodName)

	got = e.Extract("cơm với thịt bò")
	require.Len(t, got, 2)
	assert.Equal(t, "cơm trắng", got[0].FoodName)
	assert.Equal(t, "thịt bò", got[1].FoodName)
}

func TestExtractExactQuantity(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("150g thịt bò")
	require.Len(t, got, 1)
	assert.Equal(t, "thịt bò", got[0].FoodName)
	assert.Equal(t, QuantityExact, got[0].Quantity.Type)
	assert.Equal(t, 150.0, got[0].Quantity.Amount)
	assert.Equal(t, 1.0, got[0].Quantity.Confidence)
}

func TestExtractNoSugarMarker(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		input string
		food  string
	}{
		{"cà phê sữa không đường", "cà phê sữa"},
		{"ca phe sua khong duong", "cà phê sữa"},
		{"nước cam ko đường", "nước cam"},
		{"orange juice no sugar", "nước cam"},
	}
	for _, tt := range tests {
		got := e.Extract(tt.input)
		require.Len(t, got, 1, "input %q", tt.input)
		assert.Equal(t, tt.food, got[0].FoodName, "input %q", tt.input)
		assert.True(t, got[0].NoSugar, "input %q", tt.input)
	}

	// The marker must not leak into sibling clauses.
	got := e.Extract("cà phê sữa không đường, bánh mì")
	require.Len(t, got, 2)
	assert.True(t, got[0].NoSugar)
	assert.False(t, got[1].NoSugar)
}

func TestExtractUnmatchedClausesDropped(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("hôm nay trời đẹp quá, ăn 1 tô phở")
	require.Len(t, got, 1)
	assert.Equal(t, "phở bò", got[0].FoodName)

	// Greeting words must not share tokens with any alias ("chào" folds to
	// the "chao" alias of cháo and would fuzzy-match).
	assert.Empty(t, e.Extract("hẹn gặp lại nhé"))
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("a, b, c"))
}

func TestExtractStripsStopWords(t *testing.T) {
	e := newTestExtractor()

	// Pronoun, tense marker and verb must not reach the matcher.
	got := e.Extract("mình đã uống một ly nước cam")
	require.Len(t, got, 1)
	assert.Equal(t, "nước cam", got[0].FoodName)
	assert.Equal(t, 1.0, got[0].Quantity.Amount)
	assert.Equal(t, "ly", got[0].Quantity.Unit)
	assert.Equal(t, 0.8, got[0].Quantity.Confidence)
}
