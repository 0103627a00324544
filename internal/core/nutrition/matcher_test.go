package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherExact(t *testing.T) {
	m := NewMatcher(NewDictionary())

	tests := []struct {
		input string
		want  string
	}{
		{"cơm trắng", "cơm trắng"},
		{"com trang", "cơm trắng"},
		{"COM TRANG", "cơm trắng"},
		{"phở bò", "phở bò"},
		{"pho", "phở bò"},
		{"beef", "thịt bò"},
	}
	for _, tt := range tests {
		name, conf := m.Find(tt.input)
		assert.Equal(t, tt.want, name, "input %q", tt.input)
		assert.Equal(t, 0.95, conf, "input %q", tt.input)
	}
}

func TestMatcherFuzzySubset(t *testing.T) {
	m := NewMatcher(NewDictionary())

	// "bun cha" alias tokens are fully contained in the input.
	name, conf := m.Find("bun cha ha noi ngon")
	assert.Equal(t, "bún chả", name)
	// 2 matched of 5 input tokens: 0.35 + 0.5*(2/5) + 0.05*2 = 0.65
	assert.InDelta(t, 0.65, conf, 1e-9)
	assert.Less(t, conf, 0.95)
}

func TestMatcherFuzzyCapped(t *testing.T) {
	m := NewMatcher(NewDictionary())

	// Full coverage would score 0.35+0.5+0.15 = 1.0, capped at 0.9...
	// but full coverage of an alias is an exact hit, so pad with one token.
	name, conf := m.Find("canh chua ca loc nong")
	assert.Equal(t, "canh chua cá lóc", name)
	// 4 of 5 tokens: 0.35 + 0.5*0.8 + 0.15 = 0.9
	assert.InDelta(t, 0.9, conf, 1e-9)
}

func TestMatcherKeywordFallback(t *testing.T) {
	m := NewMatcher(NewDictionary())

	// No alias or name covers this, but the keyword "ca" does.
	name, conf := m.Find("ca loc hap xa")
	assert.Equal(t, "cá chiên", name)
	assert.Equal(t, 0.35, conf)
}

func TestMatcherMultiWordKeywordWins(t *testing.T) {
	m := NewMatcher(NewDictionary())

	// "ca phe" must resolve before the bare "ca" keyword fires.
	name, conf := m.Find("uong ca phe buoi sang")
	assert.Equal(t, "cà phê sữa", name)
	assert.Equal(t, 0.35, conf)
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher(NewDictionary())

	name, conf := m.Find("xyz hoan toan la")
	assert.Empty(t, name)
	assert.Zero(t, conf)

	name, conf = m.Find("")
	assert.Empty(t, name)
	assert.Zero(t, conf)
}

func TestMatcherAddAlias(t *testing.T) {
	m := NewMatcher(NewDictionary())

	_, conf := m.Find("bo kho que nha")
	assert.Less(t, conf, 0.95)

	require.True(t, m.AddAlias("thịt bò", "bò kho quê nhà"))
	name, conf := m.Find("bo kho que nha")
	assert.Equal(t, "thịt bò", name)
	assert.Equal(t, 0.95, conf)

	assert.False(t, m.AddAlias("món không tồn tại", "alias"))
}

func TestMatcherAddFood(t *testing.T) {
	dict := NewDictionary()
	m := NewMatcher(dict)

	name, _ := m.Find("hu tieu nam vang")
	assert.NotEqual(t, "hủ tiếu", name)

	m.AddFood(FoodDefinition{
		Name:       "hủ tiếu",
		PerHundred: Nutrients{Calories: 90, Carbs: 14, Protein: 5, Fat: 2},
		Aliases:    []string{"hu tieu", "hủ tiếu nam vang", "hu tieu nam vang"},
		Category:   "noodle",
	})

	name, conf := m.Find("hu tieu nam vang")
	assert.Equal(t, "hủ tiếu", name)
	assert.Equal(t, 0.95, conf)

	def, ok := dict.Get("hủ tiếu")
	require.True(t, ok)
	assert.Equal(t, "noodle", def.Category)
}
