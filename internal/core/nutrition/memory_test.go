package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, cal float64) FoodRecord {
	return FoodRecord{
		Name:          name,
		CanonicalName: name,
		Nutrition:     Nutrients{Calories: cal},
	}
}

func TestMemoryEviction(t *testing.T) {
	m := NewMemory(3)
	m.Record("one", []FoodRecord{record("cơm trắng", 100)})
	m.Record("two", []FoodRecord{record("phở bò", 200)})
	m.Record("three", []FoodRecord{record("bánh mì", 300)})
	m.Record("four", []FoodRecord{record("nước cam", 50)})

	recent := m.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "four", recent[0].Input)
	assert.Equal(t, "two", recent[2].Input)
}

func TestMemorySummaryRecomputed(t *testing.T) {
	m := NewMemory(2)
	m.Record("a", []FoodRecord{record("cơm trắng", 100)})
	m.Record("b", []FoodRecord{record("cơm trắng", 150), record("thịt kho", 250)})

	s := m.Summary()
	assert.Equal(t, 2, s.MessageCount)
	assert.Equal(t, 500.0, s.TotalNutrition.Calories)
	assert.Equal(t, 2, s.FoodCounts["cơm trắng"])
	assert.Equal(t, 1, s.FoodCounts["thịt kho"])

	// Eviction removes the evicted entry from the next summary.
	m.Record("c", []FoodRecord{record("chuối", 89)})
	s = m.Summary()
	assert.Equal(t, 2, s.MessageCount)
	assert.Equal(t, 150.0+250+89, s.TotalNutrition.Calories)
	assert.Equal(t, 1, s.FoodCounts["cơm trắng"])
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(3)
	m.Record("a", []FoodRecord{record("cơm trắng", 100)})
	m.Clear()
	assert.Empty(t, m.Recent(0))
	assert.Equal(t, 0, m.Summary().MessageCount)
}

func TestMemoryIsQuantityUpdate(t *testing.T) {
	m := NewMemory(3)
	assert.False(t, m.IsQuantityUpdate([]FoodRecord{record("cơm trắng", 1)}))

	m.Record("2 bát cơm", []FoodRecord{record("cơm trắng", 100), record("thịt kho", 200)})

	assert.True(t, m.IsQuantityUpdate([]FoodRecord{record("cơm trắng", 150)}))
	assert.False(t, m.IsQuantityUpdate([]FoodRecord{record("phở bò", 85)}))
	assert.False(t, m.IsQuantityUpdate(nil))

	// A long new meal reads as a fresh entry, not a correction.
	many := []FoodRecord{record("cơm trắng", 1), record("phở bò", 1), record("chuối", 1)}
	assert.False(t, m.IsQuantityUpdate(many))
}

func TestMemoryUpdateLatestQuantity(t *testing.T) {
	m := NewMemory(3)
	rec := record("cơm trắng", 130)
	rec.Quantity = QuantityInfo{Amount: 1, Unit: "bat", Type: QuantityRelative, Confidence: 0.9}
	m.Record("1 bát cơm", []FoodRecord{rec})

	ok := m.UpdateLatestQuantity("cơm trắng", 3, "", func(f FoodRecord) FoodRecord {
		f.Nutrition.Calories = 390
		return f
	})
	require.True(t, ok)

	got := m.Recent(1)[0].Foods[0]
	assert.Equal(t, 3.0, got.Quantity.Amount)
	assert.Equal(t, "bat", got.Quantity.Unit)
	assert.Equal(t, 390.0, got.Nutrition.Calories)

	assert.False(t, m.UpdateLatestQuantity("phở bò", 2, "", func(f FoodRecord) FoodRecord { return f }))
}
