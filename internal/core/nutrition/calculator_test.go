package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedCalculator() *Calculator {
	return NewCalculatorWithJitter(NewDictionary(), NewUnitTable(), func() float64 { return 0 })
}

func TestEstimateWeightExactPassthrough(t *testing.T) {
	c := newFixedCalculator()

	q := QuantityInfo{Amount: 150, Unit: "g", Type: QuantityExact, Confidence: 1.0}
	assert.Equal(t, 150.0, c.EstimateWeight(q, "meat"))
}

func TestEstimateWeightRelative(t *testing.T) {
	c := newFixedCalculator()

	tests := []struct {
		name     string
		q        QuantityInfo
		category string
		want     float64
	}{
		{
			"bowl of rice applies rice multiplier",
			QuantityInfo{Amount: 1, Unit: "bat", Type: QuantityRelative},
			"rice",
			180 * 0.9,
		},
		{
			"two bowls scale linearly",
			QuantityInfo{Amount: 2, Unit: "bat", Type: QuantityRelative},
			"rice",
			2 * 180 * 0.9,
		},
		{
			"big bowl of noodles",
			QuantityInfo{Amount: 1, Unit: "to", Type: QuantityRelative},
			"noodle",
			500 * 0.8,
		},
		{
			"glass of juice stays at ml default",
			QuantityInfo{Amount: 1, Unit: "ly", Type: QuantityRelative},
			"drink",
			250.0,
		},
		{
			"loaf of bread weighs more than the container default",
			QuantityInfo{Amount: 1, Unit: "o", Type: QuantityRelative},
			"bread",
			120 * 1.2,
		},
		{
			"unlisted category keeps the default",
			QuantityInfo{Amount: 1, Unit: "dia", Type: QuantityRelative},
			"meat",
			250.0,
		},
		{
			"aliased unit resolves before lookup",
			QuantityInfo{Amount: 1, Unit: "bowl", Type: QuantityRelative},
			"noodle",
			500 * 0.8,
		},
		{
			"unknown unit falls back to 200 per serving",
			QuantityInfo{Amount: 3, Unit: "thố", Type: QuantityRelative},
			"rice",
			600.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.EstimateWeight(tt.q, tt.category), 1e-9)
		})
	}
}

func TestEstimateWeightJitterBounded(t *testing.T) {
	for _, j := range []float64{-1, -0.5, 0.5, 0.999} {
		j := j
		c := NewCalculatorWithJitter(NewDictionary(), NewUnitTable(), func() float64 { return j })
		q := QuantityInfo{Amount: 1, Unit: "dia", Type: QuantityRelative}
		got := c.EstimateWeight(q, "meat")
		assert.InDelta(t, 250*(1+j*0.1), got, 1e-9)
		assert.GreaterOrEqual(t, got, 250*0.9)
		assert.LessOrEqual(t, got, 250*1.1)
	}
}

func TestComputeSimpleFood(t *testing.T) {
	c := newFixedCalculator()

	got, ok := c.Compute("cơm trắng", 200)
	require.True(t, ok)
	assert.InDelta(t, 260, got.Calories, 1e-9)
	assert.InDelta(t, 56.4, got.Carbs, 1e-9)
	assert.InDelta(t, 5.4, got.Protein, 1e-9)
}

func TestComputeCompositeFood(t *testing.T) {
	c := newFixedCalculator()

	// Components: 200g rice, 120g pork chop, 30g pickles = 350g configured.
	perConfigured := 0.0
	perConfigured += 130 * 2.0 // cơm trắng
	perConfigured += 250 * 1.2 // sườn nướng
	perConfigured += 30 * 0.3  // đồ chua

	got, ok := c.Compute("cơm sườn", 350)
	require.True(t, ok)
	assert.InDelta(t, perConfigured, got.Calories, 1e-9)

	// Half the weight halves every nutrient.
	half, ok := c.Compute("cơm sườn", 175)
	require.True(t, ok)
	assert.InDelta(t, perConfigured/2, half.Calories, 1e-9)
}

func TestComputeUnknownFood(t *testing.T) {
	c := newFixedCalculator()
	_, ok := c.Compute("món không tồn tại", 100)
	assert.False(t, ok)
}

func TestCombinedConfidence(t *testing.T) {
	assert.Equal(t, 0.86, CombinedConfidence(0.95, 0.9))
	assert.Equal(t, 0.95, CombinedConfidence(0.95, 1.0))
	assert.Equal(t, 0.18, CombinedConfidence(0.35, 0.5))
	assert.Equal(t, 0.0, CombinedConfidence(0, 0.9))
	assert.Equal(t, 1.0, CombinedConfidence(1.0, 1.0))
}
