package nutrition

import (
	"math"
	"math/rand"
)

// Weight estimation constants.
const (
	unknownUnitGrams  = 200
	weightJitterRange = 0.1
)

// categoryMultipliers adjust container defaults for food density: broth
// dishes fill less of the bowl by weight, bread more.
var categoryMultipliers = map[string]float64{
	"drink":  1.0,
	"rice":   0.9,
	"noodle": 0.8,
	"bread":  1.2,
}

// Calculator turns (food, quantity) pairs into weights and absolute
// nutrient amounts. The jitter source is injectable so estimates can be
// made deterministic in tests.
type Calculator struct {
	dict   *Dictionary
	units  *UnitTable
	jitter func() float64 // uniform in [-1, 1)
}

// NewCalculator builds a calculator with pseudo-random serving jitter.
func NewCalculator(dict *Dictionary, units *UnitTable) *Calculator {
	return &Calculator{
		dict:  dict,
		units: units,
		jitter: func() float64 {
			return rand.Float64()*2 - 1
		},
	}
}

// NewCalculatorWithJitter builds a calculator with a fixed jitter source.
// jitter must return values in [-1, 1); 0 disables serving variance.
func NewCalculatorWithJitter(dict *Dictionary, units *UnitTable, jitter func() float64) *Calculator {
	return &Calculator{dict: dict, units: units, jitter: jitter}
}

// EstimateWeight converts a parsed quantity into grams (ml for drinks).
// Exact quantities pass through. Relative quantities resolve the container
// default, scale by category, then get a bounded ±10% perturbation to
// model real-world serving variance.
func (c *Calculator) EstimateWeight(q QuantityInfo, category string) float64 {
	if q.Type == QuantityExact {
		return q.Amount
	}

	base, ok := c.units.DefaultGrams(q.Unit)
	if !ok {
		return unknownUnitGrams * q.Amount
	}

	multiplier := 1.0
	if m, found := categoryMultipliers[category]; found {
		multiplier = m
	}

	weight := base * multiplier * (1 + c.jitter()*weightJitterRange)
	return weight * q.Amount
}

// Compute returns the absolute nutrient vector for weight grams of the
// named food. Composite dishes sum their components at configured weights
// and rescale to the actual weight. Returns false for unknown foods.
func (c *Calculator) Compute(foodName string, weight float64) (Nutrients, bool) {
	def, ok := c.dict.Get(foodName)
	if !ok {
		return Nutrients{}, false
	}

	if len(def.Components) > 0 {
		var total Nutrients
		var configured float64
		for compName, compWeight := range def.Components {
			configured += compWeight
			comp, found := c.dict.Get(compName)
			if !found {
				continue
			}
			total = total.Add(comp.PerHundred.Scale(compWeight / 100))
		}
		if configured > 0 {
			return total.Scale(weight / configured), true
		}
	}

	return def.PerHundred.Scale(weight / 100), true
}

// CombinedConfidence merges match and quantity confidence into the final
// per-record score.
func CombinedConfidence(matchConf, quantityConf float64) float64 {
	v := matchConf * quantityConf
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
