package nutrition

import "time"

// Nutrients is an additive nutrition vector. Per-100g for dictionary
// entries, absolute per-record everywhere else.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// Add returns the component-wise sum of two vectors.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carbs:    n.Carbs + o.Carbs,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
	}
}

// Scale returns the vector multiplied by factor.
func (n Nutrients) Scale(factor float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Fat:      n.Fat * factor,
		Carbs:    n.Carbs * factor,
		Fiber:    n.Fiber * factor,
		Sugar:    n.Sugar * factor,
	}
}

// Round returns the vector with each component rounded to one decimal.
func (n Nutrients) Round() Nutrients {
	return Nutrients{
		Calories: round1(n.Calories),
		Protein:  round1(n.Protein),
		Fat:      round1(n.Fat),
		Carbs:    round1(n.Carbs),
		Fiber:    round1(n.Fiber),
		Sugar:    round1(n.Sugar),
	}
}

// QuantityType distinguishes exact measurements from counted servings.
type QuantityType string

const (
	// QuantityExact means the amount is already in grams or milliliters.
	QuantityExact QuantityType = "exact"
	// QuantityRelative means the amount counts container units (bowls,
	// plates, glasses) that still need a weight estimate.
	QuantityRelative QuantityType = "relative"
)

// QuantityInfo is the parsed quantity of one meal part.
type QuantityInfo struct {
	Amount     float64      `json:"amount"`
	Unit       string       `json:"unit"`
	Type       QuantityType `json:"type"`
	Confidence float64      `json:"confidence"`
}

// FoodRecord is one analyzed food inside a meal.
type FoodRecord struct {
	Name            string       `json:"name"`
	CanonicalName   string       `json:"canonical_name"`
	Category        string       `json:"category,omitempty"`
	Quantity        QuantityInfo `json:"quantity"`
	MatchConfidence float64      `json:"match_confidence"`
	// Confidence is the combined match and quantity confidence,
	// clamped to [0,1] and rounded to two decimals.
	Confidence     float64   `json:"confidence"`
	EstimatedGrams float64   `json:"estimated_grams"`
	Nutrition      Nutrients `json:"nutrition"`
	NoSugar        bool      `json:"no_sugar"`
	Source         string    `json:"source"`
}

// MealSummary aggregates all records of one processed message.
type MealSummary struct {
	Totals    Nutrients `json:"totals"`
	FoodCount int       `json:"food_count"`
}

// SummarizeMeal totals the nutrition of a record set.
func SummarizeMeal(foods []FoodRecord) MealSummary {
	s := MealSummary{FoodCount: len(foods)}
	for _, f := range foods {
		s.Totals = s.Totals.Add(f.Nutrition)
	}
	return s
}

// EscalationReason explains why the pipeline did or did not call the LLM.
type EscalationReason string

const (
	ReasonNotConfigured   EscalationReason = "not_configured"
	ReasonNoFoodsDetected EscalationReason = "no_foods_detected"
	ReasonLowConfidence   EscalationReason = "low_confidence"
	ReasonConfidenceOK    EscalationReason = "confidence_ok"
)

// EscalationMeta reports what the LLM fallback did for one utterance.
type EscalationMeta struct {
	Used        bool             `json:"used"`
	Available   bool             `json:"available"`
	Success     bool             `json:"success"`
	Reason      EscalationReason `json:"reason"`
	Error       string           `json:"error,omitempty"`
	Analysis    string           `json:"analysis,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

// ProcessResult is the full outcome of one message analysis.
type ProcessResult struct {
	Timestamp      time.Time      `json:"timestamp"`
	Text           string         `json:"text"`
	Foods          []FoodRecord   `json:"foods"`
	MealSummary    MealSummary    `json:"meal_summary"`
	Source         string         `json:"source"`
	Escalation     EscalationMeta `json:"escalation"`
	ExtractedCount int            `json:"extracted_count"`
	AnalyzedCount  int            `json:"analyzed_count"`
	IsUpdate       bool           `json:"is_update"`
	MemorySummary  MemorySummary  `json:"memory_summary"`
	DailyTotals    Nutrients      `json:"daily_totals"`
	Narrative      string         `json:"narrative"`
}

const (
	// SourceLocal marks records produced by the heuristic pipeline.
	SourceLocal = "local"
	// SourceDeepSeek marks records produced by the LLM fallback.
	SourceDeepSeek = "deepseek"
)
