package storage

import "nutrition-chat/internal/core/nutrition"

// EntryQuantity is the client-facing quantity shape stored inside daily
// log blobs.
type EntryQuantity struct {
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// EntryFood is one food line inside a meal entry.
type EntryFood struct {
	FoodID       string              `json:"foodId"`
	FoodName     string              `json:"foodName"`
	QuantityInfo EntryQuantity       `json:"quantityInfo"`
	Nutrition    nutrition.Nutrients `json:"nutrition"`
	NoSugar      bool                `json:"noSugar,omitempty"`
}

// EntrySummary aggregates one entry's foods.
type EntrySummary struct {
	FoodCount int     `json:"foodCount"`
	Calories  float64 `json:"calories"`
	Carbs     float64 `json:"carbs"`
	Sugar     float64 `json:"sugar"`
	Protein   float64 `json:"protein"`
	Fat       float64 `json:"fat"`
	Fiber     float64 `json:"fiber"`
}

// MealEntry is one analyzed utterance saved under a (patient, day) log.
type MealEntry struct {
	EntryID     string       `json:"entryId"`
	Text        string       `json:"text"`
	UserID      string       `json:"userId,omitempty"`
	Foods       []EntryFood  `json:"foods"`
	MealSummary EntrySummary `json:"mealSummary"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
	ConfirmedAt string       `json:"confirmedAt,omitempty"`
}

// DailyLog is the full record for one patient-day.
type DailyLog struct {
	PatientID   string       `json:"patientId"`
	Day         string       `json:"day"`
	DailyTotals EntrySummary `json:"daily_totals"`
	Entries     []MealEntry  `json:"entries"`
	LastUpdated string       `json:"last_updated"`
}

// SummarizeEntryFoods recomputes an entry summary from its food lines.
func SummarizeEntryFoods(foods []EntryFood) EntrySummary {
	s := EntrySummary{FoodCount: len(foods)}
	for _, f := range foods {
		s.Calories += f.Nutrition.Calories
		s.Carbs += f.Nutrition.Carbs
		s.Sugar += f.Nutrition.Sugar
		s.Protein += f.Nutrition.Protein
		s.Fat += f.Nutrition.Fat
		s.Fiber += f.Nutrition.Fiber
	}
	return s
}

// sumDayTotals recomputes the day totals as the sum of entry summaries.
func sumDayTotals(entries []MealEntry) EntrySummary {
	var total EntrySummary
	for _, e := range entries {
		total.FoodCount += e.MealSummary.FoodCount
		total.Calories += e.MealSummary.Calories
		total.Carbs += e.MealSummary.Carbs
		total.Sugar += e.MealSummary.Sugar
		total.Protein += e.MealSummary.Protein
		total.Fat += e.MealSummary.Fat
		total.Fiber += e.MealSummary.Fiber
	}
	return total
}
