package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nutrition-chat/internal/core/learning"
	"nutrition-chat/internal/core/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newPendingFood(raw, canonical string) *learning.PendingFood {
	now := time.Now().UTC().Truncate(time.Second)
	conf := 0.5
	return &learning.PendingFood{
		RawName:         raw,
		CanonicalName:   canonical,
		SuggestedAction: learning.ActionNewFood,
		Confidence:      &conf,
		ExampleInput:    "ăn " + raw,
		Source:          "deepseek",
		Status:          learning.StatusPending,
		SeenCount:       1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPendingFoodInsertAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	p := newPendingFood("trà sữa", "trà sữa trân châu")
	p.NutritionData = &nutrition.Nutrients{Calories: 75, Sugar: 12}
	require.NoError(t, s.Insert(ctx, p))
	assert.NotZero(t, p.ID)

	byKey, err := s.GetByKey(ctx, "trà sữa", "trà sữa trân châu")
	require.NoError(t, err)
	require.NotNil(t, byKey)
	assert.Equal(t, p.ID, byKey.ID)
	require.NotNil(t, byKey.Confidence)
	assert.Equal(t, 0.5, *byKey.Confidence)
	require.NotNil(t, byKey.NutritionData)
	assert.Equal(t, 75.0, byKey.NutritionData.Calories)

	byID, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "trà sữa", byID.RawName)

	missing, err := s.GetByKey(ctx, "nope", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPendingFoodUpdate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	p := newPendingFood("bánh tráng trộn", "bánh tráng trộn")
	require.NoError(t, s.Insert(ctx, p))

	p.Status = learning.StatusApproved
	p.SeenCount = 3
	p.UpdatedAt = p.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.Update(ctx, p))

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.StatusApproved, got.Status)
	assert.Equal(t, 3, got.SeenCount)
}

func TestPendingFoodListFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	a := newPendingFood("trà sữa", "trà sữa trân châu")
	require.NoError(t, s.Insert(ctx, a))

	b := newPendingFood("sinh tố bơ", "sinh tố bơ")
	b.SuggestedAction = learning.ActionAlias
	require.NoError(t, s.Insert(ctx, b))

	c := newPendingFood("bánh xèo", "bánh xèo")
	c.Status = learning.StatusRejected
	require.NoError(t, s.Insert(ctx, c))

	pending, err := s.List(ctx, learning.ListFilter{Status: learning.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	aliases, err := s.List(ctx, learning.ListFilter{Action: learning.ActionAlias})
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, "sinh tố bơ", aliases[0].RawName)

	byName, err := s.List(ctx, learning.ListFilter{Query: "trà"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "trà sữa", byName[0].RawName)

	limited, err := s.List(ctx, learning.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func testEntry(id string, calories float64) MealEntry {
	return MealEntry{
		EntryID: id,
		Text:    "1 bát cơm trắng",
		Foods: []EntryFood{
			{
				FoodID:       "tmp_1",
				FoodName:     "cơm trắng",
				QuantityInfo: EntryQuantity{Amount: 1, Unit: "bat", Type: "relative", Confidence: 0.9},
				Nutrition:    nutrition.Nutrients{Calories: calories, Carbs: 40},
			},
		},
		MealSummary: EntrySummary{FoodCount: 1, Calories: calories, Carbs: 40},
		Status:      "draft",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

func TestAppendEntryCreatesLogAndSumsTotals(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	log, err := s.AppendEntry(ctx, "p1", "2026-08-31", testEntry("e1", 200))
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Len(t, log.Entries, 1)
	assert.Equal(t, 200.0, log.DailyTotals.Calories)

	log, err = s.AppendEntry(ctx, "p1", "2026-08-31", testEntry("e2", 300))
	require.NoError(t, err)
	assert.Len(t, log.Entries, 2)
	assert.Equal(t, 500.0, log.DailyTotals.Calories)
	assert.Equal(t, 2, log.DailyTotals.FoodCount)

	stored, err := s.GetDailyLog(ctx, "p1", "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 500.0, stored.DailyTotals.Calories)
}

func TestUpdateEntryRecomputesTotals(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.AppendEntry(ctx, "p1", "2026-08-31", testEntry("e1", 200))
	require.NoError(t, err)

	log, err := s.UpdateEntry(ctx, "p1", "2026-08-31", "e1", func(e MealEntry) MealEntry {
		e.Foods[0].Nutrition.Calories = 400
		e.MealSummary = SummarizeEntryFoods(e.Foods)
		return e
	})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, 400.0, log.DailyTotals.Calories)

	missing, err := s.UpdateEntry(ctx, "p1", "2026-08-31", "nope", func(e MealEntry) MealEntry { return e })
	require.NoError(t, err)
	assert.Nil(t, missing)

	noLog, err := s.UpdateEntry(ctx, "p2", "2026-08-31", "e1", func(e MealEntry) MealEntry { return e })
	require.NoError(t, err)
	assert.Nil(t, noLog)
}

func TestGetHistoryRange(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, day := range []string{"2026-08-28", "2026-08-29", "2026-08-30"} {
		_, err := s.AppendEntry(ctx, "p1", day, testEntry("e-"+day, 100))
		require.NoError(t, err)
	}

	all, err := s.GetHistory(ctx, "p1", "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-08-30", all[0].Day)

	ranged, err := s.GetHistory(ctx, "p1", "2026-08-29", "2026-08-29")
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2026-08-29", ranged[0].Day)
}

func TestCorruptBlobsDecodeToEmptyDefaults(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.db.Exec(
		`INSERT INTO daily_logs (patient_id, day, daily_totals, entries, last_updated) VALUES (?, ?, ?, ?, ?)`,
		"p1", "2026-08-31", "{broken", "[broken", time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)

	log, err := s.GetDailyLog(ctx, "p1", "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Empty(t, log.Entries)
	assert.Zero(t, log.DailyTotals.Calories)
}

func TestIterEntriesAcrossPatients(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.AppendEntry(ctx, "p1", "2026-08-30", testEntry("e1", 100))
	require.NoError(t, err)
	_, err = s.AppendEntry(ctx, "p2", "2026-08-31", testEntry("e2", 100))
	require.NoError(t, err)

	var seen []string
	err = s.IterEntries(ctx, "", "", func(patientID, day string, entries []MealEntry) {
		seen = append(seen, patientID+"/"+day)
		assert.Len(t, entries, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1/2026-08-30", "p2/2026-08-31"}, seen)
}

func TestDeleteDailyLog(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.AppendEntry(ctx, "p1", "2026-08-31", testEntry("e1", 100))
	require.NoError(t, err)

	ok, err := s.DeleteDailyLog(ctx, "p1", "2026-08-31")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteDailyLog(ctx, "p1", "2026-08-31")
	require.NoError(t, err)
	assert.False(t, ok)
}
