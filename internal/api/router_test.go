package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"nutrition-chat/internal/core/learning"
	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Nutrition.ConfidenceThreshold = 0.7
	cfg.Nutrition.MemorySize = 3
	cfg.DeepSeek.Model = "deepseek-chat"
	cfg.DedupWindow = time.Nanosecond
	return cfg
}

func newTestServer(t *testing.T) (*gin.Engine, *storage.SQLiteStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router, err := SetupRouter(testConfig(), store)
	require.NoError(t, err)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w, parsed := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", parsed["status"])
	assert.Equal(t, false, parsed["deepseek_configured"])
}

func TestAnalyzeSavesEntry(t *testing.T) {
	router, store := newTestServer(t)

	w, parsed := doJSON(t, router, http.MethodPost, "/analyze", gin.H{
		"patientId": "p1",
		"text":      "tôi ăn 2 bát cơm trắng và 1 quả trứng chiên",
		"dateKey":   "2026-08-31",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parsed["success"])

	data := parsed["data"].(map[string]interface{})
	foods := data["foods"].([]interface{})
	assert.Len(t, foods, 2)
	assert.NotEmpty(t, data["response"])

	meta := parsed["meta"].(map[string]interface{})
	deepseek := meta["deepseek"].(map[string]interface{})
	assert.Equal(t, false, deepseek["used"])
	assert.Equal(t, "not_configured", deepseek["trigger"])

	log, err := store.GetDailyLog(context.Background(), "p1", "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, 2, log.DailyTotals.FoodCount)
	assert.Greater(t, log.DailyTotals.Calories, 0.0)
}

func TestAnalyzeValidation(t *testing.T) {
	router, _ := newTestServer(t)

	w, parsed := doJSON(t, router, http.MethodPost, "/analyze", gin.H{
		"text":    "1 bát cơm trắng",
		"dateKey": "2026-08-31",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, parsed["success"])
}

func TestUpdateQuantityEndpoint(t *testing.T) {
	router, store := newTestServer(t)

	_, _ = doJSON(t, router, http.MethodPost, "/analyze", gin.H{
		"patientId": "p1",
		"text":      "1 bát cơm trắng",
		"dateKey":   "2026-08-31",
	})

	w, parsed := doJSON(t, router, http.MethodPost, "/update-quantity", gin.H{
		"patientId":   "p1",
		"foodName":    "cơm trắng",
		"newQuantity": 2,
		"newUnit":     "bat",
		"dateKey":     "2026-08-31",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parsed["success"])

	log, err := store.GetDailyLog(context.Background(), "p1", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, log.Entries, 1)
	food := log.Entries[0].Foods[0]
	assert.Equal(t, 2.0, food.QuantityInfo.Amount)

	w, _ = doJSON(t, router, http.MethodPost, "/update-quantity", gin.H{
		"patientId":   "p1",
		"foodName":    "phở bò",
		"newQuantity": 1,
		"dateKey":     "2026-08-31",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	_, _ = doJSON(t, router, http.MethodPost, "/analyze-with-date", gin.H{
		"patientId": "p1",
		"text":      "1 tô phở bò",
		"date":      "2026-08-30",
	})

	w, parsed := doJSON(t, router, http.MethodGet, "/history?patientId=p1&from=2026-08-01&to=2026-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := parsed["data"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-08-30", logs[0].(map[string]interface{})["day"])

	w, _ = doJSON(t, router, http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodsEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w, parsed := doJSON(t, router, http.MethodGet, "/foods?q=pho", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := parsed["data"].(map[string]interface{})
	foods := data["foods"].([]interface{})
	require.NotEmpty(t, foods)
	assert.Equal(t, "phở bò", foods[0].(map[string]interface{})["foodName"])
	assert.NotEmpty(t, data["units"])
}

func TestAdminReviewFlow(t *testing.T) {
	router, store := newTestServer(t)

	// Seed one pending food the way the LLM hand-off would.
	now := time.Now().UTC()
	conf := 0.5
	pending := &learning.PendingFood{
		RawName:         "trà sữa",
		CanonicalName:   "trà sữa trân châu",
		SuggestedAction: learning.ActionNewFood,
		Confidence:      &conf,
		ExampleInput:    "1 ly trà sữa",
		Source:          "deepseek",
		Status:          learning.StatusPending,
		SeenCount:       1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, store.Insert(context.Background(), pending))

	w, parsed := doJSON(t, router, http.MethodGet, "/admin/pending-foods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := parsed["data"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)

	w, parsed = doJSON(t, router, http.MethodPost, "/admin/review-pending-food", gin.H{
		"pendingId": pending.ID,
		"decision":  "approve",
		"action":    "new_food",
		"foodData": gin.H{
			"category": "drink",
			"per_100":  gin.H{"calories": 75, "sugar": 12},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	reviewed := parsed["data"].(map[string]interface{})["pending"].(map[string]interface{})
	assert.Equal(t, "approved", reviewed["status"])

	// The dictionary mutation is visible immediately: the next analyze
	// resolves the learned food locally.
	w, parsed = doJSON(t, router, http.MethodPost, "/analyze", gin.H{
		"patientId": "p1",
		"text":      "1 ly trà sữa trân châu",
		"dateKey":   "2026-08-31",
	})
	require.Equal(t, http.StatusOK, w.Code)
	foods := parsed["data"].(map[string]interface{})["foods"].([]interface{})
	require.Len(t, foods, 1)
	assert.Equal(t, "trà sữa trân châu", foods[0].(map[string]interface{})["foodName"])

	w, _ = doJSON(t, router, http.MethodPost, "/admin/review-pending-food", gin.H{
		"pendingId": pending.ID,
		"decision":  "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodTrendsEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	for _, day := range []string{"2026-08-30", "2026-08-31"} {
		_, _ = doJSON(t, router, http.MethodPost, "/analyze-with-date", gin.H{
			"patientId": "p1",
			"text":      "1 bát cơm trắng",
			"date":      day,
		})
	}
	_, _ = doJSON(t, router, http.MethodPost, "/analyze-with-date", gin.H{
		"patientId": "p2",
		"text":      "1 bát cơm trắng",
		"date":      "2026-08-31",
	})

	w, parsed := doJSON(t, router, http.MethodGet, "/analytics/food-trends", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := parsed["data"].(map[string]interface{})
	top := data["topFoods"].([]interface{})
	require.NotEmpty(t, top)
	first := top[0].(map[string]interface{})
	assert.Equal(t, "cơm trắng", first["foodName"])
	assert.Equal(t, 3.0, first["count"])
	assert.Equal(t, 2.0, first["uniquePatients"])

	trend := data["trend"].(map[string]interface{})
	days := trend["days"].([]interface{})
	assert.Equal(t, []interface{}{"2026-08-30", "2026-08-31"}, days)
}
