package nutrition

import (
	"net/http"
	"strings"

	core "nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/pkg/common"
	"nutrition-chat/internal/storage"

	"github.com/gin-gonic/gin"
)

// UpdateQuantityRequest is the body of POST /update-quantity.
type UpdateQuantityRequest struct {
	PatientID   string  `json:"patientId"`
	UserID      string  `json:"userId"`
	FoodName    string  `json:"foodName"`
	NewQuantity float64 `json:"newQuantity"`
	NewUnit     string  `json:"newUnit"`
	DateKey     string  `json:"dateKey"`
	Source      string  `json:"source"`
}

// UpdateFoodRequest patches one food line inside an entry.
type UpdateFoodRequest struct {
	PatientID string          `json:"patientId"`
	UserID    string          `json:"userId"`
	EntryID   string          `json:"entryId"`
	FoodID    string          `json:"foodId"`
	Patch     UpdateFoodPatch `json:"patch"`
}

// UpdateFoodPatch carries the fields to overwrite; nil fields keep the
// stored values.
type UpdateFoodPatch struct {
	FoodName     *string                `json:"foodName"`
	QuantityInfo *storage.EntryQuantity `json:"quantityInfo"`
	Nutrition    *core.Nutrients        `json:"nutrition"`
}

// DeleteFoodRequest removes one food line from an entry.
type DeleteFoodRequest struct {
	PatientID string `json:"patientId"`
	UserID    string `json:"userId"`
	EntryID   string `json:"entryId"`
	FoodID    string `json:"foodId"`
}

// ConfirmMealRequest finalizes or reopens an entry.
type ConfirmMealRequest struct {
	PatientID string             `json:"patientId"`
	UserID    string             `json:"userId"`
	EntryID   string             `json:"entryId"`
	DateKey   string             `json:"dateKey"`
	Confirmed *bool              `json:"confirmed"`
	FinalData *ConfirmMealFinals `json:"finalData"`
}

// ConfirmMealFinals lets the client persist its edited copy on confirm.
type ConfirmMealFinals struct {
	Foods       []storage.EntryFood   `json:"foods"`
	MealSummary *storage.EntrySummary `json:"mealSummary"`
}

// recalcFood recomputes a food line's nutrition from its quantity.
func (h *Handler) recalcFood(f *storage.EntryFood) {
	category := ""
	if def, known := h.dict.Get(f.FoodName); known {
		category = def.Category
	}
	qty := core.QuantityInfo{
		Amount:     f.QuantityInfo.Amount,
		Unit:       f.QuantityInfo.Unit,
		Type:       core.QuantityType(f.QuantityInfo.Type),
		Confidence: f.QuantityInfo.Confidence,
	}
	weight := h.calculator.EstimateWeight(qty, category)
	nut, known := h.calculator.Compute(f.FoodName, weight)
	if !known {
		nut = core.Nutrients{}
	}
	if f.NoSugar {
		nut.Sugar = 0
	}
	f.Nutrition = nut
}

// UpdateQuantity handles POST /update-quantity: rewrite one food's
// amount in the newest entry mentioning it and recompute nutrition.
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.PatientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}
	if req.FoodName == "" || req.DateKey == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "foodName and dateKey are required")
		return
	}

	ctx := c.Request.Context()
	log, err := h.store.GetDailyLog(ctx, req.PatientID, req.DateKey)
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to load daily log")
		return
	}
	if log == nil {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "No records found for this date")
		return
	}

	// Newest entry mentioning the food wins, matching the conversational
	// "actually it was 2 bowls" flow.
	targetEntryID := ""
	for i := len(log.Entries) - 1; i >= 0; i-- {
		for _, food := range log.Entries[i].Foods {
			if strings.EqualFold(food.FoodName, req.FoodName) {
				targetEntryID = log.Entries[i].EntryID
				break
			}
		}
		if targetEntryID != "" {
			break
		}
	}
	if targetEntryID == "" {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Food not found for this patient/date")
		return
	}

	savedUnit := req.NewUnit
	updated, err := h.store.UpdateEntry(ctx, req.PatientID, req.DateKey, targetEntryID, func(e storage.MealEntry) storage.MealEntry {
		for i := range e.Foods {
			if strings.EqualFold(e.Foods[i].FoodName, req.FoodName) {
				e.Foods[i].QuantityInfo.Amount = req.NewQuantity
				if req.NewUnit != "" {
					e.Foods[i].QuantityInfo.Unit = req.NewUnit
				}
				h.recalcFood(&e.Foods[i])
				savedUnit = e.Foods[i].QuantityInfo.Unit
				e.UpdatedAt = nowUTC()
				break
			}
		}
		e.MealSummary = storage.SummarizeEntryFoods(e.Foods)
		return e
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to update entry")
		return
	}
	if updated == nil {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Entry not found")
		return
	}

	// Keep the conversation window consistent with the stored log.
	h.pipe.UpdateQuantity(req.FoodName, req.NewQuantity, req.NewUnit)

	ok(c, gin.H{
		"patientId":     req.PatientID,
		"foodName":      req.FoodName,
		"savedQuantity": req.NewQuantity,
		"savedUnit":     savedUnit,
	})
}

// findDayForEntry locates which day of a patient's history holds entryID.
func (h *Handler) findDayForEntry(c *gin.Context, patientID, entryID string) (string, bool) {
	logs, err := h.store.GetPatientLogs(c.Request.Context(), patientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to load patient logs")
		return "", false
	}
	for _, log := range logs {
		for _, entry := range log.Entries {
			if entry.EntryID == entryID {
				return log.Day, true
			}
		}
	}
	fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Entry not found for patient")
	return "", false
}

// UpdateFood handles POST /update-food: patch one food line.
func (h *Handler) UpdateFood(c *gin.Context) {
	var req UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.PatientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}

	day, found := h.findDayForEntry(c, req.PatientID, req.EntryID)
	if !found {
		return
	}

	changed := false
	updatedAt := nowUTC()
	updated, err := h.store.UpdateEntry(c.Request.Context(), req.PatientID, day, req.EntryID, func(e storage.MealEntry) storage.MealEntry {
		for i := range e.Foods {
			if e.Foods[i].FoodID != req.FoodID {
				continue
			}
			if req.Patch.FoodName != nil && *req.Patch.FoodName != "" {
				e.Foods[i].FoodName = *req.Patch.FoodName
			}
			if req.Patch.QuantityInfo != nil {
				e.Foods[i].QuantityInfo = *req.Patch.QuantityInfo
			}
			if req.Patch.Nutrition != nil {
				e.Foods[i].Nutrition = *req.Patch.Nutrition
			} else {
				h.recalcFood(&e.Foods[i])
			}
			if e.Foods[i].NoSugar {
				e.Foods[i].Nutrition.Sugar = 0
			}
			changed = true
			break
		}
		e.MealSummary = storage.SummarizeEntryFoods(e.Foods)
		e.UpdatedAt = updatedAt
		return e
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to update entry")
		return
	}
	if updated == nil || !changed {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Food not found in entry")
		return
	}

	ok(c, gin.H{
		"patientId": req.PatientID,
		"entryId":   req.EntryID,
		"foodId":    req.FoodID,
		"updatedAt": updatedAt,
	})
}

// DeleteFood handles POST /delete-food: drop one food line.
func (h *Handler) DeleteFood(c *gin.Context) {
	var req DeleteFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.PatientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}

	day, found := h.findDayForEntry(c, req.PatientID, req.EntryID)
	if !found {
		return
	}

	removed := false
	var summary storage.EntrySummary
	updated, err := h.store.UpdateEntry(c.Request.Context(), req.PatientID, day, req.EntryID, func(e storage.MealEntry) storage.MealEntry {
		kept := e.Foods[:0]
		for _, f := range e.Foods {
			if f.FoodID == req.FoodID {
				removed = true
				continue
			}
			kept = append(kept, f)
		}
		e.Foods = kept
		if removed {
			e.MealSummary = storage.SummarizeEntryFoods(e.Foods)
			e.UpdatedAt = nowUTC()
		}
		summary = e.MealSummary
		return e
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to update entry")
		return
	}
	if updated == nil || !removed {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Food not found in entry")
		return
	}

	ok(c, gin.H{
		"patientId":     req.PatientID,
		"entryId":       req.EntryID,
		"deletedFoodId": req.FoodID,
		"mealSummary":   summary,
	})
}

// ConfirmMeal handles POST /confirm-meal: mark an entry confirmed (or
// back to draft), optionally replacing it with client-final data.
func (h *Handler) ConfirmMeal(c *gin.Context) {
	var req ConfirmMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.PatientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}

	confirmed := true
	if req.Confirmed != nil {
		confirmed = *req.Confirmed
	}

	day := req.DateKey
	if day == "" {
		var found bool
		day, found = h.findDayForEntry(c, req.PatientID, req.EntryID)
		if !found {
			return
		}
	}

	status := "draft"
	confirmedAt := ""
	if confirmed {
		status = "confirmed"
		confirmedAt = nowUTC()
	}

	updated, err := h.store.UpdateEntry(c.Request.Context(), req.PatientID, day, req.EntryID, func(e storage.MealEntry) storage.MealEntry {
		if req.FinalData != nil && len(req.FinalData.Foods) > 0 {
			e.Foods = req.FinalData.Foods
		}
		if req.FinalData != nil && req.FinalData.MealSummary != nil {
			e.MealSummary = *req.FinalData.MealSummary
		} else {
			e.MealSummary = storage.SummarizeEntryFoods(e.Foods)
		}
		e.Status = status
		if confirmedAt != "" {
			e.ConfirmedAt = confirmedAt
		}
		e.UpdatedAt = nowUTC()
		return e
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to update entry")
		return
	}
	if updated == nil {
		fail(c, http.StatusNotFound, common.ErrCodeNotFound, "Entry not found for patient")
		return
	}

	ok(c, gin.H{
		"patientId":   req.PatientID,
		"entryId":     req.EntryID,
		"status":      status,
		"confirmedAt": confirmedAt,
	})
}

// History handles GET /history?patientId=&from=&to=.
func (h *Handler) History(c *gin.Context) {
	patientID := c.Query("patientId")
	if patientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}

	logs, err := h.store.GetHistory(c.Request.Context(), patientID, c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to load history")
		return
	}
	if logs == nil {
		logs = []*storage.DailyLog{}
	}
	ok(c, logs)
}

// Statistics handles GET /statistics: running daily totals plus the
// conversation window.
func (h *Handler) Statistics(c *gin.Context) {
	ok(c, gin.H{
		"dailyTotals":   h.pipe.DailyTotals(),
		"memorySummary": h.pipe.Memory().Summary(),
		"recentMeals":   h.pipe.Memory().Recent(5),
	})
}
