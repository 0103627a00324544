package nutrition

import (
	"net/http"
	"time"

	"nutrition-chat/internal/core/learning"
	core "nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/core/pipeline"
	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"
	"nutrition-chat/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the meal-analysis and curation endpoints.
type Handler struct {
	cfg        *config.Config
	pipe       *pipeline.Pipeline
	store      *storage.SQLiteStorage
	workflow   *learning.Workflow
	dict       *core.Dictionary
	units      *core.UnitTable
	calculator *core.Calculator
}

// NewHandler wires the handler's collaborators.
func NewHandler(
	cfg *config.Config,
	pipe *pipeline.Pipeline,
	store *storage.SQLiteStorage,
	workflow *learning.Workflow,
	dict *core.Dictionary,
	units *core.UnitTable,
	calculator *core.Calculator,
) *Handler {
	return &Handler{
		cfg:        cfg,
		pipe:       pipe,
		store:      store,
		workflow:   workflow,
		dict:       dict,
		units:      units,
		calculator: calculator,
	}
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	PatientID string `json:"patientId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	DateKey   string `json:"dateKey"`
	Locale    string `json:"locale"`
}

// AnalyzeWithDateRequest saves the entry under an explicit day.
type AnalyzeWithDateRequest struct {
	PatientID string `json:"patientId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Locale    string `json:"locale"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// toEntryFoods maps pipeline records onto the stored client-facing shape.
func toEntryFoods(foods []core.FoodRecord) []storage.EntryFood {
	out := make([]storage.EntryFood, 0, len(foods))
	for _, f := range foods {
		out = append(out, storage.EntryFood{
			FoodID:   "tmp_" + common.GenerateUUID()[:8],
			FoodName: f.CanonicalName,
			QuantityInfo: storage.EntryQuantity{
				Amount:     f.Quantity.Amount,
				Unit:       f.Quantity.Unit,
				Type:       string(f.Quantity.Type),
				Confidence: f.Quantity.Confidence,
			},
			Nutrition: f.Nutrition,
			NoSugar:   f.NoSugar,
		})
	}
	return out
}

func toEntrySummary(s core.MealSummary) storage.EntrySummary {
	return storage.EntrySummary{
		FoodCount: s.FoodCount,
		Calories:  s.Totals.Calories,
		Carbs:     s.Totals.Carbs,
		Sugar:     s.Totals.Sugar,
		Protein:   s.Totals.Protein,
		Fat:       s.Totals.Fat,
		Fiber:     s.Totals.Fiber,
	}
}

// Analyze handles POST /analyze: run the pipeline and save the entry
// under the given dateKey.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	h.runAnalyze(c, req.PatientID, req.UserID, req.Text, req.DateKey)
}

// AnalyzeWithDate handles POST /analyze-with-date.
func (h *Handler) AnalyzeWithDate(c *gin.Context) {
	var req AnalyzeWithDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	h.runAnalyze(c, req.PatientID, req.UserID, req.Text, req.Date)
}

func (h *Handler) runAnalyze(c *gin.Context, patientID, userID, text, dateKey string) {
	if patientID == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "patientId is required")
		return
	}
	if dateKey == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "dateKey is required")
		return
	}
	if text == "" {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, "text is required")
		return
	}

	result := h.pipe.Process(c.Request.Context(), text)

	entryID := common.GenerateUUID()
	foods := toEntryFoods(result.Foods)
	summary := toEntrySummary(result.MealSummary)

	entry := storage.MealEntry{
		EntryID:     entryID,
		Text:        text,
		UserID:      userID,
		Foods:       foods,
		MealSummary: summary,
		Status:      "draft",
		CreatedAt:   nowUTC(),
	}
	if _, err := h.store.AppendEntry(c.Request.Context(), patientID, dateKey, entry); err != nil {
		common.LogError("failed to save analyzed entry",
			zap.String("patient_id", patientID),
			zap.String("day", dateKey),
			zap.Error(err))
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to save entry")
		return
	}

	meta := gin.H{
		"patientId": patientID,
		"entryId":   entryID,
		"createdAt": entry.CreatedAt,
		"source":    result.Source,
		"isUpdate":  result.IsUpdate,
		"deepseek": gin.H{
			"used":        result.Escalation.Used,
			"available":   result.Escalation.Available,
			"success":     result.Escalation.Success,
			"trigger":     result.Escalation.Reason,
			"error":       result.Escalation.Error,
			"analysis":    result.Escalation.Analysis,
			"suggestions": result.Escalation.Suggestions,
		},
	}
	if conf := confidenceMeta(result.Foods); conf != nil {
		meta["confidence"] = conf
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"foods":       foods,
			"mealSummary": summary,
			"response":    result.Narrative,
		},
		"meta": meta,
	})
}

func confidenceMeta(foods []core.FoodRecord) gin.H {
	if len(foods) == 0 {
		return nil
	}
	min, max, sum := foods[0].Confidence, foods[0].Confidence, 0.0
	for _, f := range foods {
		if f.Confidence < min {
			min = f.Confidence
		}
		if f.Confidence > max {
			max = f.Confidence
		}
		sum += f.Confidence
	}
	return gin.H{"min": min, "max": max, "avg": sum / float64(len(foods))}
}
