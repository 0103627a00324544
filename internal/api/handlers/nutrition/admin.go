package nutrition

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"nutrition-chat/internal/core/learning"
	core "nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/pkg/common"
	"nutrition-chat/internal/storage"

	"github.com/gin-gonic/gin"
)

// ReviewPendingFoodRequest is the body of POST /admin/review-pending-food.
type ReviewPendingFoodRequest struct {
	PendingID     int64                `json:"pendingId"`
	Decision      string               `json:"decision"`
	CanonicalName string               `json:"canonicalName"`
	Action        string               `json:"action"`
	FoodData      *core.FoodDefinition `json:"foodData"`
}

// Foods handles GET /foods: the live dictionary plus the unit table.
func (h *Handler) Foods(c *gin.Context) {
	query := core.Normalize(c.Query("q"))
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)

	type foodItem struct {
		FoodName string   `json:"foodName"`
		Category string   `json:"category"`
		Aliases  []string `json:"aliases"`
	}

	var foods []foodItem
	for _, def := range h.dict.All() {
		if query != "" && !strings.Contains(core.Normalize(def.Name), query) {
			continue
		}
		aliases := def.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		foods = append(foods, foodItem{FoodName: def.Name, Category: def.Category, Aliases: aliases})
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].FoodName < foods[j].FoodName })

	total := len(foods)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	sliced := foods[offset:end]
	if sliced == nil {
		sliced = []foodItem{}
	}

	type unitItem struct {
		Unit  string  `json:"unit"`
		Grams float64 `json:"grams"`
	}
	defaults := h.units.Defaults()
	units := make([]unitItem, 0, len(defaults))
	for unit, grams := range defaults {
		units = append(units, unitItem{Unit: unit, Grams: grams})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Unit < units[j].Unit })

	ok(c, gin.H{
		"foods":      sliced,
		"totalFoods": total,
		"units":      units,
	})
}

// PendingFoods handles GET /admin/pending-foods.
func (h *Handler) PendingFoods(c *gin.Context) {
	status := c.DefaultQuery("status", learning.StatusPending)

	items, err := h.workflow.List(c.Request.Context(), learning.ListFilter{
		Status: status,
		Action: c.Query("action"),
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 200),
		Offset: intQuery(c, "offset", 0),
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to list pending foods")
		return
	}
	if items == nil {
		items = []learning.PendingFood{}
	}
	ok(c, gin.H{"items": items})
}

// ReviewPendingFood handles POST /admin/review-pending-food: approve or
// reject one pending food; approval mutates the live dictionary.
func (h *Handler) ReviewPendingFood(c *gin.Context) {
	var req ReviewPendingFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	pending, err := h.workflow.Decide(c.Request.Context(), req.PendingID, learning.Decision{
		Verdict:           strings.ToLower(strings.TrimSpace(req.Decision)),
		CanonicalOverride: req.CanonicalName,
		ActionOverride:    strings.ToLower(strings.TrimSpace(req.Action)),
		FoodData:          req.FoodData,
	})
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	ok(c, gin.H{"pending": pending})
}

// FoodTrends handles GET /analytics/food-trends: the most frequently
// logged foods across all patients plus per-day counts.
func (h *Handler) FoodTrends(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	limit := intQuery(c, "limit", 20)

	foodCounts := make(map[string]int)
	foodPatients := make(map[string]map[string]bool)
	dayFoodCounts := make(map[string]map[string]int)
	daySet := make(map[string]bool)

	err := h.store.IterEntries(c.Request.Context(), from, to, func(patientID, day string, entries []storage.MealEntry) {
		daySet[day] = true
		for _, entry := range entries {
			for _, food := range entry.Foods {
				name := strings.TrimSpace(food.FoodName)
				if name == "" {
					continue
				}
				foodCounts[name]++
				if foodPatients[name] == nil {
					foodPatients[name] = make(map[string]bool)
				}
				foodPatients[name][patientID] = true
				if dayFoodCounts[day] == nil {
					dayFoodCounts[day] = make(map[string]int)
				}
				dayFoodCounts[day][name]++
			}
		}
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "failed to scan logs")
		return
	}

	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	type rankedFood struct {
		name  string
		count int
	}
	ranked := make([]rankedFood, 0, len(foodCounts))
	for name, count := range foodCounts {
		ranked = append(ranked, rankedFood{name, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	topFoods := make([]gin.H, 0, len(ranked))
	trendSeries := make(map[string][]int, len(ranked))
	for _, rf := range ranked {
		topFoods = append(topFoods, gin.H{
			"foodName":       rf.name,
			"count":          rf.count,
			"uniquePatients": len(foodPatients[rf.name]),
		})
		series := make([]int, len(days))
		for i, day := range days {
			series[i] = dayFoodCounts[day][rf.name]
		}
		trendSeries[rf.name] = series
	}

	ok(c, gin.H{
		"from":     from,
		"to":       to,
		"topFoods": topFoods,
		"trend": gin.H{
			"days":  days,
			"foods": trendSeries,
		},
	})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// writeWorkflowError maps workflow errors onto HTTP responses.
func writeWorkflowError(c *gin.Context, err error) {
	if ce, okCast := err.(*common.CustomError); okCast {
		fail(c, ce.Status, ce.Code, ce.Message)
		return
	}
	if common.IsValidationError(err) {
		fail(c, http.StatusBadRequest, common.ErrCodeValidation, err.Error())
		return
	}
	fail(c, http.StatusInternalServerError, common.ErrCodeInternalError, "internal error")
}
