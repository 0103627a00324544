package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"nutrition-chat/internal/core/ai/cache"
	"nutrition-chat/internal/core/ai/deepseek"
	"nutrition-chat/internal/core/learning"
	"nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// LLMClient is the escalation backend. Satisfied by *deepseek.Client.
type LLMClient interface {
	Available() bool
	Analyze(ctx context.Context, userInput string) deepseek.Result
}

// Curator receives learned foods for human review. Satisfied by
// *learning.Workflow.
type Curator interface {
	Suggest(ctx context.Context, s learning.Suggestion) (*learning.PendingFood, error)
}

// Pipeline is the hybrid local-first, LLM-fallback meal analyzer.
type Pipeline struct {
	config     *config.Config
	dict       *nutrition.Dictionary
	matcher    *nutrition.Matcher
	extractor  *nutrition.Extractor
	calculator *nutrition.Calculator
	memory     *nutrition.Memory
	llm        LLMClient
	cache      cache.Store
	curator    Curator
	threshold  float64

	mu          sync.Mutex
	dailyTotals nutrition.Nutrients
}

// Options bundles the pipeline's collaborators.
type Options struct {
	Config     *config.Config
	Dictionary *nutrition.Dictionary
	Matcher    *nutrition.Matcher
	Extractor  *nutrition.Extractor
	Calculator *nutrition.Calculator
	Memory     *nutrition.Memory
	LLM        LLMClient
	Cache      cache.Store
	Curator    Curator
}

// New assembles the pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		config:     opts.Config,
		dict:       opts.Dictionary,
		matcher:    opts.Matcher,
		extractor:  opts.Extractor,
		calculator: opts.Calculator,
		memory:     opts.Memory,
		llm:        opts.LLM,
		cache:      opts.Cache,
		curator:    opts.Curator,
		threshold:  opts.Config.Nutrition.ConfidenceThreshold,
	}
}

// Process analyzes one utterance end to end: local extraction, optional
// LLM escalation, memory recording and narrative generation.
func (p *Pipeline) Process(ctx context.Context, userInput string) *nutrition.ProcessResult {
	extractions := p.extractor.Extract(userInput)

	records := make([]nutrition.FoodRecord, 0, len(extractions))
	for _, ex := range extractions {
		if rec, ok := p.analyzeLocal(ex); ok {
			records = append(records, rec)
		}
	}

	escalate, reason := p.shouldEscalate(extractions, records)
	meta := nutrition.EscalationMeta{
		Used:      escalate,
		Available: p.llm.Available(),
		Reason:    reason,
	}
	source := nutrition.SourceLocal

	if escalate {
		llmFoods, llmMeta := p.escalate(ctx, userInput)
		meta.Success = llmMeta.Success
		meta.Error = llmMeta.Error
		meta.Analysis = llmMeta.Analysis
		meta.Suggestions = llmMeta.Suggestions

		if llmMeta.Success {
			// Escalation failure never discards valid local matches;
			// success replaces them wholesale.
			records = llmFoods
			source = nutrition.SourceDeepSeek
		}
	}

	isUpdate := p.memory.IsQuantityUpdate(records)
	p.memory.Record(userInput, records)

	summary := nutrition.SummarizeMeal(records)
	p.mu.Lock()
	p.dailyTotals = p.dailyTotals.Add(summary.Totals)
	daily := p.dailyTotals
	p.mu.Unlock()

	result := &nutrition.ProcessResult{
		Timestamp:      time.Now(),
		Text:           userInput,
		Foods:          records,
		MealSummary:    summary,
		Source:         source,
		Escalation:     meta,
		ExtractedCount: len(extractions),
		AnalyzedCount:  len(records),
		IsUpdate:       isUpdate,
		MemorySummary:  p.memory.Summary(),
		DailyTotals:    daily,
	}
	result.Narrative = Narrative(result)
	return result
}

// analyzeLocal turns one extraction into a full record. Foods missing
// from the dictionary are dropped, mirroring the silent-recall policy of
// the extractor.
func (p *Pipeline) analyzeLocal(ex nutrition.Extraction) (nutrition.FoodRecord, bool) {
	def, ok := p.dict.Get(ex.FoodName)
	if !ok {
		return nutrition.FoodRecord{}, false
	}

	weight := p.calculator.EstimateWeight(ex.Quantity, def.Category)
	nut, _ := p.calculator.Compute(ex.FoodName, weight)
	if ex.NoSugar {
		nut.Sugar = 0
	}

	return nutrition.FoodRecord{
		Name:            ex.OriginalText,
		CanonicalName:   ex.FoodName,
		Category:        def.Category,
		Quantity:        ex.Quantity,
		MatchConfidence: ex.MatchConfidence,
		Confidence:      nutrition.CombinedConfidence(ex.MatchConfidence, ex.Quantity.Confidence),
		EstimatedGrams:  weight,
		Nutrition:       nut,
		NoSugar:         ex.NoSugar,
		Source:          nutrition.SourceLocal,
	}, true
}

// shouldEscalate decides whether to call the LLM. An unconfigured backend
// never escalates, whatever the confidence.
func (p *Pipeline) shouldEscalate(extractions []nutrition.Extraction, records []nutrition.FoodRecord) (bool, nutrition.EscalationReason) {
	if !p.llm.Available() {
		return false, nutrition.ReasonNotConfigured
	}
	if len(extractions) == 0 || len(records) == 0 {
		return true, nutrition.ReasonNoFoodsDetected
	}
	min := records[0].Confidence
	for _, r := range records[1:] {
		if r.Confidence < min {
			min = r.Confidence
		}
	}
	if min < p.threshold {
		return true, nutrition.ReasonLowConfidence
	}
	return false, nutrition.ReasonConfidenceOK
}

// escalate calls the LLM (through the short-lived response cache) and
// normalizes its payload into local records.
func (p *Pipeline) escalate(ctx context.Context, userInput string) ([]nutrition.FoodRecord, nutrition.EscalationMeta) {
	model := p.config.DeepSeek.Model
	var raw deepseek.Result

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, model, userInput); ok {
			if err := json.Unmarshal([]byte(cached), &raw); err != nil {
				raw = deepseek.Result{}
			}
		}
	}
	if !raw.Success && raw.Error == "" {
		raw = p.llm.Analyze(ctx, userInput)
		if raw.Success && p.cache != nil {
			if data, err := json.Marshal(raw); err == nil {
				p.cache.Set(ctx, model, userInput, string(data))
			}
		}
	}

	meta := nutrition.EscalationMeta{
		Error:       raw.Error,
		Analysis:    raw.Analysis,
		Suggestions: raw.Suggestions,
	}

	if !raw.Success {
		return nil, meta
	}

	records := p.normalizeLLMFoods(raw.Foods)
	if len(records) == 0 {
		meta.Error = "LLM did not return recognizable foods"
		return nil, meta
	}

	meta.Success = true
	p.persistPending(ctx, userInput, records)
	return records, meta
}

// normalizeLLMFoods maps the model's loosely-shaped food list onto local
// records, recomputing weight and nutrition locally.
func (p *Pipeline) normalizeLLMFoods(rawFoods []deepseek.RawFood) []nutrition.FoodRecord {
	records := make([]nutrition.FoodRecord, 0, len(rawFoods))
	for _, raw := range rawFoods {
		rawName := raw.DisplayName()
		if rawName == "" {
			continue
		}

		noSugar := nutrition.HasNoSugarMarker(rawName)
		matchName := rawName
		if noSugar {
			matchName = nutrition.StripNoSugar(rawName)
		}

		name, matchConf := p.resolveName(matchName, strings.TrimSpace(raw.CanonicalName))
		if name == "" {
			continue
		}

		qty := p.normalizeQuantity(raw)
		combined := nutrition.CombinedConfidence(matchConf, qty.Confidence)

		category := ""
		if def, known := p.dict.Get(name); known {
			category = def.Category
		} else if raw.Category != "" {
			category = raw.Category
		}

		weight := p.calculator.EstimateWeight(qty, category)

		var nut nutrition.Nutrients
		if _, known := p.dict.Get(name); known {
			nut, _ = p.calculator.Compute(name, weight)
		} else if raw.NutritionHint != nil {
			nut = hintVector(raw.NutritionHint).Scale(weight / 100)
		}
		if noSugar {
			nut.Sugar = 0
		}

		records = append(records, nutrition.FoodRecord{
			Name:            rawName,
			CanonicalName:   name,
			Category:        category,
			Quantity:        qty,
			MatchConfidence: matchConf,
			Confidence:      combined,
			EstimatedGrams:  weight,
			Nutrition:       nut,
			NoSugar:         noSugar,
			Source:          nutrition.SourceDeepSeek,
		})
	}
	return records
}

// resolveName picks the canonical name for an LLM food. The LLM-declared
// canonical name wins over a differing matcher suggestion so a dish is
// never silently substituted; the matcher only supplies the confidence.
func (p *Pipeline) resolveName(matchName, llmCanonical string) (string, float64) {
	matched, conf := p.matcher.Find(matchName)

	if llmCanonical != "" && llmCanonical != matched {
		if _, known := p.dict.Get(llmCanonical); known {
			return llmCanonical, 0.95
		}
		return llmCanonical, 0.5
	}
	if matched != "" {
		return matched, conf
	}
	name := strings.TrimSpace(matchName)
	if name == "" {
		return "", 0
	}
	return name, 0.5
}

// normalizeQuantity maps the loose quantity object onto QuantityInfo.
// LLM quantities are always treated as relative servings.
func (p *Pipeline) normalizeQuantity(raw deepseek.RawFood) nutrition.QuantityInfo {
	amount := 1.0
	unit := "phần"
	baseConf := 0.6
	if raw.Confidence != nil {
		baseConf = float64(*raw.Confidence)
	}
	qtyConf := baseConf

	if qd := raw.QuantityData(); qd != nil {
		if qd.Amount != nil && *qd.Amount > 0 {
			amount = float64(*qd.Amount)
		} else if qd.Value != nil && *qd.Value > 0 {
			amount = float64(*qd.Value)
		}
		if strings.TrimSpace(qd.Unit) != "" {
			unit = strings.TrimSpace(qd.Unit)
		}
		if qd.Confidence != nil {
			qtyConf = float64(*qd.Confidence)
		}
	}

	return nutrition.QuantityInfo{
		Amount:     amount,
		Unit:       unit,
		Type:       nutrition.QuantityRelative,
		Confidence: qtyConf,
	}
}

// persistPending hands unknown or weakly matched foods to curation, once
// per normalized (alias, canonical) pair per call.
func (p *Pipeline) persistPending(ctx context.Context, userInput string, records []nutrition.FoodRecord) {
	if p.curator == nil {
		return
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		canonical := strings.TrimSpace(rec.CanonicalName)
		if canonical == "" {
			continue
		}

		// Known foods with a solid match are not curation material.
		_, known := p.dict.Get(canonical)
		if known && rec.MatchConfidence >= 0.6 {
			continue
		}

		alias := nutrition.StripNoSugar(strings.TrimSpace(rec.Name))
		if alias == "" {
			alias = canonical
		}

		key := nutrition.Normalize(alias) + "\x00" + nutrition.Normalize(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true

		conf := rec.Confidence
		nut := rec.Nutrition
		if _, err := p.curator.Suggest(ctx, learning.Suggestion{
			RawName:       alias,
			CanonicalName: canonical,
			Action:        learning.ActionNewFood,
			Confidence:    &conf,
			ExampleInput:  userInput,
			NutritionData: &nut,
			Source:        nutrition.SourceDeepSeek,
		}); err != nil {
			common.LogWarn("failed to persist pending food",
				zap.String("canonical_name", canonical),
				zap.Error(err))
		}
	}
}

// UpdateQuantity rewrites the amount of a food in the most recent memory
// entry and recomputes its weight and nutrition.
func (p *Pipeline) UpdateQuantity(foodName string, amount float64, unit string) bool {
	return p.memory.UpdateLatestQuantity(foodName, amount, unit, func(f nutrition.FoodRecord) nutrition.FoodRecord {
		f.EstimatedGrams = p.calculator.EstimateWeight(f.Quantity, f.Category)
		if nut, ok := p.calculator.Compute(f.CanonicalName, f.EstimatedGrams); ok {
			f.Nutrition = nut
		}
		if f.NoSugar {
			f.Nutrition.Sugar = 0
		}
		f.Confidence = nutrition.CombinedConfidence(f.MatchConfidence, f.Quantity.Confidence)
		return f
	})
}

// Memory exposes the conversation window for history endpoints.
func (p *Pipeline) Memory() *nutrition.Memory {
	return p.memory
}

// DailyTotals returns the running nutrient total since the last reset.
func (p *Pipeline) DailyTotals() nutrition.Nutrients {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dailyTotals
}

// ResetDaily zeroes the running daily total.
func (p *Pipeline) ResetDaily() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dailyTotals = nutrition.Nutrients{}
}

func hintVector(h *deepseek.NutritionHint) nutrition.Nutrients {
	return nutrition.Nutrients{
		Calories: float64(h.Calories),
		Carbs:    float64(h.Carbs),
		Sugar:    float64(h.Sugar),
		Protein:  float64(h.Protein),
		Fat:      float64(h.Fat),
		Fiber:    float64(h.Fiber),
	}
}
