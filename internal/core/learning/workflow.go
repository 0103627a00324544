package learning

import (
	"context"
	"strings"
	"sync"
	"time"

	"nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Suggestion is the input to Suggest.
type Suggestion struct {
	RawName       string
	CanonicalName string
	Action        string
	Confidence    *float64
	ExampleInput  string
	NutritionData *nutrition.Nutrients
	Source        string
}

// Decision is the input to Decide.
type Decision struct {
	Verdict           string // "approve" or "reject"
	CanonicalOverride string
	ActionOverride    string
	FoodData          *nutrition.FoodDefinition
}

// Workflow implements the pending-food state machine: idempotent
// suggestion upserts and curator approve/reject decisions that mutate
// the live dictionary.
type Workflow struct {
	mu      sync.Mutex
	store   Store
	matcher *nutrition.Matcher
}

// NewWorkflow builds a workflow over store and matcher.
func NewWorkflow(store Store, matcher *nutrition.Matcher) *Workflow {
	return &Workflow{store: store, matcher: matcher}
}

// Suggest upserts a pending food keyed by (raw_name, canonical_name).
// Repeated suggestions merge: max confidence wins, the newest non-empty
// example input is kept, seen_count increments. An approved row never
// moves back to pending.
func (w *Workflow) Suggest(ctx context.Context, s Suggestion) (*PendingFood, error) {
	raw := strings.TrimSpace(s.RawName)
	canonical := strings.TrimSpace(s.CanonicalName)
	if raw == "" || canonical == "" {
		return nil, common.NewValidationError("raw_name and canonical_name are required")
	}
	action := s.Action
	if action == "" {
		action = ActionNewFood
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	existing, err := w.store.GetByKey(ctx, raw, canonical)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing == nil {
		p := &PendingFood{
			RawName:         raw,
			CanonicalName:   canonical,
			SuggestedAction: action,
			Confidence:      s.Confidence,
			ExampleInput:    s.ExampleInput,
			NutritionData:   s.NutritionData,
			Source:          s.Source,
			Status:          StatusPending,
			SeenCount:       1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := w.store.Insert(ctx, p); err != nil {
			return nil, err
		}
		common.LogInfo("pending food suggested",
			zap.String("raw_name", raw),
			zap.String("canonical_name", canonical),
			zap.String("action", action))
		return p, nil
	}

	if s.Confidence != nil && (existing.Confidence == nil || *s.Confidence > *existing.Confidence) {
		existing.Confidence = s.Confidence
	}
	if s.ExampleInput != "" {
		existing.ExampleInput = s.ExampleInput
	}
	if s.NutritionData != nil {
		existing.NutritionData = s.NutritionData
	}
	existing.SeenCount++
	existing.UpdatedAt = now

	if err := w.store.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Decide applies a curator verdict. Reject is terminal. Approve resolves
// the final canonical name and action, mutates the dictionary, and
// refreshes the matcher index before returning.
func (w *Workflow) Decide(ctx context.Context, id int64, d Decision) (*PendingFood, error) {
	if d.Verdict != "approve" && d.Verdict != "reject" {
		return nil, common.ErrInvalidDecision
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.ErrPendingNotFound
	}

	if d.Verdict == "reject" {
		p.Status = StatusRejected
		p.UpdatedAt = time.Now()
		if err := w.store.Update(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	canonical := strings.TrimSpace(d.CanonicalOverride)
	if canonical == "" {
		canonical = strings.TrimSpace(p.CanonicalName)
	}
	if canonical == "" {
		return nil, common.ErrEmptyCanonical
	}

	action := d.ActionOverride
	if action == "" {
		action = p.SuggestedAction
	}
	if action == "" {
		action = ActionNewFood
	}

	switch action {
	case ActionAlias:
		if !w.matcher.AddAlias(canonical, p.RawName) {
			return nil, common.NewValidationError("canonical food not found for alias registration")
		}
	case ActionNewFood:
		def := nutrition.FoodDefinition{Name: canonical}
		if d.FoodData != nil {
			def = *d.FoodData
			def.Name = canonical
		}
		def.Aliases = appendUnique(def.Aliases, p.RawName)
		def.Aliases = appendUnique(def.Aliases, canonical)
		w.matcher.AddFood(def)
		if p.RawName != canonical {
			w.matcher.AddAlias(canonical, p.RawName)
		}
	default:
		return nil, common.ErrInvalidAction
	}

	p.Status = StatusApproved
	p.CanonicalName = canonical
	p.SuggestedAction = action
	p.UpdatedAt = time.Now()
	if err := w.store.Update(ctx, p); err != nil {
		return nil, err
	}

	common.LogInfo("pending food approved",
		zap.Int64("id", p.ID),
		zap.String("canonical_name", canonical),
		zap.String("action", action))
	return p, nil
}

// List returns pending foods matching filter.
func (w *Workflow) List(ctx context.Context, filter ListFilter) ([]PendingFood, error) {
	return w.store.List(ctx, filter)
}

func appendUnique(list []string, v string) []string {
	norm := nutrition.Normalize(v)
	for _, have := range list {
		if nutrition.Normalize(have) == norm {
			return list
		}
	}
	return append(list, v)
}
