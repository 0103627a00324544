package learning

import (
	"context"
	"time"

	"nutrition-chat/internal/core/nutrition"
)

// Pending food lifecycle states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Suggested curation actions.
const (
	ActionNewFood = "new_food"
	ActionAlias   = "alias"
)

// PendingFood is one LLM-suggested food awaiting curator review.
type PendingFood struct {
	ID              int64                `json:"id"`
	RawName         string               `json:"raw_name"`
	CanonicalName   string               `json:"canonical_name"`
	SuggestedAction string               `json:"suggested_action"`
	Confidence      *float64             `json:"confidence"`
	ExampleInput    string               `json:"example_input"`
	NutritionData   *nutrition.Nutrients `json:"nutrition_data,omitempty"`
	Source          string               `json:"source"`
	Status          string               `json:"status"`
	SeenCount       int                  `json:"seen_count"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ListFilter narrows pending-food listings.
type ListFilter struct {
	Status string
	Action string
	Query  string
	Limit  int
	Offset int
}

// Store persists pending foods. The state-machine rules live in Workflow;
// the store only reads and writes rows.
type Store interface {
	GetByKey(ctx context.Context, rawName, canonicalName string) (*PendingFood, error)
	GetByID(ctx context.Context, id int64) (*PendingFood, error)
	Insert(ctx context.Context, p *PendingFood) error
	Update(ctx context.Context, p *PendingFood) error
	List(ctx context.Context, filter ListFilter) ([]PendingFood, error)
}
