package nutrition

import (
	"sync"
	"time"
)

// MemoryEntry is one recorded utterance with its analyzed foods.
type MemoryEntry struct {
	Timestamp time.Time    `json:"timestamp"`
	Input     string       `json:"input"`
	Foods     []FoodRecord `json:"foods"`
}

// MemorySummary aggregates the current memory window.
type MemorySummary struct {
	TotalNutrition Nutrients      `json:"total_nutrition"`
	FoodCounts     map[string]int `json:"food_counts"`
	MessageCount   int            `json:"message_count"`
}

// Memory is a fixed-capacity FIFO window over recent analyses. Inserting
// beyond capacity evicts the oldest entry. All methods are safe for
// concurrent use.
type Memory struct {
	mu       sync.Mutex
	capacity int
	entries  []MemoryEntry
	now      func() time.Time
}

// DefaultMemoryCapacity is the conversation window used when none is
// configured.
const DefaultMemoryCapacity = 3

// NewMemory builds a memory window holding capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{capacity: capacity, now: time.Now}
}

// Record appends an analysis, evicting the oldest entry when full.
func (m *Memory) Record(input string, foods []FoodRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, MemoryEntry{
		Timestamp: m.now(),
		Input:     input,
		Foods:     append([]FoodRecord(nil), foods...),
	})
	if len(m.entries) > m.capacity {
		m.entries = m.entries[len(m.entries)-m.capacity:]
	}
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(limit int) []MemoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]MemoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.entries[i])
	}
	return out
}

// Summary recomputes aggregates from the current window contents. Never
// maintained incrementally, so it cannot drift after eviction.
func (m *Memory) Summary() MemorySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := MemorySummary{
		FoodCounts:   make(map[string]int),
		MessageCount: len(m.entries),
	}
	for _, e := range m.entries {
		for _, f := range e.Foods {
			s.TotalNutrition = s.TotalNutrition.Add(f.Nutrition)
			s.FoodCounts[f.CanonicalName]++
		}
	}
	return s
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

// IsQuantityUpdate reports whether foods looks like a correction of the
// most recent entry: at least one overlapping food and at most two foods
// in the new message.
func (m *Memory) IsQuantityUpdate(foods []FoodRecord) bool {
	if len(foods) == 0 || len(foods) > 2 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return false
	}
	previous := m.entries[len(m.entries)-1]
	for _, f := range foods {
		for _, p := range previous.Foods {
			if f.CanonicalName == p.CanonicalName {
				return true
			}
		}
	}
	return false
}

// UpdateLatestQuantity rewrites the quantity of foodName in the most
// recent entry and replaces the record with the result of recalc. Returns
// false when no recent entry mentions the food.
func (m *Memory) UpdateLatestQuantity(foodName string, amount float64, unit string, recalc func(FoodRecord) FoodRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return false
	}
	latest := &m.entries[len(m.entries)-1]
	for i, f := range latest.Foods {
		if f.CanonicalName != foodName {
			continue
		}
		f.Quantity.Amount = amount
		if unit != "" {
			f.Quantity.Unit = unit
		}
		latest.Foods[i] = recalc(f)
		return true
	}
	return false
}
