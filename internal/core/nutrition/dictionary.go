package nutrition

import "sync"

// Dictionary is the mutable food knowledge base. Reads vastly outnumber
// writes; writes arrive when a curator approves a learned food or alias.
type Dictionary struct {
	mu    sync.RWMutex
	foods map[string]*FoodDefinition // keyed by canonical name
}

// NewDictionary builds a dictionary pre-loaded with the built-in foods.
func NewDictionary() *Dictionary {
	d := &Dictionary{foods: make(map[string]*FoodDefinition)}
	for _, f := range seedFoods() {
		def := f
		d.foods[def.Name] = &def
	}
	return d
}

// Get returns the definition for a canonical name.
func (d *Dictionary) Get(name string) (FoodDefinition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	def, ok := d.foods[name]
	if !ok {
		return FoodDefinition{}, false
	}
	return *def, true
}

// Names returns every canonical food name.
func (d *Dictionary) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.foods))
	for name := range d.foods {
		out = append(out, name)
	}
	return out
}

// All returns a snapshot of every definition.
func (d *Dictionary) All() []FoodDefinition {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]FoodDefinition, 0, len(d.foods))
	for _, def := range d.foods {
		out = append(out, *def)
	}
	return out
}

// Len returns the number of canonical foods.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.foods)
}

// AddAlias attaches alias to the food named canonical. Returns false when
// the canonical food does not exist. Duplicate aliases are ignored.
func (d *Dictionary) AddAlias(canonical, alias string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	def, ok := d.foods[canonical]
	if !ok {
		return false
	}
	norm := Normalize(alias)
	for _, a := range def.Aliases {
		if Normalize(a) == norm {
			return true
		}
	}
	def.Aliases = append(def.Aliases, alias)
	return true
}

// AddOrUpdateFood inserts a new food or merges data over an existing one.
// Zero-valued fields of def do not overwrite existing data.
func (d *Dictionary) AddOrUpdateFood(def FoodDefinition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.foods[def.Name]
	if !ok {
		copied := def
		if copied.Category == "" {
			copied.Category = "unknown"
		}
		d.foods[def.Name] = &copied
		return
	}
	if def.Category != "" {
		existing.Category = def.Category
	}
	if def.PerHundred != (Nutrients{}) {
		existing.PerHundred = def.PerHundred
	}
	for _, a := range def.Aliases {
		norm := Normalize(a)
		dup := false
		for _, have := range existing.Aliases {
			if Normalize(have) == norm {
				dup = true
				break
			}
		}
		if !dup {
			existing.Aliases = append(existing.Aliases, a)
		}
	}
	if len(def.Components) > 0 {
		existing.Components = def.Components
	}
}
