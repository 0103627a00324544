package nutrition

import (
	"sort"
	"strings"
	"sync"
)

// Match scoring policy. The tiers are ordered; a hit at one tier stops the
// search. Fuzzy scores are capped below exact scores so a full-phrase hit
// always wins.
const (
	exactMatchConfidence   = 0.95
	fuzzyMatchCap          = 0.9
	fuzzyMatchBase         = 0.35
	fuzzyCoverageWeight    = 0.5
	fuzzyTokenBonus        = 0.05
	fuzzyTokenBonusMax     = 3
	keywordMatchConfidence = 0.35
)

// keywordFallbacks maps single strong keywords to the most common dish
// they stand in for. Consulted only when every other tier misses. Ordered
// with multi-word keywords first so "ca phe" wins over the bare "ca".
var keywordFallbacks = []struct {
	keyword   string
	canonical string
}{
	{"nuoc cam", "nước cam"},
	{"banh mi", "bánh mì"},
	{"ca phe", "cà phê sữa"},
	{"com", "cơm trắng"},
	{"pho", "phở bò"},
	{"bun", "bún chả"},
	{"trung", "trứng chiên"},
	{"suon", "sườn nướng"},
	{"thit", "thịt bò"},
	{"ca", "cá chiên"},
}

// fuzzyScore implements the subset-match scoring formula.
func fuzzyScore(inputTokens, matchedTokens int) float64 {
	maxTokens := inputTokens
	if matchedTokens > maxTokens {
		maxTokens = matchedTokens
	}
	coverage := float64(matchedTokens) / float64(maxTokens)
	bonusTokens := matchedTokens
	if bonusTokens > fuzzyTokenBonusMax {
		bonusTokens = fuzzyTokenBonusMax
	}
	score := fuzzyMatchBase + fuzzyCoverageWeight*coverage + fuzzyTokenBonus*float64(bonusTokens)
	if score > fuzzyMatchCap {
		score = fuzzyMatchCap
	}
	return score
}

type tokenEntry struct {
	tokens    []string
	canonical string
}

// Matcher resolves free-form food mentions to canonical dictionary names.
// It keeps normalized indexes over the dictionary and is refreshed when
// curation mutates the food set.
type Matcher struct {
	mu      sync.RWMutex
	dict    *Dictionary
	aliases map[string]string // normalized alias -> canonical
	canon   map[string]string // normalized canonical -> canonical
	entries []tokenEntry
}

// NewMatcher builds a matcher indexed over dict.
func NewMatcher(dict *Dictionary) *Matcher {
	m := &Matcher{dict: dict}
	m.Refresh()
	return m
}

// Refresh rebuilds the indexes from the dictionary.
func (m *Matcher) Refresh() {
	aliases := make(map[string]string)
	canon := make(map[string]string)
	var entries []tokenEntry

	defs := m.dict.All()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	for _, def := range defs {
		nc := Normalize(def.Name)
		canon[nc] = def.Name
		entries = append(entries, tokenEntry{tokens: strings.Fields(nc), canonical: def.Name})
		for _, a := range def.Aliases {
			na := Normalize(a)
			if na == "" {
				continue
			}
			if _, taken := aliases[na]; !taken {
				aliases[na] = def.Name
			}
			entries = append(entries, tokenEntry{tokens: strings.Fields(na), canonical: def.Name})
		}
	}

	m.mu.Lock()
	m.aliases = aliases
	m.canon = canon
	m.entries = entries
	m.mu.Unlock()
}

// AddAlias registers alias for canonical in both the dictionary and the
// live indexes. Returns false when canonical is unknown.
func (m *Matcher) AddAlias(canonical, alias string) bool {
	if !m.dict.AddAlias(canonical, alias) {
		return false
	}
	na := Normalize(alias)
	if na == "" {
		return true
	}
	m.mu.Lock()
	if _, taken := m.aliases[na]; !taken {
		m.aliases[na] = canonical
	}
	m.entries = append(m.entries, tokenEntry{tokens: strings.Fields(na), canonical: canonical})
	m.mu.Unlock()
	return true
}

// AddFood inserts or updates a food and indexes it immediately.
func (m *Matcher) AddFood(def FoodDefinition) {
	m.dict.AddOrUpdateFood(def)
	m.Refresh()
}

// Find resolves text to a canonical food name with a confidence score.
// Returns ("", 0) when nothing in the dictionary plausibly matches.
func (m *Matcher) Find(text string) (string, float64) {
	norm := Normalize(text)
	if norm == "" {
		return "", 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if canonical, ok := m.aliases[norm]; ok {
		return canonical, exactMatchConfidence
	}
	if canonical, ok := m.canon[norm]; ok {
		return canonical, exactMatchConfidence
	}

	inputTokens := strings.Fields(norm)
	if len(inputTokens) > 0 {
		inputSet := make(map[string]bool, len(inputTokens))
		for _, t := range inputTokens {
			inputSet[t] = true
		}

		best := ""
		bestScore := 0.0
		for _, e := range m.entries {
			if len(e.tokens) == 0 {
				continue
			}
			contained := true
			for _, t := range e.tokens {
				if !inputSet[t] {
					contained = false
					break
				}
			}
			if !contained {
				continue
			}
			score := fuzzyScore(len(inputTokens), len(e.tokens))
			if score > bestScore {
				best = e.canonical
				bestScore = score
			}
		}
		if best != "" {
			return best, bestScore
		}
	}

	for _, kw := range keywordFallbacks {
		if containsWord(norm, kw.keyword) {
			if _, ok := m.dict.Get(kw.canonical); ok {
				return kw.canonical, keywordMatchConfidence
			}
		}
	}

	return "", 0
}

// containsWord reports whether phrase appears in s on word boundaries.
func containsWord(s, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		leftOK := start == 0 || s[start-1] == ' '
		rightOK := end == len(s) || s[end] == ' '
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
		if idx >= len(s) {
			return false
		}
	}
}
