package types

// Suggestion is a single proposed edit. A nil Original means the improvement is appended
// to the resume instead of replacing existing text.
type Suggestion struct {
	Original *string `json:"original,omitempty"`
	Improved string  `json:"improved"`
}

// SuggestionCategory groups suggestions under a heading such as "experience".
type SuggestionCategory struct {
	Name  string       `json:"name"`
	Items []Suggestion `json:"items"`
}

// SuggestionSet is the normalized result of an optimize call. Categories keep the
// order in which the backend emitted them.
type SuggestionSet struct {
	Categories []SuggestionCategory `json:"categories"`
}

// Len returns the total number of suggestions across all categories.
func (s *SuggestionSet) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.Categories {
		n += len(c.Items)
	}
	return n
}

// Lookup returns the suggestion at the given category and item index.
func (s *SuggestionSet) Lookup(category, index int) (Suggestion, bool) {
	if s == nil || category < 0 || category >= len(s.Categories) {
		return Suggestion{}, false
	}
	items := s.Categories[category].Items
	if index < 0 || index >= len(items) {
		return Suggestion{}, false
	}
	return items[index], true
}

// OptimizeResult is the outcome of an optimize call.
type OptimizeResult struct {
	OptimizedText string        `json:"optimized_resume"`
	Suggestions   SuggestionSet `json:"suggestions"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
