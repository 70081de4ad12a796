package types

// JobMatch is one matched job posting. Every field may be absent.
type JobMatch struct {
	Title        *string `json:"title"`
	Organization *string `json:"organization"`
	Location     *string `json:"location"`
	URL          *string `json:"url"`
}

// MatchResult is the outcome of a match-jobs call, in backend order.
type MatchResult struct {
	Jobs     []JobMatch `json:"jobs"`
	Keywords []string   `json:"keywords"`
}

// Deref returns the pointed-to string, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
