package types

// ResumeRecord is a resume saved on the backend.
type ResumeRecord struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// SuggestionRecord is a suggestion saved on the backend.
type SuggestionRecord struct {
	ID         int    `json:"id"`
	Suggestion string `json:"suggestion"`
}

// JobPostingRecord is a job posting saved on the backend.
type JobPostingRecord struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
}

// LoginResponse is the body returned by /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message,omitempty"`
}
