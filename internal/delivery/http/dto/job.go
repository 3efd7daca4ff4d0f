package dto

type JobResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Company      string         `json:"company"`
	Location     string         `json:"location"`
	Description  string         `json:"description,omitempty"`
	URL          string         `json:"url"`
	Source       string         `json:"source"`
	PostedAt     string         `json:"posted_at,omitempty"`
	MatchScore   *float64       `json:"match_score,omitempty"`
	MatchDetails map[string]any `json:"match_details,omitempty"`
	Applied      bool           `json:"applied"`
}

type ApplicationRequest struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ApplicationResponse struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	AppliedAt string `json:"applied_at"`
}
