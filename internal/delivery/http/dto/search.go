package dto

type SearchRequest struct {
	Query    string   `json:"query"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Resume   string   `json:"resume_text"`
	Matcher  string   `json:"matcher"`
	Limit    int      `json:"limit"`
}

type QuotaRejection struct {
	Reason            string `json:"reason"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
	Remaining         int    `json:"remaining"`
}
