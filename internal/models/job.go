package models

// JobPosting is the normalized posting returned by source adapters.
// Values are treated as immutable once an adapter has produced them.
type JobPosting struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// Valid reports whether the required fields are present.
func (j JobPosting) Valid() bool {
	return j.Title != "" && j.Company != "" && j.Link != "" && j.Source != ""
}

// FindResult is what the orchestrator hands back to callers.
type FindResult struct {
	Jobs         []JobPosting `json:"jobs"`
	TotalFound   int          `json:"totalFound"`
	UsedFallback bool         `json:"usedFallback"`
}
