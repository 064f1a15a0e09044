package model

import "time"

// LLMCall tracks each call to a provider for cost monitoring. Every category
// query and profiling call lands here, success or not.
type LLMCall struct {
	ID         int64     `db:"id" json:"id"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Success    bool      `db:"success" json:"success"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	Error      *string   `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SearchRecord is the audit entry for one completed (or failed) search
// session. Session state itself is transient; this row is what survives.
type SearchRecord struct {
	ID             int64     `db:"id" json:"id"`
	Query          string    `db:"query" json:"query"`
	DealType       string    `db:"deal_type" json:"deal_type"`
	CompanyName    string    `db:"company_name" json:"company_name"`
	Status         string    `db:"status" json:"status"`
	TotalInvestors int       `db:"total_investors" json:"total_investors"`
	AvgScore       int       `db:"avg_score" json:"avg_score"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
