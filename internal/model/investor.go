// Package model defines the core data types for the investor-scout pipeline.
// In Go, we use structs instead of classes. The `json:"..."` tags match the
// camelCase keys the LLM prompts ask for, so provider output unmarshals
// directly into these types.
package model

// DealType is the kind of transaction the target's owners are considering.
// Go doesn't have enums — we use typed string constants.
type DealType string

const (
	DealMajority DealType = "majority" // 51-80% stake
	DealFull     DealType = "full"     // 100% acquisition
	DealMinority DealType = "minority" // 10-49% stake
)

// ValidDealType checks if a string is a recognized DealType.
func ValidDealType(s string) bool {
	switch DealType(s) {
	case DealMajority, DealFull, DealMinority:
		return true
	}
	return false
}

// CompanyProfile holds the facts extracted about the target company from one
// profiling call. At most one profile exists per search session and it is
// never mutated after extraction. Numeric fields may be zero when the
// provider could not find them.
type CompanyProfile struct {
	Name         string   `json:"name"`
	LegalName    string   `json:"legalName"`
	VATNumber    string   `json:"vatNumber"`
	Headquarters string   `json:"headquarters"`
	Region       string   `json:"region"`
	Founded      string   `json:"founded"`
	Sector       string   `json:"sector"`
	SubSector    string   `json:"subSector"`
	Description  string   `json:"description"`
	Revenues     string   `json:"revenues"`    // Display string, e.g. "€20M"
	RevenuesNum  float64  `json:"revenuesNum"` // Numeric revenue in €M, 0 if unknown
	EBITDA       string   `json:"ebitda"`
	EBITDAMargin string   `json:"ebitdaMargin"`
	Employees    int      `json:"employees"`
	ExportPct    string   `json:"exportPct"`
	MainClients  []string `json:"mainClients"`
	Owners       string   `json:"owners"`
	Strengths    []string `json:"strengths"`
	RecentNews   []string `json:"recentNews"`
	Sources      []string `json:"sources"`
}

// InvestorMention is one investor entity as reported by a single provider in
// a single category response. Only Name is required — mentions without a name
// are discarded before aggregation. Everything else is best-effort.
type InvestorMention struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"` // Free text: PE, Family Office, Corporate, SWF, Debt
	Headquarters  string   `json:"headquarters"`
	Country       string   `json:"country"`
	AUM           string   `json:"aum"`
	TicketSize    string   `json:"ticketSize"`
	Focus         []string `json:"focus"`
	Relevance     string   `json:"relevance"`
	News          string   `json:"news"`
	NewsDate      string   `json:"newsDate"`
	NewsSource    string   `json:"newsSource"`
	RecentDeals   []string `json:"recentDeals"`
	Contacts      []string `json:"contacts"`
	ItalyPresence string   `json:"italyPresence"` // "Sì"/"Yes"/"No" as reported
	Website       string   `json:"website"`
}

// CategoryResult is the outcome of querying one category against its assigned
// provider. Created once per category, immutable, and always usable: a failed
// or unparseable call yields an empty Mentions slice plus diagnostics, never
// an aborted session.
type CategoryResult struct {
	Category  CategoryID        `json:"category"`
	Provider  string            `json:"provider"`
	Mentions  []InvestorMention `json:"mentions"`
	RawText   string            `json:"-"` // Unparsed response text, kept for diagnostics
	Err       string            `json:"error,omitempty"`
}

// Provenance records which provider and category contributed a mention to an
// aggregated investor.
type Provenance struct {
	Provider string     `json:"provider"`
	Category CategoryID `json:"category"`
}

// NewsItem is one accumulated news entry, tagged with the provider that
// reported it. Deduplicated by exact Text match during aggregation.
type NewsItem struct {
	Text     string `json:"text"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// AggregatedInvestor is the unit the aggregation engine produces: one
// deduplicated investor with merged fields, cross-provider consensus, and a
// deterministic score. Consensus always equals len(Sources); Score is a pure
// function of the other fields and is never mutated independently.
type AggregatedInvestor struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Headquarters  string       `json:"headquarters"`
	Country       string       `json:"country"`
	AUM           string       `json:"aum"`
	TicketSize    string       `json:"ticketSize"`
	Focus         []string     `json:"focus"`
	Relevance     string       `json:"relevance"`
	ItalyPresence string       `json:"italyPresence"`
	Website       string       `json:"website"`
	Contacts      []string     `json:"contacts"`
	Consensus     int          `json:"consensus"`
	Sources       []Provenance `json:"sources"`
	AllNews       []NewsItem   `json:"allNews"`
	AllDeals      []string     `json:"allDeals"`
	Score         int          `json:"score"`
	Fit           string       `json:"fit"` // "Excellent", "High", "Medium", "Low"
}

// HasNews reports whether at least one news item was accumulated.
func (a *AggregatedInvestor) HasNews() bool { return len(a.AllNews) > 0 }

// ConsensusTiers counts investors by how many independent category queries
// agreed on them.
type ConsensusTiers struct {
	High   int `json:"high"`   // consensus >= 3
	Medium int `json:"medium"` // consensus == 2
	Low    int `json:"low"`    // consensus == 1
}

// Summary is the roster-level rollup. Type buckets use case-insensitive
// keyword matching on the free-text Type field, so a hybrid like
// "PE/Corporate" counts in more than one bucket.
type Summary struct {
	Total       int            `json:"total"`
	ByType      map[string]int `json:"byType"`
	ByConsensus ConsensusTiers `json:"byConsensus"`
	AvgScore    int            `json:"avgScore"`
}

// AggregatedResults is what the aggregation engine hands, read-only, to
// filtering and export.
type AggregatedResults struct {
	Investors []AggregatedInvestor `json:"investors"`
	Summary   Summary              `json:"summary"`
}
