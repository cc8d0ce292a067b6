package domain

import "time"

type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

type QualifiedAccount struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Domain         string     `json:"domain"`
	Description    string     `json:"description"`
	LogoURL        string     `json:"logoUrl"`
	Tier           Tier       `json:"tier"`
	Industry       string     `json:"industry"`
	Geo            string     `json:"geo"`
	Employees      int        `json:"employees"`
	FitScore       float64    `json:"fit_score"`
	IntentScore    int        `json:"intent_score"`
	IntentDelta14d int        `json:"intent_delta_14d"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	RulesMatch     RulesMatch `json:"rules_match"`
	Enrichment     Enrichment `json:"enrichment"`
}

type RulesMatch struct {
	Industry   bool `json:"industry"`
	Size       bool `json:"size"`
	Geo        bool `json:"geo"`
	Technology bool `json:"technology"`
}

// IntentSignals agrupa os campos de intenção fornecidos por um SignalProvider
type IntentSignals struct {
	IntentScore    int
	IntentDelta14d int
	LastActivityAt time.Time
	RulesMatch     RulesMatch
}

type Enrichment struct {
	SummaryBullets []string    `json:"summary_bullets"`
	Reason         string      `json:"reason"`
	References     []Reference `json:"references"`
}

type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AccountFeedState é o estado publicado pelo feed de contas
type AccountFeedState struct {
	Accounts    []*QualifiedAccount `json:"accounts"`
	Loading     bool                `json:"loading"`
	Error       *string             `json:"error"`
	Activated   bool                `json:"-"`
	LastFetchAt *time.Time          `json:"last_fetch_at,omitempty"`
}

type AccountSummary struct {
	Total         int          `json:"total"`
	ByTier        map[Tier]int `json:"by_tier"`
	AvgFitScore   float64      `json:"avg_fit_score"`
	AvgEmployees  float64      `json:"avg_employees"`
	TopIndustries []string     `json:"top_industries"`
}
