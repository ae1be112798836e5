// Package types contains common types used across the application
package types

// CostComponent is one named share of an item's price.
type CostComponent struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

// Recommendation is the externally visible recommendation record.
type Recommendation struct {
	ID                 string                   `json:"id"`
	ItemName           string                   `json:"item_name"`
	EstimatedPrice     int                      `json:"estimated_price"`
	Confidence         float64                  `json:"confidence"`
	MatchQuality       string                   `json:"match_quality"`
	Rank               int                      `json:"rank"`
	RankLabel          string                   `json:"rank_label"`
	IsBestMatch        bool                     `json:"is_best_match"`
	Style              string                   `json:"style"`
	RoomType           string                   `json:"room_type"`
	IndoorOutdoor      string                   `json:"indoor_outdoor"`
	ClimateSuitability string                   `json:"climate_suitability"`
	Explanation        string                   `json:"explanation"`
	Features           []string                 `json:"features"`
	Materials          []string                 `json:"materials"`
	CostBreakdown      map[string]CostComponent `json:"cost_breakdown"`
	BudgetNote         string                   `json:"budget_note"`
}
