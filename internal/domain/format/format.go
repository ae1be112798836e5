// Package format turns selected items into the externally visible
// recommendation records.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/fallback"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/internal/domain/selection"
	"github.com/okian/homespark/internal/domain/types"
)

// Relative budget positions splitting the range into thirds.
const (
	lowerThird = 0.33
	upperThird = 0.67
)

// Formatter is a pure function of (item, score, rank, preferences).
type Formatter struct{}

// New creates a Formatter.
func New() Formatter { return Formatter{} }

// Format renders a scored item. rank is zero-based.
func (f Formatter) Format(it catalog.Item, score float64, rank int, prefs model.Preferences) types.Recommendation {
	rec := f.base(it, rank, prefs)
	rec.Confidence = confidence(score)
	rec.MatchQuality = selection.TierFor(score).String()
	rec.Explanation = explanation(it, score, rank)
	return rec
}

// FormatFallback renders a sampled item with the fixed fallback confidence
// and tier.
func (f Formatter) FormatFallback(it catalog.Item, rank int, prefs model.Preferences) types.Recommendation {
	rec := f.base(it, rank, prefs)
	rec.Confidence = fallback.Confidence
	rec.MatchQuality = fallback.Tier.String()
	rec.Explanation = fmt.Sprintf("Alternative near your budget range ($%d-$%d).", prefs.BudgetMin, prefs.BudgetMax)
	return rec
}

func (f Formatter) base(it catalog.Item, rank int, prefs model.Preferences) types.Recommendation {
	label := "Best Match"
	if rank > 0 {
		label = "Alternative " + strconv.Itoa(rank)
	}
	return types.Recommendation{
		ID:                 "rec_" + strconv.FormatInt(it.ID, 10),
		ItemName:           it.Name,
		EstimatedPrice:     it.Cost,
		Rank:               rank + 1,
		RankLabel:          label,
		IsBestMatch:        rank == 0,
		Style:              it.Style,
		RoomType:           it.RoomType,
		IndoorOutdoor:      it.IndoorOutdoor,
		ClimateSuitability: it.Climate,
		Features:           Features(it.RoomType),
		Materials:          Materials(it.IndoorOutdoor, it.Climate),
		CostBreakdown:      CostBreakdown(it.Cost, it.RoomType),
		BudgetNote:         BudgetNote(it.Cost, prefs.BudgetMin, prefs.BudgetMax),
	}
}

func confidence(score float64) float64 {
	s := math.Max(0, math.Min(1, score))
	return math.Round(s*100) / 100
}

func explanation(it catalog.Item, score float64, rank int) string {
	room := titleWords(strings.ReplaceAll(it.RoomType, "_", " "))
	subject := fmt.Sprintf("%s %s ($%d)", it.Style, room, it.Cost)
	tier := selection.TierFor(score)

	if rank == 0 {
		switch tier {
		case selection.Perfect:
			return "🌟 Best Match: This " + subject + " perfectly matches all your preferences within budget!"
		case selection.Excellent:
			return "⭐ Best Match: This " + subject + " strongly aligns with your requirements and budget!"
		case selection.Good:
			return "✓ Best Match: This " + subject + " is your top recommendation within budget."
		default:
			return "Best available: This " + subject + " fits your budget range."
		}
	}

	prefix := fmt.Sprintf("Alternative #%d: ", rank)
	switch tier {
	case selection.Perfect:
		return prefix + "Excellent " + subject + " - another perfect option!"
	case selection.Excellent:
		return prefix + "Strong " + subject + " match with great value."
	case selection.Good:
		return prefix + "Good " + subject + " offering variety within budget."
	default:
		return prefix + subject + " provides additional choice within budget."
	}
}

// Features returns the feature list for a room type.
func Features(roomType string) []string {
	return lookup(featureTable, roomType, defaultFeatures)
}

// Materials returns the material list for an indoor/outdoor setting and
// climate.
func Materials(indoorOutdoor, climate string) []string {
	if strings.Contains(strings.ToLower(indoorOutdoor), "outdoor") {
		return lookup(outdoorMaterials, climate, defaultOutdoorMaterials)
	}
	return lookup(indoorMaterials, climate, defaultIndoorMaterials)
}

// CostBreakdown splits total into the room type's named components. Shares
// are truncated, so their sum may fall short of total.
func CostBreakdown(total int, roomType string) map[string]types.CostComponent {
	shares := defaultBreakdown
	room := strings.ToLower(roomType)
	for _, rule := range breakdownTable {
		if containsAny(room, rule.keywords) {
			shares = rule.shares
			break
		}
	}
	out := make(map[string]types.CostComponent, len(shares))
	for _, s := range shares {
		out[s.key] = types.CostComponent{Item: s.item, Price: int(float64(total) * s.pct)}
	}
	return out
}

// BudgetNote places cost relative to [budgetMin, budgetMax].
func BudgetNote(cost, budgetMin, budgetMax int) string {
	switch {
	case cost < budgetMin:
		return "under_budget_by_" + strconv.Itoa(budgetMin-cost)
	case cost > budgetMax:
		return "over_budget_by_" + strconv.Itoa(cost-budgetMax)
	case budgetMax == budgetMin:
		return "within_budget"
	}
	pos := float64(cost-budgetMin) / float64(budgetMax-budgetMin)
	switch {
	case pos < lowerThird:
		return "lower_end_of_budget"
	case pos > upperThird:
		return "upper_end_of_budget"
	default:
		return "mid_range_budget"
	}
}

// titleWords upper-cases the first letter of each letter run and
// lower-cases the rest.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && prevLetter:
			r = unicode.ToLower(r)
		case isLetter:
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}
