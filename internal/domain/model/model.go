// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"

	"github.com/okian/homespark/internal/domain/catalog"
)

// ErrInvalidBudget is returned by Validate when the budget range is unusable.
var ErrInvalidBudget = errors.New("invalid budget range")

// Preferences is what a user asks for. Category fields are raw strings in
// arbitrary case and spacing; Location is informational only.
type Preferences struct {
	BudgetMin     int
	BudgetMax     int
	Style         string
	RoomType      string
	IndoorOutdoor string
	Climate       string
	Location      string
}

// Raw returns the raw input for a category dimension.
func (p Preferences) Raw(d catalog.Dimension) string {
	switch d {
	case catalog.Style:
		return p.Style
	case catalog.RoomType:
		return p.RoomType
	case catalog.IndoorOutdoor:
		return p.IndoorOutdoor
	case catalog.Climate:
		return p.Climate
	default:
		return ""
	}
}

// Validate checks 0 <= BudgetMin <= BudgetMax.
func (p Preferences) Validate() error {
	if p.BudgetMin < 0 || p.BudgetMax < 0 {
		return fmt.Errorf("budget must be non-negative (min=%d max=%d): %w", p.BudgetMin, p.BudgetMax, ErrInvalidBudget)
	}
	if p.BudgetMin > p.BudgetMax {
		return fmt.Errorf("budget_min %d exceeds budget_max %d: %w", p.BudgetMin, p.BudgetMax, ErrInvalidBudget)
	}
	return nil
}

// Mid returns the budget midpoint.
func (p Preferences) Mid() float64 { return float64(p.BudgetMin+p.BudgetMax) / 2 }

// Span returns budget_max - budget_min.
func (p Preferences) Span() float64 { return float64(p.BudgetMax - p.BudgetMin) }

// ScoredItem pairs a catalog item with its request-scoped score.
type ScoredItem struct {
	Item  catalog.Item
	Score float64
}
