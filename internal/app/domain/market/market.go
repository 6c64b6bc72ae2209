// Package market defines the price feed model: tracked records, their
// bounded history and the update shape pushed to subscribers.
package market

import (
	"strings"
	"time"
)

// HistoryCap bounds the retained history per record. A year of daily points
// is the deepest range any consumer can ask for.
const HistoryCap = 365

// PricePoint is one observation in a record's history.
type PricePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the market state of one tracked item.
type Record struct {
	ID           string
	Name         string
	CurrentPrice float64
	History      []PricePoint
}

// Update is a single price movement delivered to subscribers. The JSON field
// names match the wire contract of the streaming adapters.
type Update struct {
	ID        string    `json:"skin_id"`
	Name      string    `json:"skin_name"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	ChangePct float64   `json:"change_percentage"`
}

// Range selects how much history a query covers.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange maps a wire value onto a Range, defaulting to week for unknown
// or empty input.
func ParseRange(raw string) Range {
	switch Range(strings.ToLower(strings.TrimSpace(raw))) {
	case RangeDay:
		return RangeDay
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	case RangeYear:
		return RangeYear
	default:
		return RangeWeek
	}
}

// Points is the number of history points the range covers.
func (r Range) Points() int {
	switch r {
	case RangeDay:
		return 1
	case RangeMonth:
		return 30
	case RangeYear:
		return 365
	default:
		return 7
	}
}
