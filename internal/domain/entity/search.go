package entity

import (
	"math"
	"time"
)

// DateRange selects items registered within a period before now.
type DateRange string

const (
	DateRangeAll      DateRange = "all"
	DateRangeDay      DateRange = "1d"
	DateRangeWeek     DateRange = "1w"
	DateRangeMonth    DateRange = "1m"
	DateRangeHalfYear DateRange = "6m"
)

// Since returns the lower bound of the range relative to now, or false for "all" and unknown values.
func (d DateRange) Since(now time.Time) (time.Time, bool) {
	switch d {
	case DateRangeDay:
		return now.AddDate(0, 0, -1), true
	case DateRangeWeek:
		return now.AddDate(0, 0, -7), true
	case DateRangeMonth:
		return now.AddDate(0, -1, 0), true
	case DateRangeHalfYear:
		return now.AddDate(0, -6, 0), true
	default:
		return time.Time{}, false
	}
}

// SearchBy names the item column an admin search query matches against.
type SearchBy string

const (
	SearchByName      SearchBy = "name"
	SearchByCreatedBy SearchBy = "createdBy"
)

// ItemSearch is the admin catalog filter. Zero values disable a condition.
type ItemSearch struct {
	DateRange  DateRange
	SellStatus SellStatus
	SearchBy   SearchBy
	Query      string
	MinPrice   *int64
	MaxPrice   *int64
}

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// MaxOffset bounds Offset so huge page numbers cannot overflow.
const MaxOffset = math.MaxInt32

// Offset is the number of rows skipped before the page, at most MaxOffset.
func (p Page) Offset() int {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Number > MaxOffset/p.Size {
		return MaxOffset
	}

	return p.Number * p.Size
}

// PageResult is one page of results with the total number of matches.
type PageResult[T any] struct {
	Items  []T
	Total  int64
	Number int
	Size   int
}

// TotalPages is the number of pages needed for Total matches.
func (r PageResult[T]) TotalPages() int {
	if r.Size <= 0 {
		return 0
	}

	return int((r.Total + int64(r.Size) - 1) / int64(r.Size))
}
