package model

import "time"

// Segment classifies a customer by purchase history. It is recomputed on
// demand from order records and never stored.
type Segment string

const (
	SegmentNew    Segment = "new"
	SegmentRepeat Segment = "repeat"
	SegmentHigh   Segment = "high"
)

// ClassifySegment derives a segment from order count and lifetime spend.
// High value takes precedence over repeat.
func ClassifySegment(orderCount int, totalSpend, highValueSpend float64) Segment {
	switch {
	case totalSpend >= highValueSpend:
		return SegmentHigh
	case orderCount >= 2:
		return SegmentRepeat
	default:
		return SegmentNew
	}
}

// CustomerSummary is the derived customer view shown in the admin dashboard.
type CustomerSummary struct {
	UserID     int64
	Login      string
	Orders     int
	TotalSpend float64
	Segment    Segment
	FirstOrder time.Time
	LastOrder  time.Time
}
