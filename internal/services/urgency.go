package services

import (
	"math"
	"time"
)

// Urgency is a petition's proximity to its signature goal.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

// ClassifyUrgency maps signature progress to a tier: at least 80% of target
// is Critical, 60% High, 40% Medium, anything less Low. A non-positive target
// is Low. Integer arithmetic keeps the boundaries exact.
func ClassifyUrgency(current, target int) Urgency {
	if target <= 0 {
		return UrgencyLow
	}
	pct := int64(current) * 100
	t := int64(target)
	switch {
	case pct >= 80*t:
		return UrgencyCritical
	case pct >= 60*t:
		return UrgencyHigh
	case pct >= 40*t:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// DaysLeft is the whole days remaining until deadline, rounded up. It is
// independent of urgency. A nil deadline gives nil; past deadlines give 0.
func DaysLeft(deadline *time.Time, now time.Time) *int {
	if deadline == nil {
		return nil
	}
	remaining := deadline.Sub(now)
	days := 0
	if remaining > 0 {
		days = int(math.Ceil(remaining.Hours() / 24))
	}
	return &days
}
