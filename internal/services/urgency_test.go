package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyUrgencyBoundaries(t *testing.T) {
	tests := []struct {
		current, target int
		want            Urgency
	}{
		{400, 500, UrgencyCritical},
		{399, 500, UrgencyHigh},
		{300, 500, UrgencyHigh},
		{299, 500, UrgencyMedium},
		{200, 500, UrgencyMedium},
		{199, 500, UrgencyLow},
		{0, 500, UrgencyLow},
		{600, 500, UrgencyCritical},
		{4, 5, UrgencyCritical},
		{3, 5, UrgencyHigh},
		{2, 5, UrgencyMedium},
		{1, 5, UrgencyLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyUrgency(tt.current, tt.target), "%d/%d", tt.current, tt.target)
	}
}

func TestClassifyUrgencyZeroTarget(t *testing.T) {
	assert.Equal(t, UrgencyLow, ClassifyUrgency(0, 0))
	assert.Equal(t, UrgencyLow, ClassifyUrgency(100, 0))
	assert.Equal(t, UrgencyLow, ClassifyUrgency(5, -1))
}

func TestClassifyUrgencyMonotonic(t *testing.T) {
	rank := map[Urgency]int{UrgencyLow: 0, UrgencyMedium: 1, UrgencyHigh: 2, UrgencyCritical: 3}
	for _, target := range []int{1, 3, 7, 100, 1000, 12345} {
		prev := rank[ClassifyUrgency(0, target)]
		for current := 1; current <= target+10; current++ {
			r := rank[ClassifyUrgency(current, target)]
			require.GreaterOrEqual(t, r, prev, "current=%d target=%d", current, target)
			prev = r
		}
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, DaysLeft(nil, now))

	past := now.Add(-time.Hour)
	require.NotNil(t, DaysLeft(&past, now))
	assert.Equal(t, 0, *DaysLeft(&past, now))

	soon := now.Add(2 * time.Hour)
	assert.Equal(t, 1, *DaysLeft(&soon, now))

	week := now.Add(7 * 24 * time.Hour)
	assert.Equal(t, 7, *DaysLeft(&week, now))
}
