package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHotScore(t *testing.T) {
	now := time.Now()

	assert.Zero(t, HotScore(now, now, 0, 0))

	fresh := HotScore(now.Add(-time.Hour), now, 10, 2)
	stale := HotScore(now.Add(-48*time.Hour), now, 10, 2)
	assert.Greater(t, fresh, stale, "older posts decay")

	more := HotScore(now.Add(-time.Hour), now, 20, 2)
	assert.Greater(t, more, fresh, "engagement raises the score")
}
