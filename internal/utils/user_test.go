package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCivicLevel(t *testing.T) {
	cases := map[int]string{
		0:    "Newcomer",
		9:    "Newcomer",
		10:   "Participant",
		50:   "Engaged Citizen",
		199:  "Engaged Citizen",
		200:  "Advocate",
		1000: "Civic Champion",
	}
	for points, want := range cases {
		assert.Equal(t, want, CivicLevel(points), "points=%d", points)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}
