package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBoundaryBeforeOffset(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 2, 0, 0, time.UTC)
	next := NextBoundary(now)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC), next)
}

func TestNextBoundaryDuringDay(t *testing.T) {
	now := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	next := NextBoundary(now)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 5, 0, 0, time.UTC), next)
}

func TestNextBoundaryMonthRollover(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)
	next := NextBoundary(now)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 5, 0, 0, time.UTC), next)
}
