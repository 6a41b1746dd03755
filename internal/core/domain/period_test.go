package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plata-app/plata-core/internal/core/domain"
)

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	stamp := time.Date(2026, time.March, 1, 23, 30, 0, 0, loc) // March 2nd 05:30 UTC
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), domain.DateOnly(stamp))
}

func TestMonthEnd(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), domain.MonthEnd(2026, time.February))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), domain.MonthEnd(2024, time.February))
	assert.Equal(t, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), domain.MonthEnd(2026, time.December))
}

func TestClosedPeriod_Contains(t *testing.T) {
	period := domain.ClosedPeriod{
		PeriodType: domain.PeriodMonthly,
		StartDate:  domain.MonthStart(2026, time.January),
		EndDate:    domain.MonthEnd(2026, time.January),
	}

	assert.True(t, period.Contains(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2026, time.January, 31, 15, 4, 5, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
