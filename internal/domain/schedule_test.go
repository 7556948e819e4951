package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutoScheduleRule_Validate(t *testing.T) {
	valid := &AutoScheduleRule{DayOfWeek: 3, StartTime: "19:30", IsActive: true}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, (&AutoScheduleRule{DayOfWeek: 7, StartTime: "19:30"}).Validate(), ErrInvalidRule)
	assert.ErrorIs(t, (&AutoScheduleRule{DayOfWeek: -1, StartTime: "19:30"}).Validate(), ErrInvalidRule)
	assert.ErrorIs(t, (&AutoScheduleRule{DayOfWeek: 1, StartTime: "25:00"}).Validate(), ErrInvalidRule)
	assert.ErrorIs(t, (&AutoScheduleRule{DayOfWeek: 1, StartTime: "evening"}).Validate(), ErrInvalidRule)
}

func TestAutoScheduleRule_MatchesAt(t *testing.T) {
	// 2026-03-18 is a Wednesday
	wednesday := time.Date(2026, 3, 18, 19, 30, 0, 0, time.UTC)
	rule := &AutoScheduleRule{DayOfWeek: 3, StartTime: "19:30", IsActive: true}
	tolerance := time.Minute

	t.Run("exact start time matches", func(t *testing.T) {
		assert.True(t, rule.MatchesAt(wednesday, tolerance))
	})

	t.Run("one minute either side matches", func(t *testing.T) {
		assert.True(t, rule.MatchesAt(wednesday.Add(-time.Minute), tolerance))
		assert.True(t, rule.MatchesAt(wednesday.Add(time.Minute), tolerance))
	})

	t.Run("two minutes off misses", func(t *testing.T) {
		assert.False(t, rule.MatchesAt(wednesday.Add(-2*time.Minute), tolerance))
		assert.False(t, rule.MatchesAt(wednesday.Add(2*time.Minute), tolerance))
	})

	t.Run("seconds within the minute still match", func(t *testing.T) {
		assert.True(t, rule.MatchesAt(wednesday.Add(30*time.Second), tolerance))
	})

	t.Run("wrong weekday misses", func(t *testing.T) {
		thursday := wednesday.Add(24 * time.Hour)
		assert.False(t, rule.MatchesAt(thursday, tolerance))
	})

	t.Run("inactive rule never matches", func(t *testing.T) {
		inactive := &AutoScheduleRule{DayOfWeek: 3, StartTime: "19:30", IsActive: false}
		assert.False(t, inactive.MatchesAt(wednesday, tolerance))
	})

	t.Run("seconds in start time are ignored", func(t *testing.T) {
		withSeconds := &AutoScheduleRule{DayOfWeek: 3, StartTime: "19:30:00", IsActive: true}
		assert.True(t, withSeconds.MatchesAt(wednesday, tolerance))
	})
}
