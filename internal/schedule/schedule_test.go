package schedule

import (
	"testing"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFillsDefaults(t *testing.T) {
	week := Merge("t1", nil)
	require.Len(t, week, 7)
	for i, s := range week {
		assert.Equal(t, Weekdays[i], s.Weekday)
		assert.Equal(t, DefaultStart, s.StartTime)
		assert.Equal(t, DefaultEnd, s.EndTime)
		assert.True(t, s.Active)
		assert.Equal(t, "t1", s.TenantID)
		assert.Empty(t, s.ID)
	}
}

func TestMergeKeepsStoredSlots(t *testing.T) {
	stored := []model.ScheduleSlot{
		{ID: "sun", Weekday: "Sunday", StartTime: "10:00", EndTime: "12:00", Active: false},
		{ID: "mon-1", Weekday: "Monday", StartTime: "08:00", EndTime: "17:00", Active: true},
		{ID: "mon-2", Weekday: "Monday", StartTime: "07:00", EndTime: "11:00", Active: true},
	}

	week := Merge("t1", stored)
	require.Len(t, week, 7)
	assert.Equal(t, "mon-1", week[0].ID)
	assert.Equal(t, "sun", week[6].ID)
	assert.False(t, week[6].Active)
	assert.Equal(t, DefaultStart, week[1].StartTime)
}

func TestBuild(t *testing.T) {
	rows, err := Build("t1", []SlotInput{
		{Weekday: "Monday", StartTime: "9:00", EndTime: "18:00", Active: true},
		{Weekday: "Saturday", StartTime: "10:00", EndTime: "14:30", Active: false},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "09:00", rows[0].StartTime)
	assert.Equal(t, "t1", rows[1].TenantID)
	assert.False(t, rows[1].Active)
}

func TestBuildRejects(t *testing.T) {
	cases := map[string][]SlotInput{
		"empty":     nil,
		"weekday":   {{Weekday: "Funday", StartTime: "09:00", EndTime: "18:00"}},
		"duplicate": {{Weekday: "Monday", StartTime: "09:00", EndTime: "18:00"}, {Weekday: "Monday", StartTime: "10:00", EndTime: "12:00"}},
		"start":     {{Weekday: "Monday", StartTime: "nine", EndTime: "18:00"}},
		"end":       {{Weekday: "Monday", StartTime: "09:00", EndTime: "25:00"}},
		"order":     {{Weekday: "Monday", StartTime: "18:00", EndTime: "09:00"}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build("t1", in)
			assert.ErrorIs(t, err, ErrInvalidSlots)
		})
	}
}
