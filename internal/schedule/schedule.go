// Package schedule handles the weekly opening hours of a tenant.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/model"
)

// ErrInvalidSlots is returned when a submitted week cannot be stored
var ErrInvalidSlots = errors.New("invalid schedule")

// Weekdays in display order
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Opening hours synthesised for weekdays without a stored slot
const (
	DefaultStart = "09:00"
	DefaultEnd   = "18:00"
)

const clockLayout = "15:04"

// SlotInput is one submitted weekday
type SlotInput struct {
	Weekday   string `json:"weekday" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Active    bool   `json:"active"`
}

// Merge returns exactly one slot per weekday in display order. Stored slots win;
// when duplicates exist for a weekday the first one is used. Missing days get
// the default hours, active, with an empty id.
func Merge(tenantID string, stored []model.ScheduleSlot) []model.ScheduleSlot {
	byDay := make(map[string]model.ScheduleSlot, len(stored))
	for _, s := range stored {
		if _, seen := byDay[s.Weekday]; !seen {
			byDay[s.Weekday] = s
		}
	}

	week := make([]model.ScheduleSlot, 0, len(Weekdays))
	for _, day := range Weekdays {
		if s, ok := byDay[day]; ok {
			week = append(week, s)
			continue
		}
		week = append(week, model.ScheduleSlot{
			TenantID:  tenantID,
			Weekday:   day,
			StartTime: DefaultStart,
			EndTime:   DefaultEnd,
			Active:    true,
		})
	}
	return week
}

// Build validates a submitted week and converts it to rows for the tenant.
// Each weekday may appear once; times are HH:MM with start before end.
func Build(tenantID string, in []SlotInput) ([]model.ScheduleSlot, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no slots", ErrInvalidSlots)
	}

	known := make(map[string]bool, len(Weekdays))
	for _, d := range Weekdays {
		known[d] = true
	}

	seen := make(map[string]bool, len(in))
	rows := make([]model.ScheduleSlot, 0, len(in))
	for _, s := range in {
		if !known[s.Weekday] {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSlots, s.Weekday)
		}
		if seen[s.Weekday] {
			return nil, fmt.Errorf("%w: %s appears more than once", ErrInvalidSlots, s.Weekday)
		}
		seen[s.Weekday] = true

		start, err := time.Parse(clockLayout, s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s start %q is not HH:MM", ErrInvalidSlots, s.Weekday, s.StartTime)
		}
		end, err := time.Parse(clockLayout, s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s end %q is not HH:MM", ErrInvalidSlots, s.Weekday, s.EndTime)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: %s starts after it ends", ErrInvalidSlots, s.Weekday)
		}

		rows = append(rows, model.ScheduleSlot{
			TenantID:  tenantID,
			Weekday:   s.Weekday,
			StartTime: start.Format(clockLayout),
			EndTime:   end.Format(clockLayout),
			Active:    s.Active,
		})
	}
	return rows, nil
}
