// Package schedule generates the fixed-step slot grid for a service day.
package schedule

import (
	"errors"
	"fmt"
)

var ErrInvalidWindow = errors.New("service window start must precede end")

// Grid produces the "HH:MM" slot starts from windowStart (inclusive) up
// to windowEnd (exclusive), stepping by stepMinutes. Chronological order.
func Grid(windowStart, windowEnd string, stepMinutes int) ([]string, error) {
	start, err := toMinutes(windowStart)
	if err != nil {
		return nil, err
	}
	end, err := toMinutes(windowEnd)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidWindow
	}
	if stepMinutes <= 0 {
		return nil, errors.New("slot step must be positive")
	}

	slots := make([]string, 0, (end-start)/stepMinutes)
	for m := start; m < end; m += stepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots, nil
}

// Remove filters taken slots out of the grid, preserving order.
func Remove(grid []string, taken map[string]struct{}) []string {
	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if _, occupied := taken[slot]; !occupied {
			free = append(free, slot)
		}
	}
	return free
}

func toMinutes(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	return h*60 + m, nil
}
