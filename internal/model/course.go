package model

import (
	"strconv"
	"time"
)

// Course carries the per-course scheduling policy. Raw settings arrive as a
// key/value map (admin-edited); PolicyFromSettings maps the known keys onto
// the typed policy and ignores everything else.
type Course struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Policy    CoursePolicy `json:"policy"`
	CreatedAt time.Time    `json:"created_at"`
}

// CoursePolicy is the enumerated scheduling configuration of one course.
type CoursePolicy struct {
	PostingWaitDays int `json:"posting_wait_days"` // 0 disables the wait restriction
	MaxDisplayLanes int `json:"max_display_lanes"` // reporting ceiling for the week grid
	FirstHour       int `json:"first_hour"`        // first hour shown on the grid
	LastHour        int `json:"last_hour"`         // last hour shown on the grid
}

// Recognized settings keys. Anything else in the map is ignored.
const (
	settingPostingWaitDays = "posting_wait_days"
	settingMaxDisplayLanes = "max_display_lanes"
	settingFirstHour       = "first_hour"
	settingLastHour        = "last_hour"
)

// DefaultPolicy is applied before any settings are read.
var DefaultPolicy = CoursePolicy{
	PostingWaitDays: 0,
	MaxDisplayLanes: 4,
	FirstHour:       8,
	LastHour:        20,
}

// PolicyFromSettings maps raw course settings onto a CoursePolicy. Values
// arrive as decoded JSON, so numbers and strings are both accepted; unknown
// keys and unparsable values fall back to the default for that field.
func PolicyFromSettings(settings map[string]any) CoursePolicy {
	policy := DefaultPolicy

	if v, ok := parseSetting(settings, settingPostingWaitDays); ok && v >= 0 {
		policy.PostingWaitDays = v
	}
	if v, ok := parseSetting(settings, settingMaxDisplayLanes); ok && v > 0 {
		policy.MaxDisplayLanes = v
	}
	if v, ok := parseSetting(settings, settingFirstHour); ok && v >= 0 && v <= 23 {
		policy.FirstHour = v
	}
	if v, ok := parseSetting(settings, settingLastHour); ok && v >= 0 && v <= 23 {
		policy.LastHour = v
	}

	if policy.LastHour <= policy.FirstHour {
		policy.FirstHour = DefaultPolicy.FirstHour
		policy.LastHour = DefaultPolicy.LastHour
	}

	return policy
}

func parseSetting(settings map[string]any, key string) (int, bool) {
	raw, ok := settings[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
