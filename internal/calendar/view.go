package calendar

import "time"

// Day is one calendar-grid bucket.
type Day struct {
	Key    string        `json:"day"`
	Events []ReleaseItem `json:"events"`
}

// GroupByDay buckets events by local day key in order of first appearance.
// Sorted input yields ascending days.
func GroupByDay(events []ReleaseItem, loc *time.Location) []Day {
	var days []Day
	index := map[string]int{}
	for _, event := range events {
		key := DayKey(event.Date, loc)
		idx, ok := index[key]
		if !ok {
			idx = len(days)
			index[key] = idx
			days = append(days, Day{Key: key})
		}
		days[idx].Events = append(days[idx].Events, event)
	}
	return days
}

// Filter keeps the events selected by mode. "Today" is computed once from
// now and truncated to local midnight, so events dated today count as
// upcoming.
func Filter(events []ReleaseItem, mode FilterMode, now time.Time, loc *time.Location) []ReleaseItem {
	startOfToday := StartOfDay(now, loc)
	out := make([]ReleaseItem, 0, len(events))
	for _, event := range events {
		if keep(event, mode, startOfToday) {
			out = append(out, event)
		}
	}
	return out
}

func keep(event ReleaseItem, mode FilterMode, startOfToday time.Time) bool {
	switch mode {
	case FilterAll, "":
		return true
	case FilterUpcoming:
		return event.Status == StatusScheduled && !event.Date.Before(startOfToday)
	case FilterReleased:
		return event.Status == StatusReleased
	default:
		return false
	}
}

// Window keeps events whose local day falls within days days starting at the
// day containing from. A non-positive days keeps everything.
func Window(events []ReleaseItem, from time.Time, days int, loc *time.Location) []ReleaseItem {
	if days <= 0 {
		return events
	}
	start := StartOfDay(from, loc)
	end := start.AddDate(0, 0, days)
	out := make([]ReleaseItem, 0, len(events))
	for _, event := range events {
		if !event.Date.Before(start) && event.Date.Before(end) {
			out = append(out, event)
		}
	}
	return out
}

type dedupeKey struct {
	eventType EventType
	ref       string
	status    EventStatus
	instant   int64
}

// Dedupe drops events repeating an earlier (type, ref, status, instant).
func Dedupe(events []ReleaseItem) []ReleaseItem {
	seen := make(map[dedupeKey]struct{}, len(events))
	out := make([]ReleaseItem, 0, len(events))
	for _, event := range events {
		key := dedupeKey{event.Type, event.Ref, event.Status, event.Date.UnixNano()}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, event)
	}
	return out
}
