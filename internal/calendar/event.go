package calendar

import (
	"strings"
	"time"
)

// EventType names the source an event was collected from.
type EventType string

const (
	EventEpisode      EventType = "episode"
	EventReleaseGroup EventType = "release_group"
	EventStaged       EventType = "staged"
	EventBlocked      EventType = "blocked"
	EventHistory      EventType = "release_history"
)

// Label returns a short human label for the event source.
func (t EventType) Label() string {
	switch t {
	case EventEpisode:
		return "episode"
	case EventReleaseGroup:
		return "release group"
	case EventStaged:
		return "staged"
	case EventBlocked:
		return "blocked"
	case EventHistory:
		return "history"
	default:
		return string(t)
	}
}

// EventStatus is the state an event represents.
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusReleased  EventStatus = "released"
	StatusBlocked   EventStatus = "blocked"
)

// ReleaseItem is one calendar event.
type ReleaseItem struct {
	Type      EventType   `json:"type"`
	Status    EventStatus `json:"status"`
	Ref       string      `json:"ref"`
	Title     string      `json:"title"`
	Date      time.Time   `json:"date"`
	Day       string      `json:"day"`
	RawDate   string      `json:"rawDate,omitempty"`
	GroupID   string      `json:"groupId,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Platforms []string    `json:"platforms,omitempty"`
}

// FilterMode selects which events Filter keeps.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterUpcoming FilterMode = "upcoming"
	FilterReleased FilterMode = "released"
)

// ParseFilterMode converts a string into a known FilterMode.
func ParseFilterMode(value string) (FilterMode, bool) {
	mode := FilterMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case FilterAll, FilterUpcoming, FilterReleased:
		return mode, true
	case "":
		return FilterAll, true
	default:
		return "", false
	}
}
