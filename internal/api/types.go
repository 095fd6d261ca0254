package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Item describes a content item in a transport-friendly format.
type Item struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	TargetDate     string   `json:"targetDate,omitempty"`
	DependsOn      []string `json:"dependsOn,omitempty"`
	ReleaseGroupID string   `json:"releaseGroupId,omitempty"`
	Profile        string   `json:"profile,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	PublishedAt    string   `json:"publishedAt,omitempty"`
}

// GroupMember is one entry of a release group.
type GroupMember struct {
	Path         string `json:"path"`
	Distribution string `json:"distribution,omitempty"`
}

// Group describes a release group.
type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       string        `json:"status"`
	TargetDate   string        `json:"targetDate,omitempty"`
	Items        []GroupMember `json:"items"`
	Dependencies []string      `json:"dependencies,omitempty"`
	ReleaseOrder []string      `json:"releaseOrder,omitempty"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
	ReleasedAt   string        `json:"releasedAt,omitempty"`
}

// FailedMember reports one member a release run could not update.
type FailedMember struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// ReleaseReport summarizes a release run.
type ReleaseReport struct {
	GroupID       string         `json:"groupId"`
	CorrelationID string         `json:"correlationId"`
	Succeeded     []string       `json:"succeeded"`
	Skipped       []string       `json:"skipped"`
	Failed        []FailedMember `json:"failed"`
}

// HistoryEntry is one archived release.
type HistoryEntry struct {
	ID         string   `json:"id"`
	Path       string   `json:"path"`
	GroupID    string   `json:"groupId,omitempty"`
	ReleasedAt string   `json:"releasedAt"`
	Platforms  []string `json:"platforms,omitempty"`
}

// PlatformsResponse is the result of resolving a distribution directive.
type PlatformsResponse struct {
	Directive string   `json:"directive"`
	Platforms []string `json:"platforms"`
	Error     string   `json:"error,omitempty"`
}

// Profile summarizes a distribution profile.
type Profile struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Platforms   []string `json:"platforms"`
}

// CalendarEvent is one calendar entry.
type CalendarEvent struct {
	Type      string   `json:"type"`
	Status    string   `json:"status"`
	Ref       string   `json:"ref"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	GroupID   string   `json:"groupId,omitempty"`
	Detail    string   `json:"detail,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// CalendarDay groups events on one local day.
type CalendarDay struct {
	Day    string          `json:"day"`
	Events []CalendarEvent `json:"events"`
}

// CalendarResponse is the calendar view.
type CalendarResponse struct {
	Filter   string        `json:"filter"`
	Timezone string        `json:"timezone"`
	Count    int           `json:"count"`
	Days     []CalendarDay `json:"days"`
}

// ErrorResponse is the JSON shape of a failed operation.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
