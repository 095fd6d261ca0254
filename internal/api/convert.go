package api

import (
	"time"

	"cadence/internal/calendar"
	"cadence/internal/content"
	"cadence/internal/queue"
	"cadence/internal/release"
	"cadence/internal/services"
)

// FromItem converts a content item into its DTO.
func FromItem(item *content.Item) Item {
	if item == nil {
		return Item{}
	}
	dto := Item{
		ID:     item.ID,
		Title:  item.Title(),
		Status: string(item.Status),
	}
	if s := item.Scheduling; s != nil {
		dto.TargetDate = s.TargetDate
		dto.DependsOn = append([]string(nil), s.DependsOn...)
		dto.ReleaseGroupID = s.ReleaseGroupID
	}
	if d := item.Distribution; d != nil {
		dto.Profile = d.Profile
		dto.Platforms = append([]string(nil), d.Platforms...)
	}
	if item.PublishedAt != nil {
		dto.PublishedAt = formatTime(*item.PublishedAt)
	}
	return dto
}

// FromItems converts a slice of items.
func FromItems(items []*content.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromGroup converts a release group into its DTO.
func FromGroup(id string, group *queue.ReleaseGroup) Group {
	if group == nil {
		return Group{ID: id}
	}
	dto := Group{
		ID:           id,
		Name:         group.Name,
		Description:  group.Description,
		Status:       string(group.Status),
		TargetDate:   group.TargetDate,
		Items:        make([]GroupMember, 0, len(group.Items)),
		Dependencies: append([]string(nil), group.Dependencies...),
		ReleaseOrder: append([]string(nil), group.ReleaseOrder...),
		CreatedAt:    formatTime(group.CreatedAt),
		UpdatedAt:    formatTime(group.UpdatedAt),
	}
	for _, member := range group.Items {
		dto.Items = append(dto.Items, GroupMember{Path: member.Path, Distribution: member.Distribution})
	}
	if group.ReleasedAt != nil {
		dto.ReleasedAt = formatTime(*group.ReleasedAt)
	}
	return dto
}

// FromReleaseResult converts a release run result.
func FromReleaseResult(result *release.ReleaseResult) ReleaseReport {
	if result == nil {
		return ReleaseReport{}
	}
	report := ReleaseReport{
		GroupID:       result.GroupID,
		CorrelationID: result.CorrelationID,
		Succeeded:     append([]string{}, result.Succeeded...),
		Skipped:       append([]string{}, result.Skipped...),
		Failed:        make([]FailedMember, 0, len(result.Failed)),
	}
	for _, failure := range result.Failed {
		report.Failed = append(report.Failed, FailedMember{
			Path:  failure.Path,
			Kind:  services.Kind(failure.Err),
			Error: failure.Err.Error(),
		})
	}
	return report
}

// FromReleasedEntries converts history entries.
func FromReleasedEntries(entries []queue.ReleasedEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryEntry{
			ID:         entry.ID,
			Path:       entry.Path,
			GroupID:    entry.GroupID,
			ReleasedAt: formatTime(entry.ReleasedAt),
			Platforms:  append([]string(nil), entry.Platforms...),
		})
	}
	return out
}

// FromDays converts calendar buckets, rendering event times in loc.
func FromDays(days []calendar.Day, loc *time.Location) []CalendarDay {
	out := make([]CalendarDay, 0, len(days))
	for _, day := range days {
		events := make([]CalendarEvent, 0, len(day.Events))
		for _, event := range day.Events {
			events = append(events, CalendarEvent{
				Type:      string(event.Type),
				Status:    string(event.Status),
				Ref:       event.Ref,
				Title:     event.Title,
				Date:      formatTime(event.Date.In(loc)),
				GroupID:   event.GroupID,
				Detail:    event.Detail,
				Platforms: append([]string(nil), event.Platforms...),
			})
		}
		out = append(out, CalendarDay{Day: day.Key, Events: events})
	}
	return out
}

// NewErrorResponse classifies err for JSON output.
func NewErrorResponse(err error) ErrorResponse {
	if err == nil {
		return ErrorResponse{}
	}
	return ErrorResponse{Kind: services.Kind(err), Message: err.Error()}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeFormat)
}
