package calendar

import (
	"sort"
	"time"

	"cadence/internal/content"
	"cadence/internal/queue"
)

// Collect builds the calendar from item metadata and the queue document.
// Either input may be empty.
func Collect(items []*content.Item, doc *queue.Document, loc *time.Location) []ReleaseItem {
	if loc == nil {
		loc = time.Local
	}
	c := collector{loc: loc}
	for _, item := range items {
		c.episode(item)
	}
	if doc != nil {
		for _, id := range doc.GroupIDs() {
			c.group(id, doc.Group(id))
		}
		for _, entry := range doc.Staged {
			c.add(ReleaseItem{
				Type:   EventStaged,
				Status: StatusScheduled,
				Ref:    entry.Path,
				Title:  entry.Path,
				Detail: entry.Distribution,
			}, entry.TargetDate)
		}
		for _, entry := range doc.Blocked {
			c.add(ReleaseItem{
				Type:   EventBlocked,
				Status: StatusBlocked,
				Ref:    entry.Path,
				Title:  entry.Path,
				Detail: entry.BlockedBy,
			}, entry.BlockedSince)
		}
		for _, entry := range doc.Released {
			c.addInstant(ReleaseItem{
				Type:      EventHistory,
				Status:    StatusReleased,
				Ref:       entry.Path,
				Title:     entry.Path,
				GroupID:   entry.GroupID,
				Platforms: append([]string(nil), entry.Platforms...),
			}, entry.ReleasedAt)
		}
	}
	sort.SliceStable(c.events, func(i, j int) bool {
		return c.events[i].Date.Before(c.events[j].Date)
	})
	return c.events
}

type collector struct {
	loc    *time.Location
	events []ReleaseItem
}

func (c *collector) episode(item *content.Item) {
	if item == nil {
		return
	}
	base := ReleaseItem{
		Type:    EventEpisode,
		Ref:     item.ID,
		Title:   item.Title(),
		GroupID: item.ReleaseGroupID(),
	}
	if item.Distribution != nil {
		base.Platforms = append([]string(nil), item.Distribution.Platforms...)
		base.Detail = item.Distribution.Profile
	}
	if target := item.TargetDate(); target != "" {
		scheduled := base
		scheduled.Status = StatusScheduled
		c.add(scheduled, target)
	}
	if item.PublishedAt != nil {
		released := base
		released.Status = StatusReleased
		c.addInstant(released, *item.PublishedAt)
	}
}

func (c *collector) group(id string, group *queue.ReleaseGroup) {
	if group == nil || group.TargetDate == "" {
		return
	}
	event := ReleaseItem{
		Type:    EventReleaseGroup,
		Status:  StatusScheduled,
		Ref:     id,
		Title:   group.Name,
		GroupID: id,
		Detail:  group.Description,
	}
	if group.Status == queue.GroupReleased {
		event.Status = StatusReleased
	}
	event.Platforms = append([]string(nil), group.ReleaseOrder...)
	c.add(event, group.TargetDate)
}

func (c *collector) add(event ReleaseItem, raw string) {
	t, ok := ParseDate(raw, c.loc)
	if !ok {
		return
	}
	event.RawDate = raw
	c.addInstant(event, t)
}

func (c *collector) addInstant(event ReleaseItem, t time.Time) {
	if t.IsZero() {
		return
	}
	event.Date = t
	event.Day = DayKey(t, c.loc)
	c.events = append(c.events, event)
}
