package calendar_test

import (
	"reflect"
	"testing"
	"time"

	"cadence/internal/calendar"
	"cadence/internal/content"
	"cadence/internal/queue"
)

func mustItem(t *testing.T, id string) *content.Item {
	t.Helper()
	series, slug, err := content.SplitID(id)
	if err != nil {
		t.Fatalf("SplitID(%q): %v", id, err)
	}
	item, err := content.NewItem(series, slug, "")
	if err != nil {
		t.Fatalf("NewItem(%q): %v", id, err)
	}
	return item
}

func TestCollectSameDayItemAndGroup(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	a := mustItem(t, "show/a")
	a.Scheduling = &content.Scheduling{TargetDate: "2025-03-01", ReleaseGroupID: "g"}

	doc := queue.NewDocument()
	doc.ReleaseGroups["g"] = &queue.ReleaseGroup{
		Name:       "G",
		Status:     queue.GroupDraft,
		TargetDate: "2025-03-01T09:00:00-08:00",
		Items:      []queue.GroupItem{{Path: "show/a"}},
	}

	events := calendar.Collect([]*content.Item{a}, doc, loc)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %#v", len(events), events)
	}
	if events[0].Type != calendar.EventEpisode || events[0].Status != calendar.StatusScheduled || events[0].Ref != "show/a" {
		t.Fatalf("unexpected first event %#v", events[0])
	}
	if events[1].Type != calendar.EventReleaseGroup || events[1].Status != calendar.StatusScheduled || events[1].Ref != "g" {
		t.Fatalf("unexpected second event %#v", events[1])
	}
	days := calendar.GroupByDay(events, loc)
	if len(days) != 1 || days[0].Key != "2025-03-01" || len(days[0].Events) != 2 {
		t.Fatalf("expected both events on 2025-03-01, got %#v", days)
	}
}

func TestCollectTieOrderFollowsSourceCategory(t *testing.T) {
	loc := time.UTC
	instant := "2025-05-05T12:00:00Z"
	at, _ := time.Parse(time.RFC3339, instant)

	item := mustItem(t, "show/ep")
	item.Scheduling = &content.Scheduling{TargetDate: instant}

	doc := queue.NewDocument()
	doc.Released = []queue.ReleasedEntry{{ID: "h", Path: "show/old", ReleasedAt: at}}
	doc.Blocked = []queue.BlockedEntry{{Path: "show/blocked", BlockedBy: "legal", BlockedSince: instant}}
	doc.Staged = []queue.StagedEntry{{Path: "show/staged", TargetDate: instant}}
	doc.ReleaseGroups["g"] = &queue.ReleaseGroup{Name: "G", Status: queue.GroupReleased, TargetDate: instant}

	events := calendar.Collect([]*content.Item{item}, doc, loc)
	var got []calendar.EventType
	for _, event := range events {
		got = append(got, event.Type)
	}
	want := []calendar.EventType{
		calendar.EventEpisode,
		calendar.EventReleaseGroup,
		calendar.EventStaged,
		calendar.EventBlocked,
		calendar.EventHistory,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if events[1].Status != calendar.StatusReleased {
		t.Fatalf("released group should produce released event, got %s", events[1].Status)
	}
}

func TestCollectSortsAndDropsUnparseable(t *testing.T) {
	loc := time.UTC
	late := mustItem(t, "show/late")
	late.Scheduling = &content.Scheduling{TargetDate: "2025-06-01"}
	early := mustItem(t, "show/early")
	early.Scheduling = &content.Scheduling{TargetDate: "2025-01-01"}
	broken := mustItem(t, "show/broken")
	broken.Scheduling = &content.Scheduling{TargetDate: "next tuesday"}
	published := mustItem(t, "show/published")
	published.Scheduling = &content.Scheduling{TargetDate: "2025-02-01"}
	publishedAt := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	published.PublishedAt = &publishedAt

	events := calendar.Collect([]*content.Item{late, early, broken, published}, nil, loc)
	var refs []string
	for _, event := range events {
		refs = append(refs, event.Ref+":"+string(event.Status))
	}
	want := []string{"show/early:scheduled", "show/published:scheduled", "show/published:released", "show/late:scheduled"}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("expected %v, got %v", want, refs)
	}
}

func TestCollectSkipsUndatedEntries(t *testing.T) {
	doc := queue.NewDocument()
	doc.ReleaseGroups["g"] = &queue.ReleaseGroup{Name: "G"}
	doc.Staged = []queue.StagedEntry{{Path: "show/a"}}
	doc.Blocked = []queue.BlockedEntry{{Path: "show/b", BlockedBy: "x"}}
	if events := calendar.Collect([]*content.Item{mustItem(t, "show/c")}, doc, time.UTC); len(events) != 0 {
		t.Fatalf("expected no events, got %#v", events)
	}
}
