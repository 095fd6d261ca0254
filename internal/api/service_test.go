package api_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cadence/internal/api"
	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/release"
	"cadence/internal/services"
	"cadence/internal/testsupport"
)

var pacific = time.FixedZone("UTC-8", -8*60*60)

func newFileService(t *testing.T, now time.Time) *api.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	queueStore := testsupport.MustOpenQueue(t, cfg)
	return api.NewService(api.Deps{
		Items:    content.NewFileStore(cfg.Paths.ContentDir, logging.NewNop()),
		Queue:    queueStore,
		Location: pacific,
		Now:      func() time.Time { return now },
	})
}

func TestCalendarItemAndGroupOnSameLocalDay(t *testing.T) {
	svc := newFileService(t, time.Date(2025, 2, 20, 12, 0, 0, 0, pacific))
	ctx := context.Background()

	a, err := svc.CreateItem(ctx, "Show", "A", "Episode A")
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "g", release.GroupSpec{
		Name:       "G",
		TargetDate: "2025-03-01T09:00:00-08:00",
		Items:      []queue.GroupItem{{Path: a.ID}},
	}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := svc.Schedule(ctx, a.ID, content.Scheduling{TargetDate: "2025-03-01", ReleaseGroupID: "g"}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	view, err := svc.Calendar(ctx, api.CalendarRequest{Filter: "all"})
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if view.Count != 2 || len(view.Days) != 1 || view.Days[0].Day != "2025-03-01" {
		t.Fatalf("expected two events on 2025-03-01, got %#v", view)
	}
	events := view.Days[0].Events
	if events[0].Type != "episode" || events[0].Status != "scheduled" || events[0].Ref != "show/a" {
		t.Fatalf("unexpected episode event %#v", events[0])
	}
	if events[1].Type != "release_group" || events[1].Status != "scheduled" || events[1].Ref != "g" {
		t.Fatalf("unexpected group event %#v", events[1])
	}
	if events[0].Title != "Episode A" {
		t.Fatalf("expected title passthrough, got %q", events[0].Title)
	}
}

func TestReleaseGroupThroughService(t *testing.T) {
	svc := newFileService(t, time.Date(2025, 3, 1, 10, 0, 0, 0, pacific))
	ctx := context.Background()

	for _, slug := range []string{"one", "two"} {
		if _, err := svc.CreateItem(ctx, "show", slug, ""); err != nil {
			t.Fatalf("CreateItem(%s) failed: %v", slug, err)
		}
	}
	if _, err := svc.CreateGroup(ctx, "launch", release.GroupSpec{Name: "Launch"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, path := range []string{"show/one", "show/two", "show/ghost"} {
		if _, err := svc.AddGroupItem(ctx, "launch", path, "audio"); err != nil {
			t.Fatalf("AddGroupItem(%s) failed: %v", path, err)
		}
	}

	report, err := svc.ReleaseGroup(ctx, "launch")
	if !api.IsPartialFailure(err) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if !reflect.DeepEqual(report.Succeeded, []string{"show/one", "show/two"}) {
		t.Fatalf("unexpected succeeded %v", report.Succeeded)
	}
	if len(report.Failed) != 1 || report.Failed[0].Path != "show/ghost" || report.Failed[0].Kind != "not_found" {
		t.Fatalf("unexpected failures %#v", report.Failed)
	}

	items, err := svc.ListItems(ctx, content.StatusReleased)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 released items, got %d", len(items))
	}

	if _, err := svc.RemoveGroupItem(ctx, "launch", "show/ghost"); err != nil {
		t.Fatalf("RemoveGroupItem failed: %v", err)
	}
	history, err := svc.ArchiveGroup(ctx, "launch")
	if err != nil {
		t.Fatalf("ArchiveGroup failed: %v", err)
	}
	if len(history) != 2 || !reflect.DeepEqual(history[0].Platforms, []string{"apple_podcasts", "rss", "spotify"}) {
		t.Fatalf("unexpected history %#v", history)
	}

	if _, _, err := svc.ItemGroup(ctx, "show/one"); err != nil {
		t.Fatalf("item without group reference should resolve cleanly: %v", err)
	}

	released, err := svc.Calendar(ctx, api.CalendarRequest{Filter: "released"})
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if released.Count != 2 {
		t.Fatalf("expected 2 history events, got %d", released.Count)
	}
}

func TestItemGroupClearedByArchive(t *testing.T) {
	svc := newFileService(t, time.Now())
	ctx := context.Background()
	item, err := svc.CreateItem(ctx, "show", "one", "")
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "temp", release.GroupSpec{Name: "Temp"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := svc.Schedule(ctx, item.ID, content.Scheduling{ReleaseGroupID: "temp"}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	group, ok, err := svc.ItemGroup(ctx, item.ID)
	if err != nil || !ok || group.ID != "temp" {
		t.Fatalf("expected temp group, got %#v ok=%v err=%v", group, ok, err)
	}

	if _, err := svc.SetGroupStatus(ctx, "temp", "released"); err != nil {
		t.Fatalf("SetGroupStatus failed: %v", err)
	}
	if _, err := svc.ArchiveGroup(ctx, "temp"); err != nil {
		t.Fatalf("ArchiveGroup failed: %v", err)
	}
	if _, ok, err := svc.ItemGroup(ctx, item.ID); err != nil || ok {
		t.Fatalf("expected archive to detach the item, got ok=%v err=%v", ok, err)
	}
	if got, err := svc.GetItem(ctx, item.ID); err != nil || got.ReleaseGroupID != "" {
		t.Fatalf("expected releaseGroupId cleared, got %#v err=%v", got, err)
	}
}

func TestResolvePlatforms(t *testing.T) {
	svc := newFileService(t, time.Now())

	resp, err := svc.ResolvePlatforms("full")
	if err != nil {
		t.Fatalf("ResolvePlatforms failed: %v", err)
	}
	want := []string{"apple_podcasts", "instagram", "rss", "spotify", "tiktok", "youtube"}
	if !reflect.DeepEqual(resp.Platforms, want) {
		t.Fatalf("expected %v, got %v", want, resp.Platforms)
	}

	resp, err = svc.ResolvePlatforms("does-not-exist")
	if !errors.Is(err, services.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if len(resp.Platforms) != 0 || resp.Error == "" {
		t.Fatalf("expected empty platforms with error, got %#v", resp)
	}

	resp, err = svc.ResolvePlatforms("platforms:mastodon,youtube")
	if err != nil || !reflect.DeepEqual(resp.Platforms, []string{"mastodon", "youtube"}) {
		t.Fatalf("unexpected explicit resolution %#v, %v", resp, err)
	}
}

func TestCalendarRejectsUnknownFilter(t *testing.T) {
	svc := newFileService(t, time.Now())
	if _, err := svc.Calendar(context.Background(), api.CalendarRequest{Filter: "soon"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOpenWithSQLiteBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithSQLiteQueue(),
		testsupport.WithProfiles("profiles:\n  podcast:\n    platforms:\n      rss: {}\n"),
	)
	svc, err := api.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.CreateGroup(ctx, "launch", release.GroupSpec{Name: "Launch"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groups, err := svc.ListGroups(ctx)
	if err != nil || len(groups) != 1 || groups[0].ID != "launch" {
		t.Fatalf("unexpected groups %#v, %v", groups, err)
	}
	profiles := svc.Profiles()
	if len(profiles) != 1 || profiles[0].Key != "podcast" || !reflect.DeepEqual(profiles[0].Platforms, []string{"rss"}) {
		t.Fatalf("unexpected profiles %#v", profiles)
	}
}
