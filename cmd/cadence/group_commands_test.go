package main

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"cadence/internal/api"
	"cadence/internal/content"
	"cadence/internal/services"
	"cadence/internal/testsupport"
)

func TestGroupReleaseIsIdempotent(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewItem(t, env.items, "show/ep-1", content.StatusStaged)
	testsupport.NewItem(t, env.items, "show/ep-2", content.StatusReady)

	if _, err := env.run(t, "group", "create", "launch",
		"--name", "Launch week",
		"--date", "2025-03-10",
		"--item", "show/ep-1",
		"--item", "show/ep-2=platforms:youtube,rss",
	); err != nil {
		t.Fatalf("group create: %v", err)
	}

	out, err := env.run(t, "group", "release", "launch")
	if err != nil {
		t.Fatalf("group release: %v", err)
	}
	requireContains(t, out, "2 released, 0 skipped, 0 failed")

	for _, id := range []string{"show/ep-1", "show/ep-2"} {
		if got := testsupport.MustGetItem(t, env.items, id).Status; got != content.StatusReleased {
			t.Fatalf("%s status = %q, want released", id, got)
		}
	}

	out, err = env.run(t, "group", "release", "launch", "--json")
	if err != nil {
		t.Fatalf("second group release: %v", err)
	}
	var report api.ReleaseReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Succeeded) != 0 || len(report.Skipped) != 2 || len(report.Failed) != 0 {
		t.Fatalf("unexpected rerun report: %+v", report)
	}
	if report.CorrelationID == "" {
		t.Fatal("expected a correlation id on the report")
	}

	out, err = env.run(t, "group", "show", "launch", "--json")
	if err != nil {
		t.Fatalf("group show: %v", err)
	}
	var group api.Group
	if err := json.Unmarshal([]byte(out), &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if group.Status != "released" || group.ReleasedAt == "" {
		t.Fatalf("group not marked released: %+v", group)
	}
}

func TestGroupReleasePartialFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewItem(t, env.items, "show/ep-1", content.StatusReady)

	if _, err := env.run(t, "group", "create", "launch", "--name", "Launch",
		"--item", "show/ep-1", "--item", "show/ghost"); err != nil {
		t.Fatalf("group create: %v", err)
	}

	out, err := env.run(t, "group", "release", "launch", "--json")
	if !errors.Is(err, services.ErrPartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	var report api.ReleaseReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !reflect.DeepEqual(report.Succeeded, []string{"show/ep-1"}) {
		t.Fatalf("succeeded = %v", report.Succeeded)
	}
	if len(report.Failed) != 1 || report.Failed[0].Path != "show/ghost" || report.Failed[0].Kind != "not_found" {
		t.Fatalf("failed = %+v", report.Failed)
	}

	// The missing member is recreated and the rerun only touches it.
	testsupport.NewItem(t, env.items, "show/ghost", content.StatusDraft)
	out, err = env.run(t, "group", "release", "launch")
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	requireContains(t, out, "1 released, 1 skipped, 0 failed")
}

func TestGroupMembershipAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := env.run(t, "group", "create", "launch"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if _, err := env.run(t, "group", "create", "launch", "--name", "Launch"); err != nil {
		t.Fatalf("group create: %v", err)
	}
	if _, err := env.run(t, "group", "create", "launch", "--name", "Again"); !errors.Is(err, services.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if _, err := env.run(t, "group", "add", "launch", "show/ep-1", "--distribution", "audio"); err != nil {
		t.Fatalf("group add: %v", err)
	}
	if _, err := env.run(t, "group", "add", "launch", "show/ep-1", "--distribution", "video"); err != nil {
		t.Fatalf("group add again: %v", err)
	}
	if _, err := env.run(t, "group", "update", "launch", "--name", "Launch week", "--date", "2025-04-01"); err != nil {
		t.Fatalf("group update: %v", err)
	}
	if _, err := env.run(t, "group", "update", "launch"); err == nil {
		t.Fatal("expected update without flags to fail")
	}
	if _, err := env.run(t, "group", "status", "launch", "staged"); err != nil {
		t.Fatalf("group status: %v", err)
	}
	if _, err := env.run(t, "group", "status", "launch", "shipped"); !errors.Is(err, services.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}

	out, err := env.run(t, "group", "list", "--json")
	if err != nil {
		t.Fatalf("group list: %v", err)
	}
	var groups []api.Group
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	got := groups[0]
	if got.Name != "Launch week" || got.Status != "staged" || got.TargetDate != "2025-04-01" {
		t.Fatalf("unexpected group: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Distribution != "video" {
		t.Fatalf("expected one member with replaced directive, got %+v", got.Items)
	}

	if _, err := env.run(t, "group", "remove", "launch", "show/ep-9"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found removing unknown member, got %v", err)
	}
	if _, err := env.run(t, "group", "remove", "launch", "show/ep-1"); err != nil {
		t.Fatalf("group remove: %v", err)
	}
}

func TestGroupArchiveRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewItem(t, env.items, "show/ep-1", content.StatusReady)

	if _, err := env.run(t, "group", "create", "launch", "--name", "Launch", "--item", "show/ep-1=audio"); err != nil {
		t.Fatalf("group create: %v", err)
	}
	if _, err := env.run(t, "group", "archive", "launch"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected archive of unreleased group to fail, got %v", err)
	}
	if _, err := env.run(t, "group", "release", "launch"); err != nil {
		t.Fatalf("group release: %v", err)
	}

	out, err := env.run(t, "group", "archive", "launch", "--json")
	if err != nil {
		t.Fatalf("group archive: %v", err)
	}
	var entries []api.HistoryEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "show/ep-1" || entries[0].GroupID != "launch" {
		t.Fatalf("unexpected history: %+v", entries)
	}
	want := []string{"apple_podcasts", "rss", "spotify"}
	if !reflect.DeepEqual(entries[0].Platforms, want) {
		t.Fatalf("platforms = %v, want %v", entries[0].Platforms, want)
	}

	if _, err := env.run(t, "group", "show", "launch"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected archived group to be gone, got %v", err)
	}
	out, err = env.run(t, "queue", "show")
	if err != nil {
		t.Fatalf("queue show: %v", err)
	}
	requireContains(t, out, "apple_podcasts")
}

func TestGroupOrderFlagDescribesPlatforms(t *testing.T) {
	root := newRootCommand()
	for _, sub := range []string{"create", "update"} {
		cmd, _, err := root.Find([]string{"group", sub})
		if err != nil {
			t.Fatalf("find group %s: %v", sub, err)
		}
		flag := cmd.Flags().Lookup("order")
		if flag == nil {
			t.Fatalf("group %s has no --order flag", sub)
		}
		if flag.Usage != "Platform publish order" {
			t.Fatalf("group %s --order usage = %q", sub, flag.Usage)
		}
	}
}
