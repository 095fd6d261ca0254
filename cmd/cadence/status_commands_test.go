package main

import (
	"encoding/json"
	"errors"
	"testing"

	"cadence/internal/api"
	"cadence/internal/content"
	"cadence/internal/services"
	"cadence/internal/testsupport"
)

func TestStatusSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewItem(t, env.items, "show/ep-1", content.StatusDraft)

	out, err := env.run(t, "status", "set", "show/ep-1", "ready")
	if err != nil {
		t.Fatalf("status set: %v", err)
	}
	requireContains(t, out, "show/ep-1 is now ready")

	if got := testsupport.MustGetItem(t, env.items, "show/ep-1").Status; got != content.StatusReady {
		t.Fatalf("stored status = %q, want ready", got)
	}

	out, err = env.run(t, "status", "show", "show/ep-1")
	if err != nil {
		t.Fatalf("status show: %v", err)
	}
	requireContains(t, out, "ready")
}

func TestStatusSetRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewItem(t, env.items, "show/ep-1", content.StatusStaged)

	_, err := env.run(t, "status", "set", "show/ep-1", "archived")
	if !errors.Is(err, services.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if got := testsupport.MustGetItem(t, env.items, "show/ep-1").Status; got != content.StatusStaged {
		t.Fatalf("status changed to %q after rejected update", got)
	}
}

func TestStatusSetJSONReportsErrorKind(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "status", "set", "show/missing", "ready", "--json")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", out, err)
	}
	if resp.Kind != "not_found" {
		t.Fatalf("kind = %q, want not_found", resp.Kind)
	}
}

func TestStatusShowReportsDanglingGroup(t *testing.T) {
	env := setupCLITestEnv(t)
	item := testsupport.NewItem(t, env.items, "show/ep-1", content.StatusReady)
	item.Scheduling = &content.Scheduling{ReleaseGroupID: "gone"}
	if err := env.items.Put(t.Context(), item); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, err := env.run(t, "status", "show", "show/ep-1")
	if err != nil {
		t.Fatalf("status show: %v", err)
	}
	requireContains(t, out, "gone (missing)")
}
