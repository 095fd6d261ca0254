package content

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"draft", StatusDraft, true},
		{" Ready ", StatusReady, true},
		{"STAGED", StatusStaged, true},
		{"released", StatusReleased, true},
		{"published", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseStatus(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
	if len(AllStatuses()) != 4 {
		t.Fatalf("expected four statuses, got %v", AllStatuses())
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pilot Episode":        "pilot-episode",
		"  Café Société  ":     "cafe-societe",
		"S01E02 -- The Return": "s01e02-the-return",
		"!!!":                  "",
		"already-slugged":      "already-slugged",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIDHelpers(t *testing.T) {
	id, err := NewID("Night Shift", "Episode 1")
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if id != "night-shift/episode-1" {
		t.Fatalf("unexpected id %q", id)
	}
	series, slug, err := SplitID(id)
	if err != nil || series != "night-shift" || slug != "episode-1" {
		t.Fatalf("SplitID(%q) = %q,%q,%v", id, series, slug, err)
	}
	for _, bad := range []string{"", "noslash", "a/b/c", "Night Shift/ep", "/ep"} {
		if _, _, err := SplitID(bad); err == nil {
			t.Fatalf("expected SplitID(%q) to fail", bad)
		}
	}
	if got, err := NormalizeID("Night Shift/Episode 1"); err != nil || got != id {
		t.Fatalf("NormalizeID = %q,%v", got, err)
	}
	if _, err := NewID("!!", "ep"); err == nil {
		t.Fatal("expected error for empty series slug")
	}
}

func TestDistributionValidate(t *testing.T) {
	var nilDist *Distribution
	if err := nilDist.Validate(); err != nil {
		t.Fatalf("nil distribution should be valid: %v", err)
	}
	if err := (&Distribution{Profile: "full"}).Validate(); err != nil {
		t.Fatalf("profile only should be valid: %v", err)
	}
	if err := (&Distribution{Platforms: []string{"youtube"}}).Validate(); err != nil {
		t.Fatalf("platforms only should be valid: %v", err)
	}
	if err := (&Distribution{Profile: "full", Platforms: []string{"youtube"}}).Validate(); err == nil {
		t.Fatal("expected mixed distribution to fail")
	}
}

func TestItemCloneIsDeep(t *testing.T) {
	published := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	item := &Item{
		ID:           "show/ep",
		Status:       StatusReady,
		Scheduling:   &Scheduling{TargetDate: "2025-01-15", DependsOn: []string{"art"}},
		Distribution: &Distribution{Platforms: []string{"youtube"}},
		PublishedAt:  &published,
		Extra:        map[string]any{"title": "Ep"},
	}
	cp := item.Clone()
	cp.Scheduling.DependsOn[0] = "changed"
	cp.Distribution.Platforms[0] = "changed"
	cp.Extra["title"] = "changed"
	*cp.PublishedAt = time.Time{}

	if item.Scheduling.DependsOn[0] != "art" || item.Distribution.Platforms[0] != "youtube" {
		t.Fatal("clone shares slices with original")
	}
	if item.Extra["title"] != "Ep" || item.PublishedAt.IsZero() {
		t.Fatal("clone shares extra map or timestamp with original")
	}
}

func TestNewItemStartsDraft(t *testing.T) {
	item, err := NewItem("Show", "Pilot", "The Pilot")
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if item.Status != StatusDraft {
		t.Fatalf("expected draft, got %s", item.Status)
	}
	if item.Title() != "The Pilot" {
		t.Fatalf("unexpected title %q", item.Title())
	}
	if item.TargetDate() != "" || item.ReleaseGroupID() != "" {
		t.Fatal("expected no scheduling on a new item")
	}
}
