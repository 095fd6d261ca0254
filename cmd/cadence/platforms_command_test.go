package main

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cadence/internal/api"
	"cadence/internal/content"
	"cadence/internal/services"
	"cadence/internal/testsupport"
)

func TestPlatformsResolvesProfiles(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "platforms", "full")
	if err != nil {
		t.Fatalf("platforms full: %v", err)
	}
	got := strings.Fields(out)
	want := []string{"apple_podcasts", "instagram", "rss", "spotify", "tiktok", "youtube"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("platforms = %v, want %v", got, want)
	}

	out, err = env.run(t, "platforms", "platforms:youtube, rss,youtube")
	if err != nil {
		t.Fatalf("explicit platforms: %v", err)
	}
	if got := strings.Fields(out); !reflect.DeepEqual(got, []string{"youtube", "rss"}) {
		t.Fatalf("explicit platforms = %v", got)
	}
}

func TestPlatformsUnknownProfile(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "platforms", "nonexistent", "--json")
	if !errors.Is(err, services.ErrUnknownProfile) {
		t.Fatalf("expected unknown profile, got %v", err)
	}
	var resp api.PlatformsResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Platforms == nil || len(resp.Platforms) != 0 {
		t.Fatalf("expected empty platform list, got %#v", resp.Platforms)
	}
}

func TestPlatformsUsesProfileTable(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithProfiles(`profiles:
  newsletter:
    description: Email only
    platforms:
      substack: {}
      buttondown: {}
`))

	out, err := env.run(t, "platforms")
	if err != nil {
		t.Fatalf("platforms: %v", err)
	}
	requireContains(t, out, "newsletter")
	requireContains(t, out, "buttondown, substack")

	item := testsupport.NewItem(t, env.items, "show/ep-1", content.StatusReady)
	item.Distribution = &content.Distribution{Profile: "newsletter"}
	if err := env.items.Put(t.Context(), item); err != nil {
		t.Fatalf("put: %v", err)
	}
	out, err = env.run(t, "platforms", "--item", "show/ep-1")
	if err != nil {
		t.Fatalf("platforms --item: %v", err)
	}
	if got := strings.Fields(out); !reflect.DeepEqual(got, []string{"buttondown", "substack"}) {
		t.Fatalf("item platforms = %v", got)
	}
}
