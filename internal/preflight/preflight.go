package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cadence/internal/config"
	"cadence/internal/content"
	"cadence/internal/distribution"
	"cadence/internal/queue"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Content directory", cfg.Paths.ContentDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckFileAccess("Release queue", cfg.Queue.File),
		CheckProfiles(cfg.Paths.ProfilesFile),
		CheckTimezone(cfg),
	}
	results = append(results, CheckReferences(ctx, cfg, logger))
	return results
}

// CheckProfiles verifies the distribution profile table parses. A missing
// table passes because the built-in presets apply.
func CheckProfiles(path string) Result {
	const name = "Distribution profiles"
	profiles, fromFile, err := distribution.LoadProfilesOrDefault(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !fromFile {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("built-in presets (%d profiles)", len(profiles))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d profiles)", path, len(profiles))}
}

// CheckTimezone reports the calendar timezone in effect.
func CheckTimezone(cfg *config.Config) Result {
	const name = "Calendar timezone"
	loc := cfg.Location()
	requested := strings.TrimSpace(cfg.Calendar.Timezone)
	if !strings.EqualFold(requested, "local") && !strings.EqualFold(requested, loc.String()) {
		return Result{Name: name, Detail: fmt.Sprintf("%q did not load; using %s", requested, loc)}
	}
	return Result{Name: name, Passed: true, Detail: loc.String()}
}

// CheckReferences loads every item and the queue document and reports items
// whose release group reference names a group that does not exist.
func CheckReferences(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	const name = "Group references"
	store, err := queue.Open(cfg, logger)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open queue: %v", err)}
	}
	defer store.Close()

	doc, err := store.Load(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("load queue: %v", err)}
	}
	items, err := content.NewFileStore(cfg.Paths.ContentDir, logger).List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("list items: %v", err)}
	}

	var dangling []string
	for _, item := range items {
		if id := item.ReleaseGroupID(); id != "" && doc.Group(id) == nil {
			dangling = append(dangling, fmt.Sprintf("%s -> %s", item.ID, id))
		}
	}
	if len(dangling) > 0 {
		return Result{Name: name, Detail: "missing groups: " + strings.Join(dangling, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d items, %d groups", len(items), len(doc.ReleaseGroups))}
}
