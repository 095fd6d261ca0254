package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cadence/internal/calendar"
	"cadence/internal/config"
	"cadence/internal/content"
	"cadence/internal/distribution"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/release"
	"cadence/internal/services"
	"cadence/internal/status"
)

// Deps are the collaborators a Service is built from.
type Deps struct {
	Items    content.Store
	Queue    queue.Store
	Profiles map[string]distribution.Profile
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Service exposes the engine's logical operations.
type Service struct {
	items    content.Store
	queue    queue.Store
	status   *status.Engine
	release  *release.Engine
	resolver *distribution.Resolver
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewService wires engines over deps. Nil profiles fall back to the built-in
// presets and a nil location to time.Local.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	profiles := deps.Profiles
	if profiles == nil {
		profiles = distribution.DefaultProfiles()
	}
	statusEngine := status.NewEngine(deps.Items, deps.Queue, logger)
	return &Service{
		items:    deps.Items,
		queue:    deps.Queue,
		status:   statusEngine,
		release:  release.NewEngine(deps.Items, deps.Queue, statusEngine, logger, release.WithClock(now), release.WithLocation(loc)),
		resolver: distribution.NewResolver(profiles),
		loc:      loc,
		now:      now,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
}

// Open builds a Service backed by the stores cfg points at.
func Open(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open", "configuration is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	profiles, fromFile, err := distribution.LoadProfilesOrDefault(cfg.Paths.ProfilesFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "load profiles", cfg.Paths.ProfilesFile, err)
	}
	if !fromFile {
		logger.Debug("using built-in distribution profiles", logging.String("profiles_file", cfg.Paths.ProfilesFile))
	}
	queueStore, err := queue.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open queue store: %w", err)
	}
	return NewService(Deps{
		Items:    content.NewFileStore(cfg.Paths.ContentDir, logger),
		Queue:    queueStore,
		Profiles: profiles,
		Location: cfg.Location(),
		Logger:   logger,
	}), nil
}

// Close releases the queue store.
func (s *Service) Close() error {
	if s == nil || s.queue == nil {
		return nil
	}
	return s.queue.Close()
}

// Location returns the timezone calendar days are computed in.
func (s *Service) Location() *time.Location { return s.loc }

// CreateItem writes a new draft item.
func (s *Service) CreateItem(ctx context.Context, series, slug, title string) (Item, error) {
	item, err := content.NewItem(series, slug, title)
	if err != nil {
		return Item{}, services.Wrap(services.ErrValidation, "api", "create item", "", err)
	}
	if err := content.Create(ctx, s.items, item); err != nil {
		return Item{}, err
	}
	return FromItem(item), nil
}

// GetItem returns one item.
func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return FromItem(item), nil
}

// ListItems returns every item, optionally limited to one status.
func (s *Service) ListItems(ctx context.Context, only content.Status) ([]Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	if only == "" {
		return FromItems(items), nil
	}
	filtered := make([]*content.Item, 0, len(items))
	for _, item := range items {
		if item.Status == only {
			filtered = append(filtered, item)
		}
	}
	return FromItems(filtered), nil
}

// SetStatus parses raw and applies it to item id.
func (s *Service) SetStatus(ctx context.Context, id, raw string) (Item, error) {
	item, err := s.status.ParseAndSetStatus(ctx, id, raw)
	if err != nil {
		return Item{}, err
	}
	return FromItem(item), nil
}

// Schedule replaces item id's scheduling block.
func (s *Service) Schedule(ctx context.Context, id string, scheduling content.Scheduling) (Item, error) {
	item, err := s.status.Schedule(ctx, id, scheduling)
	if err != nil {
		return Item{}, err
	}
	return FromItem(item), nil
}

// ConfirmPublished records an external publish confirmation. A zero time
// means now.
func (s *Service) ConfirmPublished(ctx context.Context, id string, at time.Time) (Item, error) {
	if at.IsZero() {
		at = s.now()
	}
	item, err := s.status.ConfirmPublished(ctx, id, at)
	if err != nil {
		return Item{}, err
	}
	return FromItem(item), nil
}

// ItemGroup returns the group item id belongs to. The bool is false when the
// item declares no group.
func (s *Service) ItemGroup(ctx context.Context, id string) (Group, bool, error) {
	group, err := s.status.ResolveGroup(ctx, id)
	if err != nil {
		return Group{}, false, err
	}
	if group == nil {
		return Group{}, false, nil
	}
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return Group{}, false, err
	}
	return FromGroup(item.ReleaseGroupID(), group), true, nil
}

// CreateGroup adds a draft release group.
func (s *Service) CreateGroup(ctx context.Context, id string, spec release.GroupSpec) (Group, error) {
	group, err := s.release.CreateGroup(ctx, id, spec)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(id, group), nil
}

// UpdateGroup patches a release group.
func (s *Service) UpdateGroup(ctx context.Context, id string, patch release.GroupPatch) (Group, error) {
	group, err := s.release.UpdateGroup(ctx, id, patch)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(id, group), nil
}

// AddGroupItem adds or updates a group member.
func (s *Service) AddGroupItem(ctx context.Context, groupID, path, directive string) (Group, error) {
	group, err := s.release.AddItem(ctx, groupID, path, directive)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(groupID, group), nil
}

// RemoveGroupItem drops a group member.
func (s *Service) RemoveGroupItem(ctx context.Context, groupID, path string) (Group, error) {
	group, err := s.release.RemoveItem(ctx, groupID, path)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(groupID, group), nil
}

// SetGroupStatus parses raw and applies it to group id.
func (s *Service) SetGroupStatus(ctx context.Context, id, raw string) (Group, error) {
	next, ok := queue.ParseGroupStatus(raw)
	if !ok {
		return Group{}, services.Wrap(services.ErrInvalidStatus, "api", "set group status",
			fmt.Sprintf("%q is not one of draft, staged, released", raw), nil)
	}
	group, err := s.release.SetGroupStatus(ctx, id, next)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(id, group), nil
}

// GetGroup returns one release group.
func (s *Service) GetGroup(ctx context.Context, id string) (Group, error) {
	group, err := s.release.GetGroup(ctx, id)
	if err != nil {
		return Group{}, err
	}
	return FromGroup(id, group), nil
}

// ListGroups returns every release group sorted by id.
func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	refs, err := s.release.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(refs))
	for _, ref := range refs {
		out = append(out, FromGroup(ref.ID, ref.Group))
	}
	return out, nil
}

// ReleaseGroup runs the release saga. The report is returned alongside a
// partial failure error so callers can show what did succeed.
func (s *Service) ReleaseGroup(ctx context.Context, id string) (ReleaseReport, error) {
	result, err := s.release.ReleaseGroup(ctx, id)
	if result == nil {
		return ReleaseReport{}, err
	}
	return FromReleaseResult(result), err
}

// ArchiveGroup moves a released group into the release history.
func (s *Service) ArchiveGroup(ctx context.Context, id string) ([]HistoryEntry, error) {
	entries, err := s.release.ArchiveGroup(ctx, id, s.resolver)
	if err != nil {
		return nil, err
	}
	return FromReleasedEntries(entries), nil
}

// Stage adds a standalone staged entry.
func (s *Service) Stage(ctx context.Context, entry queue.StagedEntry) (queue.StagedEntry, error) {
	return s.release.Stage(ctx, entry)
}

// Unstage removes a standalone staged entry.
func (s *Service) Unstage(ctx context.Context, path string) error {
	return s.release.Unstage(ctx, path)
}

// Block records a blocked entry.
func (s *Service) Block(ctx context.Context, entry queue.BlockedEntry) (queue.BlockedEntry, error) {
	return s.release.Block(ctx, entry)
}

// Unblock removes a blocked entry.
func (s *Service) Unblock(ctx context.Context, path string) error {
	return s.release.Unblock(ctx, path)
}

// Queue returns the raw release queue document.
func (s *Service) Queue(ctx context.Context) (*queue.Document, error) {
	return s.release.Queue(ctx)
}

// ResolvePlatforms expands a directive string. Unknown profiles return the
// empty platform list together with the error.
func (s *Service) ResolvePlatforms(raw string) (PlatformsResponse, error) {
	directive := distribution.ParseDirective(raw)
	platforms, err := s.resolver.ResolvePlatforms(directive)
	resp := PlatformsResponse{Directive: directive.String(), Platforms: platforms}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, err
}

// ResolveItemPlatforms expands the distribution selection stored on item id.
func (s *Service) ResolveItemPlatforms(ctx context.Context, id string) (PlatformsResponse, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return PlatformsResponse{}, err
	}
	directive, ok := distribution.FromDistribution(item.Distribution)
	if !ok {
		return PlatformsResponse{Platforms: []string{}}, nil
	}
	platforms, err := s.resolver.ResolvePlatforms(directive)
	resp := PlatformsResponse{Directive: directive.String(), Platforms: platforms}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, err
}

// Profiles lists the distribution profile table.
func (s *Service) Profiles() []Profile {
	names := s.resolver.ProfileNames()
	out := make([]Profile, 0, len(names))
	for _, key := range names {
		profile, _ := s.resolver.Profile(key)
		out = append(out, Profile{
			Key:         key,
			Name:        profile.Name,
			Description: profile.Description,
			Platforms:   profile.PlatformNames(),
		})
	}
	return out
}

// CalendarRequest selects a calendar view.
type CalendarRequest struct {
	Filter string
	Days   int
}

// Calendar collects, deduplicates, filters, and buckets release events.
func (s *Service) Calendar(ctx context.Context, req CalendarRequest) (CalendarResponse, error) {
	mode, ok := calendar.ParseFilterMode(req.Filter)
	if !ok {
		return CalendarResponse{}, services.Wrap(services.ErrValidation, "api", "calendar",
			fmt.Sprintf("unknown filter %q (want all, upcoming, or released)", req.Filter), nil)
	}
	items, err := s.items.List(ctx)
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("list items: %w", err)
	}
	doc, err := s.queue.Load(ctx)
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("load release queue: %w", err)
	}

	now := s.now()
	events := calendar.Collect(items, doc, s.loc)
	events = calendar.Dedupe(events)
	events = calendar.Filter(events, mode, now, s.loc)
	events = calendar.Window(events, now, req.Days, s.loc)
	days := calendar.GroupByDay(events, s.loc)

	return CalendarResponse{
		Filter:   string(mode),
		Timezone: s.loc.String(),
		Count:    len(events),
		Days:     FromDays(days, s.loc),
	}, nil
}

// IsPartialFailure reports whether err came from a release run that left
// some members behind.
func IsPartialFailure(err error) bool {
	return errors.Is(err, services.ErrPartialFailure)
}
