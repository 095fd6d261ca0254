package release

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/services"
	"cadence/internal/status"
)

// Engine coordinates release groups over the metadata and queue stores.
type Engine struct {
	items  content.Store
	queue  queue.Store
	status *status.Engine
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	loc    *time.Location
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for bookkeeping timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone used for calendar days such as a default
// blockedSince. Nil keeps time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithIDGenerator overrides how history entry and correlation IDs are made.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine returns an engine over the given stores. Member status changes
// go through statusEngine so they follow the same rules as direct edits.
func NewEngine(items content.Store, queueStore queue.Store, statusEngine *status.Engine, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		items:  items,
		queue:  queueStore,
		status: statusEngine,
		logger: logging.NewComponentLogger(logger, "release"),
		now:    time.Now,
		newID:  uuid.NewString,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GroupSpec describes a new release group.
type GroupSpec struct {
	Name         string
	Description  string
	TargetDate   string
	Items        []queue.GroupItem
	Dependencies []string
	ReleaseOrder []string
}

// GroupPatch lists the group fields to change. Nil fields are left alone.
type GroupPatch struct {
	Name         *string
	Description  *string
	TargetDate   *string
	Dependencies *[]string
	ReleaseOrder *[]string
}

// GroupRef pairs a group with its identifier.
type GroupRef struct {
	ID    string
	Group *queue.ReleaseGroup
}

// CreateGroup adds a draft group. The identifier and name are required and
// the identifier must be unused.
func (e *Engine) CreateGroup(ctx context.Context, id string, spec GroupSpec) (*queue.ReleaseGroup, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "release", "create group", "group id is required", nil)
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "release", "create group", "group name is required", nil)
	}
	items, err := normalizeMembers(spec.Items)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "release", "create group", "", err)
	}

	now := e.now()
	group := &queue.ReleaseGroup{
		Name:         name,
		Description:  strings.TrimSpace(spec.Description),
		Status:       queue.GroupDraft,
		TargetDate:   strings.TrimSpace(spec.TargetDate),
		Items:        items,
		Dependencies: trimList(spec.Dependencies),
		ReleaseOrder: trimList(spec.ReleaseOrder),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		if doc.Group(id) != nil {
			return services.Wrap(services.ErrAlreadyExists, "release", "create group", fmt.Sprintf("group %q", id), nil)
		}
		doc.ReleaseGroups[id] = group
		return nil
	}); err != nil {
		return nil, err
	}
	e.groupLogger(ctx, id).Info("release group created",
		logging.String("name", name),
		logging.Int("items", len(items)),
	)
	return group.Clone(), nil
}

// UpdateGroup applies patch to group id.
func (e *Engine) UpdateGroup(ctx context.Context, id string, patch GroupPatch) (*queue.ReleaseGroup, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, services.Wrap(services.ErrValidation, "release", "update group", "group name cannot be empty", nil)
	}
	return e.mutateGroup(ctx, id, "update group", func(group *queue.ReleaseGroup) error {
		if patch.Name != nil {
			group.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			group.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.TargetDate != nil {
			group.TargetDate = strings.TrimSpace(*patch.TargetDate)
		}
		if patch.Dependencies != nil {
			group.Dependencies = trimList(*patch.Dependencies)
		}
		if patch.ReleaseOrder != nil {
			group.ReleaseOrder = trimList(*patch.ReleaseOrder)
		}
		return nil
	})
}

// AddItem appends path to group id with an optional distribution directive.
// Adding a path that is already a member replaces its directive in place.
func (e *Engine) AddItem(ctx context.Context, groupID, path, directive string) (*queue.ReleaseGroup, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "release", "add item", "item path is required", nil)
	}
	directive = strings.TrimSpace(directive)
	return e.mutateGroup(ctx, groupID, "add item", func(group *queue.ReleaseGroup) error {
		if idx := group.ItemIndex(path); idx >= 0 {
			group.Items[idx].Distribution = directive
			return nil
		}
		group.Items = append(group.Items, queue.GroupItem{Path: path, Distribution: directive})
		return nil
	})
}

// RemoveItem drops path from group id.
func (e *Engine) RemoveItem(ctx context.Context, groupID, path string) (*queue.ReleaseGroup, error) {
	path = strings.TrimSpace(path)
	return e.mutateGroup(ctx, groupID, "remove item", func(group *queue.ReleaseGroup) error {
		idx := group.ItemIndex(path)
		if idx < 0 {
			return services.Wrap(services.ErrNotFound, "release", "remove item",
				fmt.Sprintf("item %q is not in group %q", path, groupID), nil)
		}
		group.Items = append(group.Items[:idx], group.Items[idx+1:]...)
		return nil
	})
}

// SetGroupStatus changes the group's own status. Members are not touched.
func (e *Engine) SetGroupStatus(ctx context.Context, id string, next queue.GroupStatus) (*queue.ReleaseGroup, error) {
	if !next.Valid() {
		return nil, services.Wrap(services.ErrInvalidStatus, "release", "set group status",
			fmt.Sprintf("%q is not one of draft, staged, released", next), nil)
	}
	return e.mutateGroup(ctx, id, "set group status", func(group *queue.ReleaseGroup) error {
		group.Status = next
		if next == queue.GroupReleased && group.ReleasedAt == nil {
			now := e.now()
			group.ReleasedAt = &now
		}
		return nil
	})
}

// GetGroup returns a copy of group id.
func (e *Engine) GetGroup(ctx context.Context, id string) (*queue.ReleaseGroup, error) {
	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	group := doc.Group(strings.TrimSpace(id))
	if group == nil {
		return nil, groupNotFound("get group", id)
	}
	return group.Clone(), nil
}

// ListGroups returns every group sorted by identifier.
func (e *Engine) ListGroups(ctx context.Context) ([]GroupRef, error) {
	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	ids := doc.GroupIDs()
	refs := make([]GroupRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, GroupRef{ID: id, Group: doc.Group(id).Clone()})
	}
	return refs, nil
}

// Queue returns the current release queue document.
func (e *Engine) Queue(ctx context.Context) (*queue.Document, error) {
	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	return doc, nil
}

func (e *Engine) mutateGroup(ctx context.Context, id, op string, fn func(*queue.ReleaseGroup) error) (*queue.ReleaseGroup, error) {
	id = strings.TrimSpace(id)
	var updated *queue.ReleaseGroup
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		group := doc.Group(id)
		if group == nil {
			return groupNotFound(op, id)
		}
		if err := fn(group); err != nil {
			return err
		}
		group.UpdatedAt = e.now()
		updated = group.Clone()
		return nil
	}); err != nil {
		return nil, err
	}
	e.groupLogger(ctx, id).Info("release group updated", logging.String("operation", op))
	return updated, nil
}

func (e *Engine) groupLogger(ctx context.Context, id string) *slog.Logger {
	return logging.WithContext(services.WithGroupID(ctx, id), e.logger)
}

func groupNotFound(op, id string) error {
	return services.Wrap(services.ErrNotFound, "release", op, fmt.Sprintf("release group %q", id), nil)
}

func normalizeMembers(items []queue.GroupItem) ([]queue.GroupItem, error) {
	out := make([]queue.GroupItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		path := strings.TrimSpace(item.Path)
		if path == "" {
			return nil, fmt.Errorf("group member path is required")
		}
		directive := strings.TrimSpace(item.Distribution)
		if idx, ok := index[path]; ok {
			out[idx].Distribution = directive
			continue
		}
		index[path] = len(out)
		out = append(out, queue.GroupItem{Path: path, Distribution: directive})
	}
	return out, nil
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
