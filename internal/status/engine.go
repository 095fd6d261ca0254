package status

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/services"
)

// Engine applies status and scheduling changes to item metadata.
type Engine struct {
	items  content.Store
	queue  queue.Store
	logger *slog.Logger
}

// NewEngine returns an engine over the given stores.
func NewEngine(items content.Store, queueStore queue.Store, logger *slog.Logger) *Engine {
	return &Engine{
		items:  items,
		queue:  queueStore,
		logger: logging.NewComponentLogger(logger, "status"),
	}
}

// SetStatus moves item id to next and persists it. Setting the current
// status returns the item unchanged without writing.
func (e *Engine) SetStatus(ctx context.Context, id string, next content.Status) (*content.Item, error) {
	if !next.Valid() {
		return nil, services.Wrap(services.ErrInvalidStatus, "status", "set status",
			fmt.Sprintf("%q is not one of %s", next, statusList()), nil)
	}
	item, err := e.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == next {
		return item, nil
	}
	previous := item.Status
	item.Status = next
	if err := e.items.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("persist status for %s: %w", id, err)
	}
	logging.WithContext(ctx, e.logger).Info("status changed",
		logging.ItemID(id),
		logging.String("from", string(previous)),
		logging.String("to", string(next)),
		logging.String(logging.FieldEventType, "status_changed"),
	)
	return item, nil
}

// ParseAndSetStatus parses raw before delegating to SetStatus.
func (e *Engine) ParseAndSetStatus(ctx context.Context, id, raw string) (*content.Item, error) {
	next, ok := content.ParseStatus(raw)
	if !ok {
		return nil, services.Wrap(services.ErrInvalidStatus, "status", "set status",
			fmt.Sprintf("%q is not one of %s", raw, statusList()), nil)
	}
	return e.SetStatus(ctx, id, next)
}

// ConfirmPublished records an external publish confirmation. It is the only
// path that sets PublishedAt.
func (e *Engine) ConfirmPublished(ctx context.Context, id string, at time.Time) (*content.Item, error) {
	if at.IsZero() {
		return nil, services.Wrap(services.ErrValidation, "status", "confirm published", "publish time is required", nil)
	}
	item, err := e.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = content.StatusReleased
	item.PublishedAt = &at
	if err := e.items.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("persist publish confirmation for %s: %w", id, err)
	}
	logging.WithContext(ctx, e.logger).Info("publish confirmed",
		logging.ItemID(id),
		logging.String("published_at", at.Format(time.RFC3339)),
		logging.String(logging.FieldEventType, "publish_confirmed"),
	)
	return item, nil
}

// Schedule replaces the scheduling block of item id. A non-empty
// ReleaseGroupID must name an existing group.
func (e *Engine) Schedule(ctx context.Context, id string, scheduling content.Scheduling) (*content.Item, error) {
	scheduling.TargetDate = strings.TrimSpace(scheduling.TargetDate)
	scheduling.ReleaseGroupID = strings.TrimSpace(scheduling.ReleaseGroupID)
	if groupID := scheduling.ReleaseGroupID; groupID != "" {
		doc, err := e.queue.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load release queue: %w", err)
		}
		if doc.Group(groupID) == nil {
			return nil, services.Wrap(services.ErrNotFound, "status", "schedule",
				fmt.Sprintf("release group %q", groupID), nil)
		}
	}
	item, err := e.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduling.IsZero() {
		item.Scheduling = nil
	} else {
		item.Scheduling = &scheduling
	}
	if err := e.items.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("persist scheduling for %s: %w", id, err)
	}
	logging.WithContext(ctx, e.logger).Info("scheduling updated",
		logging.ItemID(id),
		logging.String("target_date", scheduling.TargetDate),
		logging.GroupID(scheduling.ReleaseGroupID),
	)
	return item, nil
}

// ResolveGroup returns the release group item id belongs to, or nil when it
// declares none. A reference to a group that no longer exists is reported as
// not found rather than ignored.
func (e *Engine) ResolveGroup(ctx context.Context, id string) (*queue.ReleaseGroup, error) {
	item, err := e.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	groupID := item.ReleaseGroupID()
	if groupID == "" {
		return nil, nil
	}
	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	group := doc.Group(groupID)
	if group == nil {
		return nil, services.Wrap(services.ErrNotFound, "status", "resolve group",
			fmt.Sprintf("item %s references missing release group %q", id, groupID), nil)
	}
	return group, nil
}

func statusList() string {
	statuses := content.AllStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
