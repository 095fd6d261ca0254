package release

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cadence/internal/distribution"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/services"
)

// ArchiveGroup moves a released group into the release history: one
// ReleasedEntry per member, then the group itself is removed and items that
// referenced it lose their releaseGroupId. Platforms are resolved from the
// member directive, or the item's own selection when the member has none. A
// nil resolver records entries without platforms.
func (e *Engine) ArchiveGroup(ctx context.Context, id string, resolver *distribution.Resolver) ([]queue.ReleasedEntry, error) {
	id = strings.TrimSpace(id)
	logger := e.groupLogger(ctx, id)

	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	group := doc.Group(id)
	if group == nil {
		return nil, groupNotFound("archive group", id)
	}
	if group.Status != queue.GroupReleased {
		return nil, services.Wrap(services.ErrValidation, "release", "archive group",
			fmt.Sprintf("group %q is %s; only released groups can be archived", id, group.Status), nil)
	}

	releasedAt := e.now()
	if group.ReleasedAt != nil {
		releasedAt = *group.ReleasedAt
	}
	entries := make([]queue.ReleasedEntry, 0, len(group.Items))
	for _, member := range group.Items {
		entry := queue.ReleasedEntry{
			ID:         e.newID(),
			Path:       member.Path,
			GroupID:    id,
			ReleasedAt: releasedAt,
		}
		if resolver != nil {
			platforms, err := e.memberPlatforms(ctx, resolver, member)
			if err != nil {
				logging.WarnWithContext(logger, "member platforms unresolved", "archive_platforms_unresolved",
					logging.ItemID(member.Path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "history entry recorded without platforms"),
				)
			}
			entry.Platforms = platforms
		}
		entries = append(entries, entry)
	}

	doc.Released = append(doc.Released, entries...)
	delete(doc.ReleaseGroups, id)
	if err := e.queue.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save archived group %q: %w", id, err)
	}
	cleared := e.clearGroupReferences(ctx, logger, id)
	logger.Info("release group archived",
		logging.Int("entries", len(entries)),
		logging.Int("references_cleared", cleared),
		logging.String(logging.FieldEventType, "release_group_archived"),
	)
	return entries, nil
}

// clearGroupReferences drops releaseGroupId from every item still pointing at
// id. Failures are logged and left for doctor to report; the archive stands.
func (e *Engine) clearGroupReferences(ctx context.Context, logger *slog.Logger, id string) int {
	items, err := e.items.List(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "group references not cleared", "archive_references_unlisted",
			logging.Error(err),
			logging.String(logging.FieldImpact, "items may still reference the archived group"),
		)
		return 0
	}
	cleared := 0
	for _, item := range items {
		if item.Scheduling == nil || item.Scheduling.ReleaseGroupID != id {
			continue
		}
		scheduling := *item.Scheduling
		scheduling.ReleaseGroupID = ""
		if _, err := e.status.Schedule(ctx, item.ID, scheduling); err != nil {
			logging.WarnWithContext(logger, "group reference not cleared", "archive_reference_failed",
				logging.ItemID(item.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run cadence item schedule with --group \"\" for this item"),
				logging.String(logging.FieldImpact, "item references a group that no longer exists"),
			)
			continue
		}
		cleared++
	}
	return cleared
}

func (e *Engine) memberPlatforms(ctx context.Context, resolver *distribution.Resolver, member queue.GroupItem) ([]string, error) {
	if member.Distribution != "" {
		return resolver.ResolvePlatforms(distribution.ParseDirective(member.Distribution))
	}
	item, err := e.items.Get(ctx, member.Path)
	if err != nil {
		return nil, err
	}
	directive, ok := distribution.FromDistribution(item.Distribution)
	if !ok {
		return nil, nil
	}
	return resolver.ResolvePlatforms(directive)
}
