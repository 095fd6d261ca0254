package release

import (
	"context"
	"fmt"
	"strings"

	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/services"
)

// MemberFailure records one member that could not be released.
type MemberFailure struct {
	Path string
	Err  error
}

// ReleaseResult reports what a ReleaseGroup run did to each member.
type ReleaseResult struct {
	GroupID       string
	CorrelationID string
	Succeeded     []string
	Skipped       []string
	Failed        []MemberFailure
}

// FailedPaths lists the members that need another attempt.
func (r *ReleaseResult) FailedPaths() []string {
	if r == nil {
		return nil
	}
	paths := make([]string, len(r.Failed))
	for i, failure := range r.Failed {
		paths[i] = failure.Path
	}
	return paths
}

// PartialFailureError is returned when some members of a released group
// could not be moved to released. It matches services.ErrPartialFailure.
type PartialFailureError struct {
	GroupID string
	Total   int
	Failed  []MemberFailure
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, failure := range e.Failed {
		parts[i] = fmt.Sprintf("%s (%v)", failure.Path, failure.Err)
	}
	return fmt.Sprintf("%v: release group %q: %d of %d members failed: %s",
		services.ErrPartialFailure, e.GroupID, len(e.Failed), e.Total, strings.Join(parts, "; "))
}

func (e *PartialFailureError) Unwrap() error { return services.ErrPartialFailure }

// ReleaseGroup marks group id released and then moves each member to
// released. Members already released are skipped without a write, so the
// call can be repeated until no failures remain.
func (e *Engine) ReleaseGroup(ctx context.Context, id string) (*ReleaseResult, error) {
	id = strings.TrimSpace(id)
	correlationID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		correlationID = e.newID()
		ctx = services.WithRequestID(ctx, correlationID)
	}
	logger := e.groupLogger(ctx, id)

	members, err := e.markGroupReleased(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &ReleaseResult{GroupID: id, CorrelationID: correlationID}
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, MemberFailure{Path: member.Path, Err: err})
			continue
		}
		item, err := e.items.Get(ctx, member.Path)
		if err != nil {
			result.Failed = append(result.Failed, MemberFailure{Path: member.Path, Err: err})
			continue
		}
		if item.Status == content.StatusReleased {
			result.Skipped = append(result.Skipped, member.Path)
			continue
		}
		if _, err := e.status.SetStatus(ctx, member.Path, content.StatusReleased); err != nil {
			result.Failed = append(result.Failed, MemberFailure{Path: member.Path, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, member.Path)
	}

	for _, failure := range result.Failed {
		logging.WarnWithContext(logger, "release group member not released", "release_member_failed",
			logging.ItemID(failure.Path),
			logging.Error(failure.Err),
			logging.String(logging.FieldErrorHint, "fix the item and run the group release again"),
			logging.String(logging.FieldImpact, "member stays unreleased while its group is released"),
		)
	}
	logger.Info("release group released",
		logging.Int("succeeded", len(result.Succeeded)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Int("failed", len(result.Failed)),
		logging.String(logging.FieldEventType, "release_group_released"),
	)

	if len(result.Failed) > 0 {
		return result, &PartialFailureError{GroupID: id, Total: len(members), Failed: result.Failed}
	}
	return result, nil
}

// markGroupReleased persists the group's released status and returns a
// snapshot of its members. A group that is already released is not written
// again.
func (e *Engine) markGroupReleased(ctx context.Context, id string) ([]queue.GroupItem, error) {
	doc, err := e.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load release queue: %w", err)
	}
	group := doc.Group(id)
	if group == nil {
		return nil, groupNotFound("release group", id)
	}
	members := append([]queue.GroupItem(nil), group.Items...)
	if group.Status == queue.GroupReleased && group.ReleasedAt != nil {
		return members, nil
	}
	now := e.now()
	group.Status = queue.GroupReleased
	if group.ReleasedAt == nil {
		group.ReleasedAt = &now
	}
	group.UpdatedAt = now
	if err := e.queue.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save released group %q: %w", id, err)
	}
	return members, nil
}
