package release

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/queue"
	"cadence/internal/services"
)

// Stage adds or replaces the standalone staged entry for entry.Path.
func (e *Engine) Stage(ctx context.Context, entry queue.StagedEntry) (queue.StagedEntry, error) {
	entry.Path = strings.TrimSpace(entry.Path)
	if entry.Path == "" {
		return queue.StagedEntry{}, services.Wrap(services.ErrValidation, "release", "stage", "item path is required", nil)
	}
	entry.TargetDate = strings.TrimSpace(entry.TargetDate)
	entry.Distribution = strings.TrimSpace(entry.Distribution)
	entry.DependsOn = trimList(entry.DependsOn)
	if entry.StagedAt.IsZero() {
		entry.StagedAt = e.now()
	}
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		if idx := doc.StagedIndex(entry.Path); idx >= 0 {
			doc.Staged[idx] = entry
			return nil
		}
		doc.Staged = append(doc.Staged, entry)
		return nil
	}); err != nil {
		return queue.StagedEntry{}, err
	}
	e.itemLogger(ctx, entry.Path).Info("item staged", logging.String("target_date", entry.TargetDate))
	return entry, nil
}

// Unstage removes the staged entry for path.
func (e *Engine) Unstage(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		idx := doc.StagedIndex(path)
		if idx < 0 {
			return services.Wrap(services.ErrNotFound, "release", "unstage", fmt.Sprintf("staged item %q", path), nil)
		}
		doc.Staged = append(doc.Staged[:idx], doc.Staged[idx+1:]...)
		return nil
	}); err != nil {
		return err
	}
	e.itemLogger(ctx, path).Info("item unstaged")
	return nil
}

// Block records why path cannot move forward, replacing any previous entry.
func (e *Engine) Block(ctx context.Context, entry queue.BlockedEntry) (queue.BlockedEntry, error) {
	entry.Path = strings.TrimSpace(entry.Path)
	entry.BlockedBy = strings.TrimSpace(entry.BlockedBy)
	if entry.Path == "" || entry.BlockedBy == "" {
		return queue.BlockedEntry{}, services.Wrap(services.ErrValidation, "release", "block", "item path and blocker are required", nil)
	}
	entry.BlockedSince = strings.TrimSpace(entry.BlockedSince)
	if entry.BlockedSince == "" {
		entry.BlockedSince = e.now().In(e.loc).Format("2006-01-02")
	}
	entry.Notes = strings.TrimSpace(entry.Notes)
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		if idx := doc.BlockedIndex(entry.Path); idx >= 0 {
			doc.Blocked[idx] = entry
			return nil
		}
		doc.Blocked = append(doc.Blocked, entry)
		return nil
	}); err != nil {
		return queue.BlockedEntry{}, err
	}
	e.itemLogger(ctx, entry.Path).Info("item blocked", logging.String("blocked_by", entry.BlockedBy))
	return entry, nil
}

// Unblock removes the blocked entry for path.
func (e *Engine) Unblock(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		idx := doc.BlockedIndex(path)
		if idx < 0 {
			return services.Wrap(services.ErrNotFound, "release", "unblock", fmt.Sprintf("blocked item %q", path), nil)
		}
		doc.Blocked = append(doc.Blocked[:idx], doc.Blocked[idx+1:]...)
		return nil
	}); err != nil {
		return err
	}
	e.itemLogger(ctx, path).Info("item unblocked")
	return nil
}

// RecordRelease appends a history entry for a standalone release.
func (e *Engine) RecordRelease(ctx context.Context, entry queue.ReleasedEntry) (queue.ReleasedEntry, error) {
	entry.Path = strings.TrimSpace(entry.Path)
	if entry.Path == "" {
		return queue.ReleasedEntry{}, services.Wrap(services.ErrValidation, "release", "record release", "item path is required", nil)
	}
	if entry.ID == "" {
		entry.ID = e.newID()
	}
	if entry.ReleasedAt.IsZero() {
		entry.ReleasedAt = e.now()
	}
	entry.Platforms = trimList(entry.Platforms)
	if _, err := queue.Update(ctx, e.queue, func(doc *queue.Document) error {
		doc.Released = append(doc.Released, entry)
		return nil
	}); err != nil {
		return queue.ReleasedEntry{}, err
	}
	e.itemLogger(ctx, entry.Path).Info("release recorded", logging.String("entry_id", entry.ID))
	return entry, nil
}

func (e *Engine) itemLogger(ctx context.Context, path string) *slog.Logger {
	return logging.WithContext(services.WithItemID(ctx, path), e.logger)
}
