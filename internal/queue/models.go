package queue

import (
	"sort"
	"strings"
	"time"
)

// GroupStatus is the coarse lifecycle of a release group.
type GroupStatus string

const (
	GroupDraft    GroupStatus = "draft"
	GroupStaged   GroupStatus = "staged"
	GroupReleased GroupStatus = "released"
)

// ParseGroupStatus converts a string into a known GroupStatus.
func ParseGroupStatus(value string) (GroupStatus, bool) {
	normalized := GroupStatus(strings.ToLower(strings.TrimSpace(value)))
	if !normalized.Valid() {
		return "", false
	}
	return normalized, true
}

// Valid reports whether s is draft, staged, or released.
func (s GroupStatus) Valid() bool {
	switch s {
	case GroupDraft, GroupStaged, GroupReleased:
		return true
	default:
		return false
	}
}

// GroupItem is one member of a release group. Path points at a content item
// ID and is not verified on insert.
type GroupItem struct {
	Path         string `yaml:"path" json:"path"`
	Distribution string `yaml:"distribution,omitempty" json:"distribution,omitempty"`
}

// ReleaseGroup bundles items that publish together.
type ReleaseGroup struct {
	Name         string      `yaml:"name" json:"name"`
	Description  string      `yaml:"description,omitempty" json:"description,omitempty"`
	Status       GroupStatus `yaml:"status" json:"status"`
	TargetDate   string      `yaml:"targetDate,omitempty" json:"targetDate,omitempty"`
	Items        []GroupItem `yaml:"items" json:"items"`
	Dependencies []string    `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	ReleaseOrder []string    `yaml:"releaseOrder,omitempty" json:"releaseOrder,omitempty"`
	CreatedAt    time.Time   `yaml:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `yaml:"updatedAt" json:"updatedAt"`
	ReleasedAt   *time.Time  `yaml:"releasedAt,omitempty" json:"releasedAt,omitempty"`
}

// ItemIndex returns the position of path in the group, or -1.
func (g *ReleaseGroup) ItemIndex(path string) int {
	for i, item := range g.Items {
		if item.Path == path {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of g.
func (g *ReleaseGroup) Clone() *ReleaseGroup {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Items = append([]GroupItem(nil), g.Items...)
	cp.Dependencies = append([]string(nil), g.Dependencies...)
	cp.ReleaseOrder = append([]string(nil), g.ReleaseOrder...)
	if g.ReleasedAt != nil {
		ts := *g.ReleasedAt
		cp.ReleasedAt = &ts
	}
	return &cp
}

// StagedEntry schedules a single item without a group.
type StagedEntry struct {
	Path         string    `yaml:"path" json:"path"`
	TargetDate   string    `yaml:"targetDate,omitempty" json:"targetDate,omitempty"`
	DependsOn    []string  `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	Distribution string    `yaml:"distribution,omitempty" json:"distribution,omitempty"`
	StagedAt     time.Time `yaml:"stagedAt" json:"stagedAt"`
}

// BlockedEntry records why an item cannot move forward. Informational only.
type BlockedEntry struct {
	Path         string `yaml:"path" json:"path"`
	BlockedBy    string `yaml:"blockedBy" json:"blockedBy"`
	BlockedSince string `yaml:"blockedSince,omitempty" json:"blockedSince,omitempty"`
	Notes        string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ReleasedEntry is one line of release history.
type ReleasedEntry struct {
	ID         string    `yaml:"id" json:"id"`
	Path       string    `yaml:"path" json:"path"`
	GroupID    string    `yaml:"groupId,omitempty" json:"groupId,omitempty"`
	ReleasedAt time.Time `yaml:"releasedAt" json:"releasedAt"`
	Platforms  []string  `yaml:"platforms,omitempty" json:"platforms,omitempty"`
}

// Document is the singleton release queue.
type Document struct {
	Version       int64                    `yaml:"version" json:"version"`
	ReleaseGroups map[string]*ReleaseGroup `yaml:"release_groups" json:"release_groups"`
	Staged        []StagedEntry            `yaml:"staged" json:"staged"`
	Blocked       []BlockedEntry           `yaml:"blocked" json:"blocked"`
	Released      []ReleasedEntry          `yaml:"released" json:"released"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{ReleaseGroups: map[string]*ReleaseGroup{}}
}

// normalize fills nil collections left by decoding sparse documents.
func (d *Document) normalize() {
	if d.ReleaseGroups == nil {
		d.ReleaseGroups = map[string]*ReleaseGroup{}
	}
	for id, group := range d.ReleaseGroups {
		if group == nil {
			delete(d.ReleaseGroups, id)
			continue
		}
		if group.Status == "" {
			group.Status = GroupDraft
		}
	}
}

// Group returns the group with id, or nil.
func (d *Document) Group(id string) *ReleaseGroup {
	if d == nil {
		return nil
	}
	return d.ReleaseGroups[id]
}

// GroupIDs returns group identifiers in sorted order.
func (d *Document) GroupIDs() []string {
	ids := make([]string, 0, len(d.ReleaseGroups))
	for id := range d.ReleaseGroups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StagedIndex returns the position of path in the staged list, or -1.
func (d *Document) StagedIndex(path string) int {
	for i, entry := range d.Staged {
		if entry.Path == path {
			return i
		}
	}
	return -1
}

// BlockedIndex returns the position of path in the blocked list, or -1.
func (d *Document) BlockedIndex(path string) int {
	for i, entry := range d.Blocked {
		if entry.Path == path {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := &Document{
		Version:       d.Version,
		ReleaseGroups: make(map[string]*ReleaseGroup, len(d.ReleaseGroups)),
		Staged:        make([]StagedEntry, len(d.Staged)),
		Blocked:       append([]BlockedEntry(nil), d.Blocked...),
		Released:      make([]ReleasedEntry, len(d.Released)),
	}
	for id, group := range d.ReleaseGroups {
		cp.ReleaseGroups[id] = group.Clone()
	}
	for i, entry := range d.Staged {
		entry.DependsOn = append([]string(nil), entry.DependsOn...)
		cp.Staged[i] = entry
	}
	for i, entry := range d.Released {
		entry.Platforms = append([]string(nil), entry.Platforms...)
		cp.Released[i] = entry
	}
	return cp
}
