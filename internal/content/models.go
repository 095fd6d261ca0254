package content

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the workflow stage of a content item.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusReady    Status = "ready"
	StatusStaged   Status = "staged"
	StatusReleased Status = "released"
)

var allStatuses = []Status{
	StatusDraft,
	StatusReady,
	StatusStaged,
	StatusReleased,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if !normalized.Valid() {
		return "", false
	}
	return normalized, true
}

// Valid reports whether s is one of the four workflow statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusStaged, StatusReleased:
		return true
	default:
		return false
	}
}

// Scheduling captures when and with what an item is expected to publish.
// TargetDate is stored verbatim: either a bare YYYY-MM-DD day or an instant
// carrying a time and offset.
type Scheduling struct {
	TargetDate     string   `yaml:"targetDate,omitempty" json:"targetDate,omitempty"`
	DependsOn      []string `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	ReleaseGroupID string   `yaml:"releaseGroupId,omitempty" json:"releaseGroupId,omitempty"`
}

// IsZero reports whether no scheduling field is set.
func (s *Scheduling) IsZero() bool {
	return s == nil || (s.TargetDate == "" && len(s.DependsOn) == 0 && s.ReleaseGroupID == "")
}

// Distribution selects target platforms either through a named profile or an
// explicit platform list. Exactly one of the two may be set.
type Distribution struct {
	Profile   string   `yaml:"profile,omitempty" json:"profile,omitempty"`
	Platforms []string `yaml:"platforms,omitempty" json:"platforms,omitempty"`
}

// Validate rejects selections that mix both strategies.
func (d *Distribution) Validate() error {
	if d == nil {
		return nil
	}
	if strings.TrimSpace(d.Profile) != "" && len(d.Platforms) > 0 {
		return fmt.Errorf("distribution: profile %q and explicit platforms are mutually exclusive", d.Profile)
	}
	return nil
}

// Item is one episode's metadata document.
type Item struct {
	ID           string         `yaml:"-" json:"id"`
	Status       Status         `yaml:"status" json:"status"`
	Scheduling   *Scheduling    `yaml:"scheduling,omitempty" json:"scheduling,omitempty"`
	Distribution *Distribution  `yaml:"distribution,omitempty" json:"distribution,omitempty"`
	PublishedAt  *time.Time     `yaml:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Extra        map[string]any `yaml:",inline" json:"-"`
}

// NewItem returns a draft item for the given series and slug.
func NewItem(series, slug, title string) (*Item, error) {
	id, err := NewID(series, slug)
	if err != nil {
		return nil, err
	}
	item := &Item{ID: id, Status: StatusDraft}
	if title = strings.TrimSpace(title); title != "" {
		item.Extra = map[string]any{"title": title}
	}
	return item, nil
}

// Title returns the caller-owned title, falling back to the item ID.
func (i *Item) Title() string {
	if i == nil {
		return ""
	}
	if title, ok := i.Extra["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return i.ID
}

// TargetDate returns the scheduled date string, if any.
func (i *Item) TargetDate() string {
	if i == nil || i.Scheduling == nil {
		return ""
	}
	return i.Scheduling.TargetDate
}

// ReleaseGroupID returns the group the item declares membership in, if any.
func (i *Item) ReleaseGroupID() string {
	if i == nil || i.Scheduling == nil {
		return ""
	}
	return i.Scheduling.ReleaseGroupID
}

// Validate checks engine-owned fields.
func (i *Item) Validate() error {
	if i == nil {
		return fmt.Errorf("item is nil")
	}
	if _, _, err := SplitID(i.ID); err != nil {
		return err
	}
	if !i.Status.Valid() {
		return fmt.Errorf("item %s: invalid status %q", i.ID, i.Status)
	}
	return i.Distribution.Validate()
}

// Clone returns a copy that shares no engine-owned slices or pointers with i.
// Extra is copied one level deep.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Scheduling != nil {
		s := *i.Scheduling
		s.DependsOn = append([]string(nil), i.Scheduling.DependsOn...)
		cp.Scheduling = &s
	}
	if i.Distribution != nil {
		d := *i.Distribution
		d.Platforms = append([]string(nil), i.Distribution.Platforms...)
		cp.Distribution = &d
	}
	if i.PublishedAt != nil {
		ts := *i.PublishedAt
		cp.PublishedAt = &ts
	}
	if i.Extra != nil {
		cp.Extra = make(map[string]any, len(i.Extra))
		for k, v := range i.Extra {
			cp.Extra[k] = v
		}
	}
	return &cp
}
