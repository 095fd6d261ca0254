package distribution

import (
	"strings"

	"cadence/internal/content"
)

// PlatformsPrefix marks an explicit platform list in directive strings.
const PlatformsPrefix = "platforms:"

// Directive selects target platforms. The interface is sealed; the only
// implementations are ProfileDirective and PlatformsDirective.
type Directive interface {
	String() string
	directive()
}

// ProfileDirective names a profile in the table.
type ProfileDirective struct {
	Name string
}

func (ProfileDirective) directive() {}

func (d ProfileDirective) String() string { return d.Name }

// PlatformsDirective lists platforms explicitly.
type PlatformsDirective struct {
	Platforms []string
}

func (PlatformsDirective) directive() {}

func (d PlatformsDirective) String() string {
	return PlatformsPrefix + strings.Join(d.Platforms, ",")
}

// ParseDirective reads the compact string form used by release group
// members: "platforms:a,b" is an explicit list, anything else names a
// profile.
func ParseDirective(value string) Directive {
	value = strings.TrimSpace(value)
	if rest, ok := strings.CutPrefix(value, PlatformsPrefix); ok {
		return PlatformsDirective{Platforms: strings.Split(rest, ",")}
	}
	return ProfileDirective{Name: value}
}

// FromDistribution converts an item's distribution selection. It reports
// false when the item selects nothing.
func FromDistribution(d *content.Distribution) (Directive, bool) {
	if d == nil {
		return nil, false
	}
	if name := strings.TrimSpace(d.Profile); name != "" {
		return ProfileDirective{Name: name}, true
	}
	if len(d.Platforms) > 0 {
		return PlatformsDirective{Platforms: append([]string(nil), d.Platforms...)}, true
	}
	return nil, false
}
