package distribution

import (
	"fmt"
	"sort"
	"strings"

	"cadence/internal/services"
)

// Resolver expands directives against an immutable profile table.
type Resolver struct {
	profiles map[string]Profile
}

// NewResolver copies profiles into a new resolver.
func NewResolver(profiles map[string]Profile) *Resolver {
	table := make(map[string]Profile, len(profiles))
	for name, profile := range profiles {
		table[name] = profile
	}
	return &Resolver{profiles: table}
}

// ProfileNames returns the known profile keys in sorted order.
func (r *Resolver) ProfileNames() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile looks up a profile by key.
func (r *Resolver) Profile(name string) (Profile, bool) {
	profile, ok := r.profiles[strings.TrimSpace(name)]
	return profile, ok
}

// ResolvePlatforms returns the platforms a directive targets. Profiles expand
// to their sorted platform keys. Explicit lists keep their order with blanks
// and repeats removed and are not checked against any known platform set.
func (r *Resolver) ResolvePlatforms(d Directive) ([]string, error) {
	switch directive := d.(type) {
	case ProfileDirective:
		profile, ok := r.Profile(directive.Name)
		if !ok {
			return []string{}, services.Wrap(services.ErrUnknownProfile, "distribution", "resolve platforms",
				fmt.Sprintf("profile %q", directive.Name), nil)
		}
		return profile.PlatformNames(), nil
	case PlatformsDirective:
		return cleanPlatforms(directive.Platforms), nil
	case nil:
		return []string{}, services.Wrap(services.ErrValidation, "distribution", "resolve platforms", "no directive", nil)
	default:
		return []string{}, services.Wrap(services.ErrValidation, "distribution", "resolve platforms",
			fmt.Sprintf("unsupported directive %T", d), nil)
	}
}

func cleanPlatforms(platforms []string) []string {
	out := make([]string, 0, len(platforms))
	seen := make(map[string]struct{}, len(platforms))
	for _, platform := range platforms {
		platform = strings.TrimSpace(platform)
		if platform == "" {
			continue
		}
		if _, dup := seen[platform]; dup {
			continue
		}
		seen[platform] = struct{}{}
		out = append(out, platform)
	}
	return out
}
