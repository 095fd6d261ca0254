package distribution

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a named preset mapping to a set of platforms. Settings are
// opaque per-platform configuration carried through for callers.
type Profile struct {
	Name        string                    `yaml:"name" json:"name"`
	Description string                    `yaml:"description,omitempty" json:"description,omitempty"`
	Platforms   map[string]map[string]any `yaml:"platforms" json:"platforms"`
}

// PlatformNames returns the profile's platform keys in sorted order.
func (p Profile) PlatformNames() []string {
	names := make([]string, 0, len(p.Platforms))
	for name := range p.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type profileTable struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultProfiles returns the presets used when no profile table exists.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"full": {
			Name:        "Full",
			Description: "Every supported audio, video, and social platform",
			Platforms: map[string]map[string]any{
				"apple_podcasts": {},
				"instagram":      {"format": "reel"},
				"rss":            {},
				"spotify":        {},
				"tiktok":         {},
				"youtube":        {"visibility": "public"},
			},
		},
		"audio": {
			Name:        "Audio",
			Description: "Podcast feeds only",
			Platforms: map[string]map[string]any{
				"apple_podcasts": {},
				"rss":            {},
				"spotify":        {},
			},
		},
		"video": {
			Name:        "Video",
			Description: "Long-form video",
			Platforms: map[string]map[string]any{
				"youtube": {"visibility": "public"},
			},
		},
		"social": {
			Name:        "Social",
			Description: "Short clips for social feeds",
			Platforms: map[string]map[string]any{
				"instagram": {"format": "reel"},
				"tiktok":    {},
			},
		},
	}
}

// LoadProfiles reads a profile table document. Entries without a name take
// their key as the name.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile table: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes a profile table document.
func ParseProfiles(data []byte) (map[string]Profile, error) {
	var table profileTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode profile table: %w", err)
	}
	profiles := make(map[string]Profile, len(table.Profiles))
	for key, profile := range table.Profiles {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("decode profile table: empty profile key")
		}
		if strings.TrimSpace(profile.Name) == "" {
			profile.Name = key
		}
		if profile.Platforms == nil {
			profile.Platforms = map[string]map[string]any{}
		}
		profiles[key] = profile
	}
	return profiles, nil
}

// LoadProfilesOrDefault reads path, falling back to DefaultProfiles when the
// file does not exist or path is empty. The bool reports whether the file was
// used.
func LoadProfilesOrDefault(path string) (map[string]Profile, bool, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultProfiles(), false, nil
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultProfiles(), false, nil
		}
		return nil, false, err
	}
	return profiles, true, nil
}
