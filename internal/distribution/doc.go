// Package distribution expands distribution directives into concrete target
// platforms.
//
// A Directive is either a ProfileDirective naming an entry in the profile
// table or a PlatformsDirective carrying an explicit list. Profiles come from
// a YAML table (LoadProfiles) or the built-in presets (DefaultProfiles) and
// are never mutated after load. Unknown profile names resolve to an empty
// platform list plus an error wrapping services.ErrUnknownProfile, so callers
// can never publish nowhere without being told.
package distribution
