// Package api is the in-process facade the CLI (and any future transport)
// calls into. It wires the metadata store, the release queue store, the
// status and release engines, the distribution resolver, and the calendar
// aggregator behind one Service, and translates their models into
// transport-friendly DTOs.
//
// # Key Types
//
// Service: owns the stores and engines for one configuration. Open builds it
// from config.Config; NewService accepts injected dependencies for tests.
//
// Item, Group, ReleaseReport, CalendarResponse, PlatformsResponse: DTOs with
// camelCase JSON tags. Enums are exposed as lowercase strings and timestamps
// use RFC3339 with milliseconds.
//
// # Converters
//
// FromItem: content.Item -> Item.
//
// FromGroup: queue.ReleaseGroup -> Group.
//
// FromReleaseResult: release.ReleaseResult -> ReleaseReport, keeping the
// per-member error kind so callers can decide whether to retry.
//
// FromDays: calendar.Day -> CalendarDay.
package api
