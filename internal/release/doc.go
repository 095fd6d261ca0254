// Package release manages release groups and the standalone bookkeeping
// lists of the release queue.
//
// Group mutations are read-modify-write cycles against queue.Store; each one
// loads the document, edits it, and saves it back under the store's version
// check. Membership is stored by item path and is never verified against the
// metadata store, so a group may list an item that does not exist yet.
//
// ReleaseGroup is a saga rather than a transaction. The group is marked
// released and saved first, then each member is moved to released one at a
// time. Members that fail are reported in a PartialFailureError and the
// group stays released; calling ReleaseGroup again only touches the members
// that are not released yet.
package release
