// Package content models episodes (content items) and persists their
// metadata documents.
//
// Each item lives in its own YAML document at
// <content_dir>/<series>/<slug>/metadata.yaml. The engine owns the workflow
// status, scheduling intent, distribution selection, and publish timestamp;
// every other key in the document (title, description, tags, checklists) is
// carried through untouched in Item.Extra so the surrounding application can
// evolve its own fields without coordinating with this package.
//
// Item IDs are "<series>/<slug>". Both segments are normalized with Slugify so
// the same episode always maps to the same document path.
package content
