// Package watch notifies callers when item metadata or the release queue
// document changes on disk. It backs "cadence watch", which re-renders the
// calendar after each burst of edits.
//
// fsnotify is not recursive, so the watcher adds every directory under the
// content root at start and adds new directories as they appear. Events are
// debounced: a burst of writes (an editor saving, an atomic rename) produces
// one callback listing the changed paths.
package watch
