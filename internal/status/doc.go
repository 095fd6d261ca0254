// Package status implements the item status state machine.
//
// Every status is reachable from every other status; there is no guarded
// transition graph. Setting the status an item already has performs no write,
// which is what makes re-running a release group safe. Status changes never
// cascade to release groups, and an item may be released while its group is
// still a draft: status is advisory metadata, not an enforced invariant.
//
// The engine also owns the scheduling fields of an item, because those are
// where an item points at a release group and that reference must name a
// group that exists.
package status
