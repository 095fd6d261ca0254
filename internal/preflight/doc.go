// Package preflight provides readiness checks for the filesystem paths and
// documents cadence depends on.
//
// The CLI "cadence doctor" command runs RunAll and prints each Result.
// Individual checks (CheckDirectoryAccess, CheckFileAccess) are also used on
// their own where a single path needs verifying.
package preflight
