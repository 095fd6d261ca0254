// Package calendar merges item schedules, release groups, and the queue's
// bookkeeping lists into one chronologically ordered list of events.
//
// Collect is a pure function over already loaded documents. Events are sorted
// by instant with a stable sort, so events sharing an instant keep their
// source order: episodes, release groups, staged entries, blocked entries,
// then release history.
//
// Dates without a time component are read as midnight in the caller's
// location rather than UTC midnight, and day keys are computed from local
// fields. Together these keep "2025-01-15" on the 15th for users west of
// Greenwich. Strings that do not parse drop their event; the calendar never
// fails because of one bad date.
package calendar
