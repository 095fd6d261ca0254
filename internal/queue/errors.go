package queue

import "errors"

// ErrVersionConflict reports that the document changed between Load and Save.
var ErrVersionConflict = errors.New("release queue changed since it was loaded")
