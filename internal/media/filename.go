// Package media implements the storage and HTTP byte-range mechanics for
// uploaded video files: filename validation, content-type resolution,
// Range header parsing and the on-disk upload store.
package media

import "regexp"

// filenamePattern is the allow-list for streaming filenames: alphanumerics,
// dash, underscore and dot only.  It is the sole defense against path
// traversal, so it runs before any filesystem access; a name failing it is
// rejected outright, never normalized.
var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// ValidFilename reports whether name may be used as a streaming handle.
func ValidFilename(name string) bool {
	return name != "" && filenamePattern.MatchString(name)
}
