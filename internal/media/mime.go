package media

import (
	"path/filepath"
	"strings"
)

// contentTypes is the fixed extension map used for streaming responses.
// Unknown extensions fall back to video/mp4.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
}

// ContentType resolves the response Content-Type from a filename's
// extension.
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "video/mp4"
}
