package fs

import (
	"mime"
	"path/filepath"
	"strings"
)

// Extensions the system MIME database often misses or maps unhelpfully.
var mimeOverrides = map[string]string{
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".rs":   "text/x-rust",
	".sh":   "text/x-shellscript",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".json": "application/json",
	".txt":  "text/plain",
}

// detectMimeType picks a MIME type from the file extension, falling back to
// the system database and finally to text/plain.
func detectMimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if m, ok := mimeOverrides[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		return m
	}
	return "text/plain"
}
