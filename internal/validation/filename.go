package validation

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidFile = errors.New("invalid image filename")
)

// CheckImageFilename validates an upload filename.
//
// The historical rule is loose on purpose: the name must contain a dot
// and the substring "jpg" anywhere, case-insensitively. "photo.JPG.exe"
// passes it. With strict enabled the name must actually end in .jpg or
// .jpeg.
func CheckImageFilename(filename string, strict bool) error {
	if filename == "" {
		return ErrInvalidFile
	}

	if strict {
		ext := strings.ToLower(filepath.Ext(filename))
		if ext != ".jpg" && ext != ".jpeg" {
			return ErrInvalidFile
		}
		return nil
	}

	if !strings.Contains(filename, ".") {
		return ErrInvalidFile
	}

	if !strings.Contains(strings.ToLower(filename), "jpg") {
		return ErrInvalidFile
	}

	return nil
}

// SanitizeFilename reduces a client-supplied filename to a safe basename:
// path components are stripped and anything outside [A-Za-z0-9._-] is
// replaced with an underscore. The result never contains a path
// separator, so pool names built from it cannot escape the pool
// directory.
func SanitizeFilename(filename string) string {
	// Drop any directory components, for both separator conventions.
	filename = filepath.Base(filename)
	if idx := strings.LastIndex(filename, "\\"); idx != -1 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	return out
}
