package file

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const uploadDir = "uploads"

// buildFileName generates a collision-resistant filename that preserves the
// original extension.
func buildFileName(original string) string {
	ext := fileExt(original)
	if ext == "" {
		ext = "dat"
	}
	return uuid.NewString() + "." + ext
}

func fileExt(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
}

// parseFormats turns "jpg, .PNG" into a lookup set.
func parseFormats(allowed string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range strings.Split(allowed, ",") {
		item = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item)), ".")
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

// validateUpload checks extension and size against the configured limits.
func validateUpload(filename string, size int64, allowed map[string]struct{}, maxBytes int64) error {
	ext := fileExt(filename)
	if ext == "" {
		return fmt.Errorf("file extension is required")
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("file size exceeds %dMB", maxBytes/(1024*1024))
	}
	if len(allowed) == 0 {
		return nil
	}
	if _, ok := allowed[ext]; !ok {
		return fmt.Errorf("file format .%s is not allowed", ext)
	}
	return nil
}

// detectContentType sniffs the MIME type from the fallback header, extension,
// or raw payload bytes, in that priority order.
func detectContentType(filename string, payload []byte, fallback string) string {
	contentType := strings.TrimSpace(fallback)
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if ext := filepath.Ext(strings.TrimSpace(filename)); ext != "" {
		if guessed := mime.TypeByExtension(strings.ToLower(ext)); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}

func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.Trim(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}

// safeName returns the base name of raw only when it passes isSafeSegment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	if !isSafeSegment(name) {
		return ""
	}
	return name
}

// isSafeSegment returns true when s contains only alphanumerics, hyphens,
// underscores, or dots.
func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
