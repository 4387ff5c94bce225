package main

import (
	"net/url"
	"strings"
)

// virtualFolderNames are provider segments that storage frameworks prepend to
// a file's reported path but that do not exist in the real folder hierarchy.
// Purely numeric segments (Android user profiles such as "0") are handled
// separately.
var virtualFolderNames = NewSet(
	"tree",
	"document",
	"primary",
	"storage",
	"emulated",
	"external",
	"raw",
	"sdcard",
)

// SanitizePlatformPath normalizes a platform-reported relative path into a
// repository-relative one: URL-decodes it, converts backslashes, strips SAF
// "scheme:/tree/id:" prefixes up to the last colon, drops leading
// virtual-filesystem segments, and finally drops the selected folder's own
// name. A bare filename passes through unmodified.
func SanitizePlatformPath(rawPath string) string {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	decoded = strings.ReplaceAll(decoded, "\\", "/")
	if colonIndex := strings.LastIndex(decoded, ":"); colonIndex >= 0 {
		decoded = decoded[colonIndex+1:]
	}
	decoded = strings.Trim(decoded, "/")

	var segments []string
	for _, segment := range strings.Split(decoded, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	for len(segments) > 0 {
		head := segments[0]
		if !virtualFolderNames.Contains(strings.ToLower(head)) && !isNumeric(head) {
			break
		}
		segments = segments[1:]
	}

	// The first remaining segment is the selected folder itself, unless the
	// path is already a bare filename.
	if len(segments) > 1 {
		segments = segments[1:]
	}

	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
