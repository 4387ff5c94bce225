package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadManifest reads a manifest of platform-reported paths, one per line, and
// returns the sanitized repo-relative paths in order. Blank lines and lines
// starting with '#' are ignored, as are lines that sanitize to nothing
// (paths made of only virtual provider segments). Duplicates keep their first
// occurrence.
func ReadManifest(manifestPath string) ([]string, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest '%s': %w", manifestPath, err)
	}
	defer file.Close()

	seen := NewSet[string]()
	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repoPath := SanitizePlatformPath(line)
		if repoPath == "" || seen.Contains(repoPath) {
			continue
		}
		seen.Add(repoPath)
		paths = append(paths, repoPath)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", manifestPath, err)
	}
	return paths, nil
}
