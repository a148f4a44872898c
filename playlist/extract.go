package playlist

import (
	"strings"

	"m3u-mirror-failover/logger"
)

// Extract scans playlist lines for links matching the pattern. The base of
// the first match becomes the authoritative server base; every later match
// under the same base contributes its channel path (deduplicated, insertion
// order). Matches under a different base are counted but otherwise ignored.
func Extract(lines []string, pattern LinkPattern) (Extraction, error) {
	var result Extraction
	seen := make(map[string]struct{})

	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), strings.ToLower(pattern.Domain)) {
			continue
		}

		link, ok := pattern.Match(line)
		if !ok {
			continue
		}

		if result.Base == "" {
			result.Base = strings.TrimRight(link.Base, "/")
		}

		if !strings.EqualFold(strings.TrimRight(link.Base, "/"), result.Base) {
			result.ForeignBases++
			continue
		}

		if _, dup := seen[link.Path]; dup {
			continue
		}
		seen[link.Path] = struct{}{}
		result.Paths = append(result.Paths, link.Path)
	}

	if result.Base == "" {
		return Extraction{}, ErrNoLink
	}

	if result.ForeignBases > 0 {
		logger.Default.Warnf("Playlist contains %d link(s) under a different server base; only %s is considered", result.ForeignBases, result.Base)
	}

	return result, nil
}
