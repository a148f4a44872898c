package playlist

import (
	"strings"
)

// LinkPattern describes the URL shape of a mirror stream link:
// <scheme>://<prefix><digits>.<domain><path ending in extension>.
// Each field is an explicit policy knob instead of regex incidental behavior.
type LinkPattern struct {
	Domain     string // content domain, e.g. "moveonjoy.com"
	HostPrefix string // numbered-subdomain prefix, e.g. "fl"
	Extension  string // required path suffix, e.g. ".m3u8"
	AllowQuery bool   // accept links carrying a ?query after the path
}

// DefaultPattern returns the link shape for the given content domain.
func DefaultPattern(domain string) LinkPattern {
	return LinkPattern{
		Domain:     domain,
		HostPrefix: "fl",
		Extension:  ".m3u8",
	}
}

// Match scans one playlist line for a link of this shape. The returned base
// and path preserve the line's original casing; the path excludes any query
// string. Only the first well-formed link per line is considered.
func (p LinkPattern) Match(line string) (Link, bool) {
	if p.Domain == "" {
		return Link{}, false
	}

	lower := strings.ToLower(line)
	domain := strings.ToLower(p.Domain)

	searchFrom := 0
	for {
		rel := strings.Index(lower[searchFrom:], domain)
		if rel < 0 {
			return Link{}, false
		}
		d := searchFrom + rel
		searchFrom = d + 1

		schemeStart, ok := p.matchHost(lower, d)
		if !ok {
			continue
		}

		path, ok := p.matchPath(line, lower, d+len(domain))
		if !ok {
			continue
		}

		return Link{
			Base: line[schemeStart : d+len(domain)],
			Path: path,
		}, true
	}
}

// matchHost walks backwards from the domain occurrence at index d and
// verifies <scheme>://<prefix><digits>. immediately precedes it. Returns the
// index where the scheme starts.
func (p LinkPattern) matchHost(lower string, d int) (int, bool) {
	i := d - 1
	if i < 0 || lower[i] != '.' {
		return 0, false
	}

	j := i
	for j > 0 && lower[j-1] >= '0' && lower[j-1] <= '9' {
		j--
	}
	if j == i {
		return 0, false // subdomain must carry at least one digit
	}

	prefix := strings.ToLower(p.HostPrefix)
	k := j - len(prefix)
	if k < 0 || lower[k:j] != prefix {
		return 0, false
	}

	if k < 3 || lower[k-3:k] != "://" {
		return 0, false
	}

	s := k - 3
	schemeStart := s
	for schemeStart > 0 && lower[schemeStart-1] >= 'a' && lower[schemeStart-1] <= 'z' {
		schemeStart--
	}
	scheme := lower[schemeStart:s]
	if scheme != "http" && scheme != "https" {
		return 0, false
	}

	return schemeStart, true
}

// matchPath reads the channel path starting right after the domain. The path
// must begin with "/", runs until whitespace or a quote, and must end with
// the configured extension once any query string is handled.
func (p LinkPattern) matchPath(line, lower string, start int) (string, bool) {
	if start >= len(line) || line[start] != '/' {
		return "", false
	}

	end := start
	for end < len(line) && !isPathTerminator(line[end]) {
		end++
	}

	path := line[start:end]
	pathLower := lower[start:end]

	if q := strings.IndexByte(path, '?'); q >= 0 {
		if !p.AllowQuery {
			return "", false
		}
		path = path[:q]
		pathLower = pathLower[:q]
	}

	if !strings.HasSuffix(pathLower, strings.ToLower(p.Extension)) {
		return "", false
	}

	return path, true
}

func isPathTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '"', '\'':
		return true
	}
	return false
}
