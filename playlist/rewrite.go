package playlist

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/valyala/bytebufferpool"

	"m3u-mirror-failover/logger"
)

// Rewrite replaces every case-insensitive occurrence of oldBase with newBase
// across the playlist lines. Lines not containing oldBase pass through
// untouched. Returns the rewritten lines and one Change per modified line;
// an empty change list means the playlist content is already current.
func Rewrite(lines []string, oldBase, newBase string) ([]string, []Change, error) {
	if strings.TrimSpace(oldBase) == "" || strings.TrimSpace(newBase) == "" {
		return nil, nil, ErrEmptyBase
	}

	newLines := make([]string, len(lines))
	var changes []Change

	for i, line := range lines {
		replaced := replaceFold(line, oldBase, newBase)
		newLines[i] = replaced

		if replaced == line {
			continue
		}

		channel := channelNameFor(lines, i)
		changes = append(changes, Change{
			Line:    i + 1,
			Channel: channel,
			ID:      slug.Make(channel),
		})
		logger.Default.Logf("Updated link for: %s", channel)
	}

	return newLines, changes, nil
}

// replaceFold is a case-insensitive strings.ReplaceAll for an ASCII needle:
// occurrences of old are located under an ASCII-only fold and replaced with
// new verbatim. The fold never changes byte offsets, so surrounding bytes
// (including multi-byte runes earlier on the line) pass through as they were.
func replaceFold(s, old, new string) string {
	lowerS := lowerASCII(s)
	lowerOld := lowerASCII(old)
	if lowerOld == "" || !strings.Contains(lowerS, lowerOld) {
		return s
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	start := 0
	for {
		idx := strings.Index(lowerS[start:], lowerOld)
		if idx < 0 {
			break
		}
		idx += start
		_, _ = buf.WriteString(s[start:idx])
		_, _ = buf.WriteString(new)
		start = idx + len(old)
	}
	_, _ = buf.WriteString(s[start:])

	return buf.String()
}

// lowerASCII lowercases only the bytes A-Z, keeping every other byte and
// the string length unchanged.
func lowerASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + 'a' - 'A'
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}

// channelNameFor names the channel whose link lives on line i. The trailing
// comma field of the nearest #EXTINF directive above wins; a trailing comma
// field on the line itself is the fallback.
func channelNameFor(lines []string, i int) string {
	for j := i; j >= 0 && j > i-2; j-- {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), "#EXTINF") {
			if comma := strings.LastIndex(lines[j], ","); comma >= 0 {
				if name := strings.TrimSpace(lines[j][comma+1:]); name != "" {
					return name
				}
			}
		}
	}

	if comma := strings.LastIndex(lines[i], ","); comma >= 0 {
		if name := strings.TrimSpace(lines[i][comma+1:]); name != "" {
			return name
		}
	}

	return strings.TrimSpace(lines[i])
}
