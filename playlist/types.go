package playlist

import "errors"

var (
	// ErrNoLink is returned when no playlist line matches the link pattern.
	ErrNoLink = errors.New("no matching stream link found in playlist")

	// ErrEmptyBase is returned when a rewrite is attempted with a missing base.
	ErrEmptyBase = errors.New("rewrite requires both an old and a new server base")
)

// Link is one stream URL split into its server base and channel path.
type Link struct {
	Base string // scheme://host, no trailing slash
	Path string // /CHANNEL/index.m3u8
}

// Extraction is the result of scanning a playlist: the authoritative server
// base (first match wins) and the distinct channel paths served under it,
// in order of first appearance.
type Extraction struct {
	Base  string
	Paths []string

	// ForeignBases counts matching lines whose base differs from the
	// authoritative one. Their paths are not collected.
	ForeignBases int
}

// Change records one rewritten playlist line.
type Change struct {
	Line    int
	Channel string
	ID      string
}
