package serverlist

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoServers is returned when the list file yields no usable candidates.
var ErrNoServers = errors.New("server list contains no usable entries")

// Load reads candidate server bases from a text file, one per line. Entries
// are trimmed and stripped of trailing slashes; blank lines are discarded.
// Order is preserved, it defines probe priority.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read server list: %w", err)
	}

	var servers []string
	for _, line := range strings.Split(string(data), "\n") {
		entry := strings.TrimRight(strings.TrimSpace(line), "/")
		if entry == "" {
			continue
		}
		servers = append(servers, entry)
	}

	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	return servers, nil
}
