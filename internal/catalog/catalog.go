// Package catalog models the set of commands the tmux server currently
// offers, together with derived display titles. It is the board's only
// source of truth for which pinned commands count as active.
package catalog

import (
	"strings"
	"unicode"

	"github.com/atomicstack/tmux-pinboard/internal/host"
)

// Snapshot captures the active command set at one point in time. Records
// derived from it are only as fresh as the snapshot itself; staleness
// between polls is expected.
type Snapshot struct {
	IDs    []string
	Titles map[string]string
	Usage  map[string]string
}

// Fetch queries the server for its current command set.
func Fetch(socketPath string) (Snapshot, error) {
	lines, err := host.ListCommands(socketPath)
	if err != nil {
		return Snapshot{}, err
	}
	return Parse(lines), nil
}

// Parse builds a snapshot from `list-commands` output lines. Each line
// starts with the command name followed by its usage synopsis.
func Parse(lines []string) Snapshot {
	snap := Snapshot{
		Titles: make(map[string]string, len(lines)),
		Usage:  make(map[string]string, len(lines)),
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		id := fields[0]
		if _, seen := snap.Titles[id]; seen {
			continue
		}
		snap.IDs = append(snap.IDs, id)
		snap.Titles[id] = Title(id)
		snap.Usage[id] = line
	}
	return snap
}

// ActiveSet returns the snapshot ids as a membership set.
func (s Snapshot) ActiveSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.IDs))
	for _, id := range s.IDs {
		set[id] = struct{}{}
	}
	return set
}

// Fingerprint folds the active command set into a comparable string so the
// watcher can suppress no-change polls.
func (s Snapshot) Fingerprint() string {
	return strings.Join(s.IDs, "\n")
}

// Title derives a display title from a command identifier. Commands whose
// arguments are baked into the pin keep only the leading name for titling.
func Title(id string) string {
	name := id
	if i := strings.IndexFunc(id, unicode.IsSpace); i >= 0 {
		name = id[:i]
	}
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	title := strings.Join(parts, " ")
	if rest := strings.TrimSpace(strings.TrimPrefix(id, name)); rest != "" {
		title = title + " " + rest
	}
	return title
}
