package aggregate

import (
	"os"
	"sort"

	"ideprojects/internal/project"
)

// Probe reports whether a project path exists at the time of the call.
type Probe func(path string) bool

// PathExists is the default Probe. Symlinks are followed.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Entry pairs a record with an existence fact computed when the view was built.
type Entry struct {
	Record project.Record
	Exists bool
}

// Group is one family/version partition of the grouped view.
type Group struct {
	Key     string
	Entries []Entry
}

// Grouped partitions records by SourceKey. Partitions are ordered by key and
// entries by descending recency; ties keep discovery order.
func (c *Collection) Grouped(probe Probe) []Group {
	if probe == nil {
		probe = PathExists
	}

	index := make(map[string]int)
	var groups []Group
	for _, rec := range c.Records {
		key := rec.SourceKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, Entry{Record: rec, Exists: probe(rec.Path)})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	for i := range groups {
		sortByRecency(groups[i].Entries)
	}
	return groups
}

// Global orders every record by descending recency regardless of source.
func (c *Collection) Global(probe Probe) []Entry {
	if probe == nil {
		probe = PathExists
	}
	entries := make([]Entry, 0, len(c.Records))
	for _, rec := range c.Records {
		entries = append(entries, Entry{Record: rec, Exists: probe(rec.Path)})
	}
	sortByRecency(entries)
	return entries
}

// sortByRecency ranks absent activation timestamps below every present one.
func sortByRecency(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Record.ActivationTimestamp, entries[j].Record.ActivationTimestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}
