// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"slices"
	"strings"

	"github.com/archsh/archsh/pkg/types"
)

// Index is the ordered list of member names of one archive, built once at
// startup and never mutated afterwards.
type Index struct {
	path    string
	format  Format
	entries []types.EntryName
	lookup  map[types.EntryName]struct{}
}

// Load scans the archive at path and returns its index.
// Duplicate names keep their first position.
func Load(ctx context.Context, path string) (*Index, error) {
	var names []types.EntryName
	format, err := walk(ctx, path, func(m member) (bool, error) {
		names = append(names, m.name)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	idx := NewIndex(path, names)
	idx.format = format
	return idx, nil
}

// NewIndex builds an index from already known names, normalizing each and
// dropping duplicates and invalid names.
func NewIndex(path string, names []types.EntryName) *Index {
	idx := &Index{
		path:    path,
		entries: make([]types.EntryName, 0, len(names)),
		lookup:  make(map[types.EntryName]struct{}, len(names)),
	}
	for _, raw := range names {
		name := types.NormalizeEntryName(string(raw))
		if name.Validate() != nil {
			continue
		}
		if _, seen := idx.lookup[name]; seen {
			continue
		}
		idx.lookup[name] = struct{}{}
		idx.entries = append(idx.entries, name)
	}
	return idx
}

// Path returns the archive the index was built from.
func (i *Index) Path() string { return i.path }

// Format returns the detected container format, or FormatUnknown for
// indexes built with NewIndex.
func (i *Index) Format() Format { return i.format }

// Len returns the number of distinct entries.
func (i *Index) Len() int { return len(i.entries) }

// Entries returns a copy of all entries in archive order.
func (i *Index) Entries() []types.EntryName { return slices.Clone(i.entries) }

// Contains reports whether name is an exact entry of the index.
func (i *Index) Contains(name types.EntryName) bool {
	_, ok := i.lookup[name]
	return ok
}

// Children returns the immediate children of parent in archive order: entries
// starting with parent+"/" whose depth is exactly one more than parent's.
func (i *Index) Children(parent types.EntryName) []types.EntryName {
	prefix := string(parent) + "/"
	depth := parent.Depth() + 1
	var out []types.EntryName
	for _, e := range i.entries {
		if strings.HasPrefix(string(e), prefix) && e.Depth() == depth {
			out = append(out, e)
		}
	}
	return out
}
