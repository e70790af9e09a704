package markers

import (
	"sort"

	"github.com/bebsworthy/testconf/pkg/config"
)

// Index holds the marker usages collected from a suite scan
type Index struct {
	usages   []Usage
	byMarker map[string][]string
}

func newIndex() *Index {
	return &Index{
		byMarker: make(map[string][]string),
	}
}

func (idx *Index) add(u Usage) {
	idx.usages = append(idx.usages, u)

	files := idx.byMarker[u.Name]
	for _, f := range files {
		if f == u.File {
			return
		}
	}
	idx.byMarker[u.Name] = append(files, u.File)
}

// Usages returns all collected usages in walk order
func (idx *Index) Usages() []Usage {
	return idx.usages
}

// Used returns the distinct marker names referenced by the suite, sorted
func (idx *Index) Used() []string {
	names := make([]string, 0, len(idx.byMarker))
	for name := range idx.byMarker {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilesWith returns the files tagged with the given marker, sorted.
// An unknown marker yields no files.
func (idx *Index) FilesWith(name string) []string {
	files := idx.byMarker[name]
	if len(files) == 0 {
		return nil
	}
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)
	return sorted
}

// Undeclared returns usages of markers absent from the registry
func (idx *Index) Undeclared(cfg *config.Config) []Usage {
	var out []Usage
	for _, u := range idx.usages {
		if cfg.FindMarker(u.Name) == nil {
			out = append(out, u)
		}
	}
	return out
}

// Deprecated returns usages of markers the registry flags as deprecated
func (idx *Index) Deprecated(cfg *config.Config) []Usage {
	var out []Usage
	for _, u := range idx.usages {
		if m := cfg.FindMarker(u.Name); m != nil && m.Deprecated {
			out = append(out, u)
		}
	}
	return out
}

// Unused returns registry markers never referenced by the suite, in
// registry order
func (idx *Index) Unused(cfg *config.Config) []string {
	var out []string
	for _, m := range cfg.Markers {
		if _, ok := idx.byMarker[m.Name]; !ok {
			out = append(out, m.Name)
		}
	}
	return out
}
