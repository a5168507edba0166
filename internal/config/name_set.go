// Package config holds the immutable name sets that drive rendering and loads user configuration.
package config

import (
	"github.com/temirov/treecontent/internal/utils"
)

var (
	defaultExcludedDirectoryNames = []string{"node_modules", ".angular", utils.GitDirectoryName, "dist", ".idea"}
	defaultInlineExtensions       = []string{".html", ".ts", ".scss"}
)

// NameSet is an immutable set of names. The zero value is an empty set.
type NameSet struct {
	members map[string]struct{}
	ordered []string
}

// NewNameSet builds a set from names, dropping blanks and duplicates.
func NewNameSet(names ...string) NameSet {
	ordered := utils.DeduplicatePatterns(names)
	members := make(map[string]struct{}, len(ordered))
	for _, name := range ordered {
		members[name] = struct{}{}
	}
	return NameSet{members: members, ordered: ordered}
}

// NewExtensionSet builds a set of lower-cased, dot-prefixed file extensions.
func NewExtensionSet(extensions ...string) NameSet {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		normalized = append(normalized, utils.NormalizeExtension(extension))
	}
	return NewNameSet(normalized...)
}

// DefaultExclusionSet returns the directory names skipped during traversal.
func DefaultExclusionSet() NameSet {
	return NewNameSet(defaultExcludedDirectoryNames...)
}

// DefaultInlineExtensionSet returns the file extensions whose content is inlined.
func DefaultInlineExtensionSet() NameSet {
	return NewExtensionSet(defaultInlineExtensions...)
}

// Contains reports whether name is a member of the set.
func (set NameSet) Contains(name string) bool {
	_, found := set.members[name]
	return found
}

// Len returns the number of members.
func (set NameSet) Len() int {
	return len(set.ordered)
}

// Names returns the members in insertion order.
func (set NameSet) Names() []string {
	return append([]string(nil), set.ordered...)
}

// Union returns a new set holding the members of set followed by names.
func (set NameSet) Union(names ...string) NameSet {
	combined := make([]string, 0, len(set.ordered)+len(names))
	combined = append(combined, set.ordered...)
	combined = append(combined, names...)
	return NewNameSet(combined...)
}

// UnionExtensions is Union for extension sets; names are normalized first.
func (set NameSet) UnionExtensions(extensions ...string) NameSet {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		normalized = append(normalized, utils.NormalizeExtension(extension))
	}
	return set.Union(normalized...)
}
