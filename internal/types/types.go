// Package types defines every cross-package data structure used by the treecontent CLI.
package types

// DirectoryEntry is one result of enumerating a directory.
type DirectoryEntry struct {
	Name        string
	IsDirectory bool
	Path        string
	// IsSymlink is set when the entry is a symbolic link. IsDirectory then describes the link target.
	IsSymlink bool
	// IsSpecial marks entries that are neither directories nor readable regular files:
	// devices, pipes, sockets and dangling links. Their content is never read.
	IsSpecial bool
}

// RenderStatistics counts what a render pass produced.
type RenderStatistics struct {
	Directories    int
	Files          int
	Inlined        int
	Unreadable     int
	SkippedSubtree int
}

// Lines returns the number of tree lines emitted.
func (statistics RenderStatistics) Lines() int {
	return statistics.Directories + statistics.Files
}
