// Package commands contains the core logic for rendering directory trees.
package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/temirov/treecontent/internal/types"
)

const (
	// branchGlyphMiddle prefixes every entry that has siblings after it.
	branchGlyphMiddle = "+-- "
	// branchGlyphLast prefixes the last entry of a sibling list.
	branchGlyphLast = "\\-- "
	// prefixContinuation extends the prefix below an entry with pending siblings.
	prefixContinuation = "|   "
	// prefixBlank extends the prefix below the last entry of a sibling list.
	prefixBlank = "    "

	// warningProcessPathFormat is used when a directory cannot be listed.
	warningProcessPathFormat = "Error processing path %s: %v"

	// errorWriteLineFormat is used when the sink rejects a line.
	errorWriteLineFormat = "writing tree line for %s: %w"
)

var errNilLineWriter = errors.New("tree line writer is nil")

// renderState is the mutable state of one Render call.
type renderState struct {
	renderer   *TreeRenderer
	sink       LineWriter
	listing    DirectoryLister
	readFile   func(path string) ([]byte, error)
	warn       func(message string)
	statistics types.RenderStatistics
}

// Render writes the tree rooted at rootDirectoryPath to sink, one line per entry, depth first.
// Directories whose names are excluded are pruned with their whole subtree. A directory that
// cannot be listed, the root included, is reported through Warn and skipped; only sink failures
// abort the render. A symbolic link to a directory is listed and sorted as a directory but its
// contents are not rendered, so the tree differs from a link-following walk wherever links occur.
func (treeRenderer *TreeRenderer) Render(rootDirectoryPath string, sink LineWriter) (types.RenderStatistics, error) {
	if sink == nil {
		return types.RenderStatistics{}, errNilLineWriter
	}
	state := &renderState{
		renderer: treeRenderer,
		sink:     sink,
		listing:  treeRenderer.ListDirectory,
		readFile: treeRenderer.ReadFile,
		warn:     treeRenderer.Warn,
	}
	if state.listing == nil {
		state.listing = ReadDirectoryEntries
	}
	if state.readFile == nil {
		state.readFile = os.ReadFile
	}
	if state.warn == nil {
		state.warn = func(string) {}
	}

	renderError := state.renderDirectory(rootDirectoryPath, "")
	return state.statistics, renderError
}

// renderDirectory emits the children of directoryPath below prefix.
func (state *renderState) renderDirectory(directoryPath string, prefix string) error {
	directoryEntries, listError := state.listing(directoryPath)
	if listError != nil {
		state.warn(fmt.Sprintf(warningProcessPathFormat, directoryPath, listError))
		state.statistics.SkippedSubtree++
		return nil
	}

	visibleEntries := state.visibleEntries(directoryEntries)
	for entryIndex, directoryEntry := range visibleEntries {
		branchGlyph, childPrefix := branchGlyphMiddle, prefix+prefixContinuation
		if entryIndex == len(visibleEntries)-1 {
			branchGlyph, childPrefix = branchGlyphLast, prefix+prefixBlank
		}

		line := prefix + branchGlyph + directoryEntry.Name
		if directoryEntry.IsDirectory {
			state.statistics.Directories++
		} else {
			state.statistics.Files++
			suffix, result := state.inspectFile(directoryEntry)
			switch result {
			case inlineContent:
				state.statistics.Inlined++
			case inlineUnreadable:
				state.statistics.Unreadable++
			}
			line += suffix
		}

		if writeError := state.sink.WriteLine(line); writeError != nil {
			return fmt.Errorf(errorWriteLineFormat, directoryEntry.Path, writeError)
		}

		// Linked directories are listed but not entered so cyclic links cannot recurse forever.
		if directoryEntry.IsDirectory && !directoryEntry.IsSymlink {
			if renderError := state.renderDirectory(directoryEntry.Path, childPrefix); renderError != nil {
				return renderError
			}
		}
	}
	return nil
}

// visibleEntries drops excluded directories and orders the rest: directories first, then by
// case-sensitive name.
func (state *renderState) visibleEntries(directoryEntries []types.DirectoryEntry) []types.DirectoryEntry {
	visibleEntries := make([]types.DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDirectory && state.renderer.Exclusions.Contains(directoryEntry.Name) {
			continue
		}
		visibleEntries = append(visibleEntries, directoryEntry)
	}
	sort.SliceStable(visibleEntries, func(left, right int) bool {
		if visibleEntries[left].IsDirectory != visibleEntries[right].IsDirectory {
			return visibleEntries[left].IsDirectory
		}
		return visibleEntries[left].Name < visibleEntries[right].Name
	})
	return visibleEntries
}
