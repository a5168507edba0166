package commands

import (
	"github.com/temirov/treecontent/internal/types"
	"github.com/temirov/treecontent/internal/utils"
)

const (
	// inlineSeparator joins an entry name and its inline content.
	inlineSeparator = ": "
	// unreadableContentMarker replaces content that could not be read as text.
	unreadableContentMarker = "<error reading file>"
)

type inlineResult int

const (
	inlineSkipped inlineResult = iota
	inlineEmpty
	inlineContent
	inlineUnreadable
)

// inspectFile returns the suffix appended to a file's tree line: the flattened content of an
// eligible text file, the unreadable marker, or nothing.
func (state *renderState) inspectFile(entry types.DirectoryEntry) (string, inlineResult) {
	if !state.renderer.IncludeContent || entry.IsDirectory || entry.IsSpecial {
		return "", inlineSkipped
	}
	if !state.renderer.InlineExtensions.Contains(utils.FileExtension(entry.Name)) {
		return "", inlineSkipped
	}

	fileBytes, readError := state.readFile(entry.Path)
	if readError != nil || utils.IsBinary(fileBytes) {
		return inlineSeparator + unreadableContentMarker, inlineUnreadable
	}

	flattenedContent := utils.FlattenWhitespace(string(fileBytes))
	if flattenedContent == "" {
		return "", inlineEmpty
	}
	return inlineSeparator + flattenedContent, inlineContent
}
