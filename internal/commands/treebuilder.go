package commands

import (
	"os"

	"github.com/temirov/treecontent/internal/config"
)

// LineWriter receives rendered tree lines in order. Each call carries one line without its terminator.
type LineWriter interface {
	WriteLine(line string) error
}

// TreeRenderer renders directory trees as ASCII text using configured options.
// The name sets are fixed for the lifetime of the renderer.
type TreeRenderer struct {
	Exclusions       config.NameSet
	InlineExtensions config.NameSet
	IncludeContent   bool
	// ListDirectory enumerates a directory; ReadDirectoryEntries is used when nil.
	ListDirectory DirectoryLister
	// ReadFile loads inline candidates; os.ReadFile is used when nil.
	ReadFile func(path string) ([]byte, error)
	// Warn receives diagnostics for subtrees that could not be listed.
	Warn func(message string)
}

// NewTreeRenderer returns a renderer for the resolved settings using the real filesystem.
func NewTreeRenderer(settings config.RenderSettings, warn func(message string)) *TreeRenderer {
	return &TreeRenderer{
		Exclusions:       settings.Exclusions,
		InlineExtensions: settings.InlineExtensions,
		IncludeContent:   settings.IncludeContent,
		ListDirectory:    ReadDirectoryEntries,
		ReadFile:         os.ReadFile,
		Warn:             warn,
	}
}
