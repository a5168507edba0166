package commands

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/treecontent/internal/types"
)

// DirectoryLister enumerates the immediate children of a directory.
type DirectoryLister func(directoryPath string) ([]types.DirectoryEntry, error)

// ReadDirectoryEntries lists directoryPath with os.ReadDir. Symbolic links are classified by
// their target; links that cannot be resolved are reported as special entries.
func ReadDirectoryEntries(directoryPath string) ([]types.DirectoryEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}

	entries := make([]types.DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		entry := types.DirectoryEntry{
			Name:        directoryEntry.Name(),
			Path:        entryPath,
			IsDirectory: directoryEntry.IsDir(),
		}
		entryType := directoryEntry.Type()
		if entryType&fs.ModeSymlink != 0 {
			entry.IsSymlink = true
			targetInfo, statError := os.Stat(entryPath)
			if statError != nil {
				entry.IsSpecial = true
			} else {
				entry.IsDirectory = targetInfo.IsDir()
				entry.IsSpecial = !targetInfo.IsDir() && !targetInfo.Mode().IsRegular()
			}
		} else if !entry.IsDirectory && !entryType.IsRegular() {
			entry.IsSpecial = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
