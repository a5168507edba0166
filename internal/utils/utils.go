// Package utils contains general helper functions used across the treecontent tool.
package utils

import (
	"path/filepath"
	"strings"
)

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

const extensionSeparator = "."

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// FileExtension returns the lower-cased extension of a file name including its dot.
// Leading dots are part of the name rather than an extension, so ".ts" has no extension
// while "app.component.ts" has ".ts".
func FileExtension(fileName string) string {
	baseName := strings.TrimLeft(filepath.Base(fileName), extensionSeparator)
	separatorIndex := strings.LastIndex(baseName, extensionSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return strings.ToLower(baseName[separatorIndex:])
}

// NormalizeExtension lower-cases an extension and ensures it starts with a dot.
// Blank input yields an empty string.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.ToLower(strings.TrimSpace(extension))
	if trimmedExtension == "" {
		return ""
	}
	if !strings.HasPrefix(trimmedExtension, extensionSeparator) {
		trimmedExtension = extensionSeparator + trimmedExtension
	}
	return trimmedExtension
}
