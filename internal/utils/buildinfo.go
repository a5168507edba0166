// Package utils provides helper functions, including version retrieval.
package utils

import (
	"runtime/debug"
)

const (
	unknownVersion        = "unknown"
	develVersion          = "(devel)"
	revisionSettingKey    = "vcs.revision"
	shortRevisionLength   = 12
	revisionVersionPrefix = "devel-"
)

// GetApplicationVersion reports the module version recorded at build time. Development builds fall
// back to the VCS revision embedded by the Go toolchain.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key != revisionSettingKey || setting.Value == "" {
			continue
		}
		revision := setting.Value
		if len(revision) > shortRevisionLength {
			revision = revision[:shortRevisionLength]
		}
		return revisionVersionPrefix + revision
	}
	return unknownVersion
}
