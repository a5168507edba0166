// Package output manages the text artifact a render pass writes to.
package output

import (
	"time"

	"github.com/temirov/treecontent/internal/utils"
)

const (
	artifactNamePrefix = "tree."
	artifactNameSuffix = ".txt"

	// lineTerminator ends every line written to a sink.
	lineTerminator = "\n"

	// artifactFileMode is the permission of newly created artifacts.
	artifactFileMode = 0o644
)

// TimestampedFileName returns the artifact name for a render started at moment:
// tree.<YYYYMMDDHHmmss>.txt in local time.
func TimestampedFileName(moment time.Time) string {
	return artifactNamePrefix + utils.FormatFileTimestamp(moment) + artifactNameSuffix
}
