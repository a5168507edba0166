package utils

import (
	"time"
)

const fileTimestampLayout = "20060102150405"

// FormatFileTimestamp returns value in local time with second granularity and no separators,
// suitable for embedding in file names.
func FormatFileTimestamp(value time.Time) string {
	return value.In(time.Local).Format(fileTimestampLayout)
}
