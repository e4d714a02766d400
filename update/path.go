package update

import (
	"strings"

	"mongo-ops-generator/schema"
)

// JoinPath prefixes path with field using the path separator. No escaping is
// performed; field names never contain the separator.
func JoinPath(field, path string) string {
	if field == "" {
		return path
	}

	if path == "" {
		return field
	}

	return field + schema.PathSeparator + path
}

// head returns the first segment of path and whether more segments follow.
func head(path string) (string, bool) {
	first, _, more := strings.Cut(path, schema.PathSeparator)
	return first, more
}
