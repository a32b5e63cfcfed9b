package helpers

import "strings"

// ParseReportPath parses a report destination in the format "local[:remote]".
// Without a colon the path is local only.
func ParseReportPath(path string) (local, remote string) {
	local, remote, _ = strings.Cut(path, ":")
	return strings.TrimSpace(local), strings.TrimSpace(remote)
}
