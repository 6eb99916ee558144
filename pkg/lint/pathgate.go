package lint

import (
	"fmt"
	"strings"
)

// AllowedTopLevelDirs is the fixed set of directories a bundle file may live
// under. Anything else is rejected before it gets near the filesystem.
var AllowedTopLevelDirs = []string{"assets", "examples", "references", "scripts", "templates"}

const reservedName = "skill.md"

// CheckPath validates a single relative bundle path and returns every reason
// it is unacceptable, or nil if it passes. The reserved document name is its
// own short-circuit rejection: no other rule can redeem it.
func CheckPath(path string) []string {
	if strings.TrimSpace(path) == "" {
		return []string{"path is empty"}
	}

	lower := strings.ToLower(path)
	if lower == reservedName || strings.HasSuffix(lower, "/"+reservedName) {
		return []string{"SKILL.md is reserved for the generated document"}
	}

	var reasons []string
	if strings.HasPrefix(path, "/") {
		reasons = append(reasons, "path must be relative")
	}
	if strings.Contains(path, "..") {
		reasons = append(reasons, "path must not contain '..'")
	}
	if strings.Contains(path, `\`) {
		reasons = append(reasons, "path must use forward slashes")
	}

	first := path
	if i := strings.Index(path, "/"); i >= 0 {
		first = path[:i]
	}
	if !allowedTopLevel(first) {
		reasons = append(reasons, fmt.Sprintf("top-level directory must be one of: %s", strings.Join(AllowedTopLevelDirs, ", ")))
	}

	if base := path[strings.LastIndex(path, "/")+1:]; base == "" {
		reasons = append(reasons, "filename is empty")
	}

	return reasons
}

// PathAllowed reports whether a path passes the gate outright.
func PathAllowed(path string) bool {
	return len(CheckPath(path)) == 0
}

func allowedTopLevel(dir string) bool {
	for _, allowed := range AllowedTopLevelDirs {
		if dir == allowed {
			return true
		}
	}
	return false
}
