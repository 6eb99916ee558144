package compile

import (
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)

// ExtractLinks scans a document for Markdown link targets, skipping absolute
// http(s) URLs. Targets come back in first-seen order with duplicates removed.
func ExtractLinks(document string) []string {
	matches := linkPattern.FindAllStringSubmatch(document, -1)

	seen := make(map[string]bool, len(matches))
	var targets []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" || seen[target] {
			continue
		}
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			continue
		}
		seen[target] = true
		targets = append(targets, target)
	}
	return targets
}
