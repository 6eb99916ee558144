package lint

import (
	"fmt"

	"github.com/skillsmith/skillsmith/pkg/compile"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

// LintPackage validates a record together with its bundle: record rules
// first, then the path gate over every bundled path, then a render of the
// document to confirm every relative link resolves to a bundled file.
//
// The generated supporting-files index links only to bundled paths, so the
// link cross-check can only fail on links the author typed into the free-text
// fields (inputs, outputs, risks) for files that were never uploaded.
func LintPackage(rec *skill.Record, filePaths []string) Result {
	errs := recordErrors(rec)

	for _, path := range filePaths {
		for _, reason := range CheckPath(path) {
			errs = append(errs, Error{Field: "files", Message: fmt.Sprintf("%s: %s", path, reason)})
		}
	}

	bundled := make(map[string]bool, len(filePaths))
	for _, path := range filePaths {
		bundled[path] = true
	}

	document := compile.Render(rec, filePaths)
	for _, link := range compile.ExtractLinks(document) {
		if !bundled[link] {
			errs = append(errs, Error{Field: "files", Message: fmt.Sprintf("missing file: %s", link)})
		}
	}

	return resultFrom(errs)
}
