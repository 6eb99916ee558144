// Package lint applies the business rules a skill record and its bundle must
// satisfy before the compiled document is allowed to ship. Verdicts are
// structured error lists, never Go errors: an invalid record is an expected
// outcome the caller shows to the author, not a failure.
package lint

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"github.com/skillsmith/skillsmith/pkg/compile"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

const (
	// MinTriggers is the fewest trigger phrases a record may carry.
	MinTriggers = 3
	// MinSteps and MaxSteps bound the workflow length.
	MinSteps = 3
	MaxSteps = 7
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// Error is a single field-tagged validation failure.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is a validator verdict: the ordered error list and a validity flag
// that is true exactly when the list is empty.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors"`
}

func resultFrom(errs []Error) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// rule checks one record property and returns zero or one error. Rules run
// independently in declaration order so every simultaneous failure is
// reported and the output order is stable.
type rule func(*skill.Record) *Error

var recordRules = []rule{
	checkSlug,
	checkTriggers,
	checkDescriptionLength,
	checkSteps,
	checkTests,
	checkStopConditions,
	checkEscalation,
	checkAllowedToolPatterns,
}

// Lint validates a record on its own, without its file bundle.
func Lint(rec *skill.Record) Result {
	return resultFrom(recordErrors(rec))
}

func recordErrors(rec *skill.Record) []Error {
	var errs []Error
	for _, check := range recordRules {
		if e := check(rec); e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

func checkSlug(rec *skill.Record) *Error {
	if !slugPattern.MatchString(rec.Slug) {
		return &Error{Field: "slug", Message: "must be 1-64 lowercase letters, digits, or hyphens"}
	}
	return nil
}

func checkTriggers(rec *skill.Record) *Error {
	if len(rec.Triggers) < MinTriggers {
		return &Error{Field: "triggers", Message: fmt.Sprintf("at least %d trigger phrases are required, got %d", MinTriggers, len(rec.Triggers))}
	}
	return nil
}

// checkDescriptionLength measures the untruncated description candidate,
// with every trigger included, against the cap. The final description would
// shrink itself to fit, but a record whose full candidate is over budget is
// still a defect the author should fix.
func checkDescriptionLength(rec *skill.Record) *Error {
	if len(rec.Triggers) < MinTriggers {
		return nil
	}
	candidate := compile.DescriptionCandidate(rec.Summary, rec.Triggers)
	if n := utf8.RuneCountInString(candidate); n > compile.MaxDescriptionLength {
		return &Error{Field: "description", Message: fmt.Sprintf("compiled description would be %d characters, limit is %d", n, compile.MaxDescriptionLength)}
	}
	return nil
}

func checkSteps(rec *skill.Record) *Error {
	if len(rec.Steps) < MinSteps || len(rec.Steps) > MaxSteps {
		return &Error{Field: "steps", Message: fmt.Sprintf("workflow must have %d-%d steps, got %d", MinSteps, MaxSteps, len(rec.Steps))}
	}
	return nil
}

func checkTests(rec *skill.Record) *Error {
	for _, tc := range rec.Tests {
		if tc.Complete() {
			return nil
		}
	}
	return &Error{Field: "tests", Message: "at least one fully-populated test case is required"}
}

func checkStopConditions(rec *skill.Record) *Error {
	if len(rec.Guardrails.StopConditions) < 1 {
		return &Error{Field: "guardrails.stop_conditions", Message: "at least one stop condition is required"}
	}
	return nil
}

func checkEscalation(rec *skill.Record) *Error {
	if !rec.Guardrails.Escalation.IsValid() {
		return &Error{Field: "guardrails.escalation", Message: fmt.Sprintf("must be one of %s, %s, %s", skill.EscalationReview, skill.EscalationBlock, skill.EscalationAskHuman)}
	}
	return nil
}

func checkAllowedToolPatterns(rec *skill.Record) *Error {
	for _, pattern := range rec.Guardrails.AllowedTools {
		if _, err := glob.Compile(pattern); err != nil {
			return &Error{Field: "guardrails.allowed_tools", Message: fmt.Sprintf("invalid tool pattern %q", pattern)}
		}
	}
	return nil
}
