package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsmith/skillsmith/pkg/skill"
)

func validRecord() *skill.Record {
	return &skill.Record{
		Title:    "Deploy Helper",
		Slug:     "deploy-helper",
		Summary:  "you need to deploy safely",
		Steps:    []string{"Check CI status", "Tag the release", "Run the deploy script"},
		Triggers: []string{"deploy to prod", "ship it", "release now"},
		Guardrails: skill.Guardrails{
			UserInvocable:  true,
			StopConditions: []string{"CI is red"},
			Escalation:     skill.EscalationAskHuman,
		},
		Tests: []skill.TestCase{
			{Name: "happy path", Input: "deploy v1.2.3", ExpectedOutput: "deployed"},
		},
	}
}

func fields(errs []Error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestLintValidRecord(t *testing.T) {
	result := Lint(validRecord())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestLintIdempotent(t *testing.T) {
	rec := validRecord()
	rec.Slug = "Bad Slug"
	first := Lint(rec)
	second := Lint(rec)
	assert.Equal(t, first, second)
}

func TestLintRulesRunIndependently(t *testing.T) {
	rec := validRecord()
	rec.Triggers = []string{"a", "b"}
	rec.Steps = []string{"only", "two"}
	rec.Tests = nil

	result := Lint(rec)
	require.False(t, result.Valid)

	got := fields(result.Errors)
	assert.Contains(t, got, "triggers")
	assert.Contains(t, got, "steps")
	assert.Contains(t, got, "tests")
}

func TestLintSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"kebab", "deploy-helper", true},
		{"digits", "v2-deploy", true},
		{"empty", "", false},
		{"uppercase", "Deploy", false},
		{"spaces", "deploy helper", false},
		{"too long", strings.Repeat("a", 65), false},
		{"max length", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec.Slug = tt.slug
			result := Lint(rec)
			if tt.valid {
				assert.NotContains(t, fields(result.Errors), "slug")
			} else {
				assert.Contains(t, fields(result.Errors), "slug")
			}
		})
	}
}

func TestLintDescriptionMeasuresUntruncatedCandidate(t *testing.T) {
	rec := validRecord()
	rec.Triggers = []string{strings.Repeat("a", 900), strings.Repeat("b", 900), strings.Repeat("c", 900)}

	// The compiled description would shorten itself under the cap, but the
	// full candidate is over budget and that is what the rule measures.
	result := Lint(rec)
	assert.Contains(t, fields(result.Errors), "description")
}

func TestLintDescriptionSkippedBelowTriggerMinimum(t *testing.T) {
	rec := validRecord()
	rec.Triggers = []string{strings.Repeat("a", 5000)}

	result := Lint(rec)
	got := fields(result.Errors)
	assert.Contains(t, got, "triggers")
	assert.NotContains(t, got, "description")
}

func TestLintSteps(t *testing.T) {
	tests := []struct {
		name  string
		count int
		valid bool
	}{
		{"too few", 2, false},
		{"minimum", 3, true},
		{"maximum", 7, true},
		{"too many", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec.Steps = make([]string, tt.count)
			for i := range rec.Steps {
				rec.Steps[i] = "step"
			}
			result := Lint(rec)
			if tt.valid {
				assert.NotContains(t, fields(result.Errors), "steps")
			} else {
				assert.Contains(t, fields(result.Errors), "steps")
			}
		})
	}
}

func TestLintTestsRequireOneCompleteCase(t *testing.T) {
	rec := validRecord()
	rec.Tests = []skill.TestCase{{Name: "incomplete", Input: "x"}}
	assert.Contains(t, fields(Lint(rec).Errors), "tests")

	rec.Tests = append(rec.Tests, skill.TestCase{Name: "full", Input: "x", ExpectedOutput: "y"})
	assert.NotContains(t, fields(Lint(rec).Errors), "tests")
}

func TestLintGuardrails(t *testing.T) {
	t.Run("missing stop conditions", func(t *testing.T) {
		rec := validRecord()
		rec.Guardrails.StopConditions = nil
		assert.Contains(t, fields(Lint(rec).Errors), "guardrails.stop_conditions")
	})

	t.Run("unknown escalation", func(t *testing.T) {
		rec := validRecord()
		rec.Guardrails.Escalation = "PANIC"
		assert.Contains(t, fields(Lint(rec).Errors), "guardrails.escalation")
	})

	t.Run("bad tool pattern", func(t *testing.T) {
		rec := validRecord()
		rec.Guardrails.AllowedTools = []string{"[unclosed"}
		assert.Contains(t, fields(Lint(rec).Errors), "guardrails.allowed_tools")
	})
}

func TestLintErrorOrderIsStable(t *testing.T) {
	rec := validRecord()
	rec.Slug = ""
	rec.Triggers = nil
	rec.Steps = nil
	rec.Tests = nil
	rec.Guardrails.StopConditions = nil
	rec.Guardrails.Escalation = ""

	result := Lint(rec)
	assert.Equal(t, []string{"slug", "triggers", "steps", "tests", "guardrails.stop_conditions", "guardrails.escalation"}, fields(result.Errors))
}
