package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skillsmith/skillsmith/pkg/skill"
)

// frontmatterDelimiter bounds the metadata block on both sides.
const frontmatterDelimiter = "---"

// frontmatterField keeps key order and conditional omission explicit instead
// of relying on map iteration.
type frontmatterField struct {
	key     string
	value   string
	include bool
}

// Render compiles a record plus an ordered list of bundle paths into the
// canonical document: frontmatter, title heading, then the fixed section
// order. Rendering the same inputs twice yields a byte-identical string.
func Render(rec *skill.Record, filePaths []string) string {
	var sb strings.Builder

	sb.WriteString(renderFrontmatter(rec))
	sb.WriteString("\n")
	sb.WriteString("# " + rec.Title + "\n")

	writeSection(&sb, "Purpose", strings.TrimSpace(rec.Summary))
	writeSection(&sb, "Inputs", strings.TrimSpace(rec.Inputs))
	writeSection(&sb, "Outputs", strings.TrimSpace(rec.Outputs))

	triggers := NormalizeTriggers(rec.Triggers)
	if len(triggers) > 0 {
		var b strings.Builder
		for _, t := range triggers {
			b.WriteString("- " + t + "\n")
		}
		writeSection(&sb, "Trigger phrases", strings.TrimRight(b.String(), "\n"))
	}

	var workflow strings.Builder
	for i, step := range rec.Steps {
		fmt.Fprintf(&workflow, "%d. %s\n", i+1, step)
	}
	writeSection(&sb, "Workflow", strings.TrimRight(workflow.String(), "\n"))

	writeSection(&sb, "Pitfalls", strings.TrimSpace(rec.Risks))
	writeSection(&sb, "Guardrails", renderGuardrails(&rec.Guardrails))
	writeSection(&sb, "Tests", renderTests(rec.Tests))

	if len(filePaths) > 0 {
		writeSection(&sb, "Supporting files", renderFileIndex(filePaths))
	}

	return sb.String()
}

func renderFrontmatter(rec *skill.Record) string {
	fields := []frontmatterField{
		{key: "name", value: rec.Slug, include: true},
		{key: "description", value: yamlQuote(Description(rec.Summary, rec.Triggers, MaxDescriptionLength)), include: true},
		{key: "allowed-tools", value: strings.Join(rec.Guardrails.AllowedTools, ", "), include: len(rec.Guardrails.AllowedTools) > 0},
		{key: "disable-model-invocation", value: fmt.Sprintf("%t", rec.Guardrails.DisableModelInvocation), include: true},
		{key: "user-invocable", value: fmt.Sprintf("%t", rec.Guardrails.UserInvocable), include: true},
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter + "\n")
	for _, f := range fields {
		if !f.include {
			continue
		}
		sb.WriteString(f.key + ": " + f.value + "\n")
	}
	sb.WriteString(frontmatterDelimiter + "\n")
	return sb.String()
}

func renderGuardrails(g *skill.Guardrails) string {
	var sb strings.Builder
	sb.WriteString("- Escalation: " + string(g.Escalation) + "\n")
	if len(g.AllowedTools) > 0 {
		sb.WriteString("- Allowed tools: " + strings.Join(g.AllowedTools, ", ") + "\n")
	} else {
		sb.WriteString("- Allowed tools: None\n")
	}
	fmt.Fprintf(&sb, "- User invocable: %t\n", g.UserInvocable)
	fmt.Fprintf(&sb, "- Disable model invocation: %t\n", g.DisableModelInvocation)
	sb.WriteString("- Stop conditions:\n")
	for _, cond := range g.StopConditions {
		sb.WriteString("  - " + cond + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTests(tests []skill.TestCase) string {
	var sb strings.Builder
	for i, tc := range tests {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### " + tc.Name + "\n\n")
		sb.WriteString("- Input: `" + tc.Input + "`\n")
		sb.WriteString("- Expected output: `" + tc.ExpectedOutput + "`\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderFileIndex groups bundle paths by top-level directory, both the groups
// and the files within each group sorted lexicographically. Each file is a
// link whose href is its own path, so the generated index can never reference
// a file outside the bundle.
func renderFileIndex(filePaths []string) string {
	groups := make(map[string][]string)
	for _, p := range filePaths {
		top := p
		if i := strings.Index(p, "/"); i >= 0 {
			top = p[:i]
		}
		groups[top] = append(groups[top], p)
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	for i, dir := range dirs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### " + dir + "\n\n")
		paths := groups[dir]
		sort.Strings(paths)
		for _, p := range paths {
			sb.WriteString("- [" + p + "](" + p + ")\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeSection(sb *strings.Builder, title, body string) {
	sb.WriteString("\n## " + title + "\n")
	if body != "" {
		sb.WriteString("\n" + body + "\n")
	}
}

// yamlQuote emits a double-quoted YAML scalar. The description routinely
// contains quotes and colons, so quoting unconditionally keeps the
// frontmatter parseable without depending on YAML plain-scalar rules.
func yamlQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
