// Package compile turns a skill record and its bundle into the canonical
// SKILL.md document. Every function here is pure: the same inputs always
// produce a byte-identical artifact, which downstream packaging relies on.
package compile

import (
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength is the ceiling the downstream consumer enforces on the
// frontmatter description field.
const MaxDescriptionLength = 2048

// genericSummary stands in when a record has no usable summary text.
const genericSummary = "this skill's workflow applies"

// NormalizeSummary collapses whitespace and strips trailing sentence
// punctuation so the summary slots into the canonical sentence. An empty
// summary falls back to a fixed generic phrase.
func NormalizeSummary(summary string) string {
	s := strings.Join(strings.Fields(summary), " ")
	s = strings.TrimRight(s, ".!?,;:")
	s = strings.TrimSpace(s)
	if s == "" {
		return genericSummary
	}
	return s
}

// NormalizeTriggers collapses whitespace in each trigger, drops empties, and
// deduplicates on exact match keeping the first occurrence. Order is
// otherwise preserved.
func NormalizeTriggers(triggers []string) []string {
	seen := make(map[string]bool, len(triggers))
	out := make([]string, 0, len(triggers))
	for _, t := range triggers {
		t = strings.Join(strings.Fields(t), " ")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func baseSentence(summary string) string {
	return "This skill should be used when " + NormalizeSummary(summary) + "."
}

func withTriggers(base string, triggers []string) string {
	quoted := make([]string, len(triggers))
	for i, t := range triggers {
		quoted[i] = `"` + t + `"`
	}
	return base + " Trigger phrases include: " + strings.Join(quoted, ", ") + "."
}

// Description builds the canonical description sentence, packing in as many
// trigger phrases as fit under maxLen. Triggers are dropped greedily from the
// end until the sentence fits; if none fit, the bare sentence is truncated.
// The drop-from-the-end policy is a deterministic tie-break that round-trip
// checks depend on, so it must not be reordered.
func Description(summary string, triggers []string, maxLen int) string {
	base := baseSentence(summary)
	normalized := NormalizeTriggers(triggers)

	for n := len(normalized); n > 0; n-- {
		candidate := withTriggers(base, normalized[:n])
		if utf8.RuneCountInString(candidate) <= maxLen {
			return candidate
		}
	}
	return truncate(base, maxLen)
}

// DescriptionCandidate returns the untruncated description with every
// normalized trigger included, regardless of length. The record validator
// measures this candidate against the cap, not the possibly-shortened final
// description.
func DescriptionCandidate(summary string, triggers []string) string {
	base := baseSentence(summary)
	normalized := NormalizeTriggers(triggers)
	if len(normalized) == 0 {
		return base
	}
	return withTriggers(base, normalized)
}

func truncate(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
