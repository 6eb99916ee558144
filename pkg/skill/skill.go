// Package skill defines the structured skill record model: the unit that gets
// compiled into a SKILL.md document and shipped alongside its supporting file
// bundle. Records are owned by the storage layer; everything in this package
// is plain data that the compiler and validators read but never mutate.
package skill

// Escalation describes how a skill hands off to a human when a guardrail fires.
type Escalation string

const (
	// EscalationReview routes the outcome to a human for async review.
	EscalationReview Escalation = "REVIEW"
	// EscalationBlock stops the workflow outright.
	EscalationBlock Escalation = "BLOCK"
	// EscalationAskHuman pauses and asks a human before continuing.
	EscalationAskHuman Escalation = "ASK_HUMAN"
)

// IsValid reports whether e is one of the three known escalation modes.
func (e Escalation) IsValid() bool {
	switch e {
	case EscalationReview, EscalationBlock, EscalationAskHuman:
		return true
	}
	return false
}

// Guardrails captures the safety envelope of a skill.
type Guardrails struct {
	AllowedTools           []string   `yaml:"allowed_tools" json:"allowed_tools" mapstructure:"allowed_tools"`
	DisableModelInvocation bool       `yaml:"disable_model_invocation" json:"disable_model_invocation" mapstructure:"disable_model_invocation"`
	UserInvocable          bool       `yaml:"user_invocable" json:"user_invocable" mapstructure:"user_invocable"`
	StopConditions         []string   `yaml:"stop_conditions" json:"stop_conditions" mapstructure:"stop_conditions"`
	Escalation             Escalation `yaml:"escalation" json:"escalation" mapstructure:"escalation"`
}

// TestCase is a single acceptance check attached to a skill.
type TestCase struct {
	Name           string `yaml:"name" json:"name" mapstructure:"name"`
	Input          string `yaml:"input" json:"input" mapstructure:"input"`
	ExpectedOutput string `yaml:"expected_output" json:"expected_output" mapstructure:"expected_output"`
}

// Complete reports whether every field of the test case is populated.
func (tc TestCase) Complete() bool {
	return tc.Name != "" && tc.Input != "" && tc.ExpectedOutput != ""
}

// Record is a structured skill record as authored or stored.
type Record struct {
	Title      string     `yaml:"title" json:"title" mapstructure:"title"`
	Slug       string     `yaml:"slug" json:"slug" mapstructure:"slug"`
	Summary    string     `yaml:"summary" json:"summary" mapstructure:"summary"`
	Inputs     string     `yaml:"inputs" json:"inputs" mapstructure:"inputs"`
	Outputs    string     `yaml:"outputs" json:"outputs" mapstructure:"outputs"`
	Risks      string     `yaml:"risks" json:"risks" mapstructure:"risks"`
	Steps      []string   `yaml:"steps" json:"steps" mapstructure:"steps"`
	Triggers   []string   `yaml:"triggers" json:"triggers" mapstructure:"triggers"`
	Guardrails Guardrails `yaml:"guardrails" json:"guardrails" mapstructure:"guardrails"`
	Tests      []TestCase `yaml:"tests" json:"tests" mapstructure:"tests"`
}

// FileEntry is one supporting file in a skill's bundle. The set of entries for
// a record is an immutable snapshot per validation call.
type FileEntry struct {
	Path      string `yaml:"path" json:"path"`
	IsBinary  bool   `yaml:"is_binary" json:"is_binary"`
	SizeBytes int64  `yaml:"size_bytes" json:"size_bytes"`
	Content   []byte `yaml:"-" json:"-"`
}

// Paths returns the relative paths of entries, preserving input order.
func Paths(entries []FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}
