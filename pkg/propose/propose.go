// Package propose wraps the external generation tool that drafts change-sets
// for a skill record. The tool is an untrusted collaborator: it runs as a
// constrained subprocess, its output is parsed defensively, and everything it
// proposes goes through the change-set gate before a caller sees it.
package propose

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/skillsmith/skillsmith/pkg/lint"
	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

// MaxPromptChars caps the prompt handed to the external tool. Over-long
// prompts are rejected before a process is ever spawned.
const MaxPromptChars = 8192

// resultField is the top-level stdout JSON field that must hold the payload.
const resultField = "result"

// Action names what the tool is being asked to do with the record.
type Action string

const (
	// ActionRevise rewrites record fields per the instruction.
	ActionRevise Action = "revise"
	// ActionExpandTests adds or strengthens test cases.
	ActionExpandTests Action = "expand-tests"
	// ActionDraftFiles drafts supporting files referenced by the record.
	ActionDraftFiles Action = "draft-files"
)

// sideEffectTools are the tool's built-in capabilities that must stay off:
// the proposal flow wants a change-set back, not edits on disk.
var sideEffectTools = []string{"Bash", "Edit", "Write", "NotebookEdit", "WebFetch", "WebSearch", "Task"}

// Options constrains a single tool invocation.
type Options struct {
	Command  string
	Model    string
	MaxTurns int
	Timeout  time.Duration
}

// DefaultOptions returns the stock invocation limits.
func DefaultOptions() Options {
	return Options{
		Command:  "claude",
		MaxTurns: 8,
		Timeout:  2 * time.Minute,
	}
}

// Proposer invokes the external tool and turns its output into a gated
// change-set.
type Proposer struct {
	runner ProcessRunner
	opts   Options
}

// New builds a Proposer with the real subprocess runner.
func New(opts Options) *Proposer {
	return NewWithRunner(ExecRunner{}, opts)
}

// NewWithRunner builds a Proposer with an injected runner; tests substitute
// one that returns canned output.
func NewWithRunner(runner ProcessRunner, opts Options) *Proposer {
	if opts.Command == "" {
		opts.Command = DefaultOptions().Command
	}
	return &Proposer{runner: runner, opts: opts}
}

// ProposeChangeSet asks the tool for a change-set addressing the action and
// instruction, then validates it with the change-set gate. Only a gated,
// valid change-set is ever returned; everything else is an error.
func (p *Proposer) ProposeChangeSet(ctx context.Context, rec *skill.Record, files []skill.FileEntry, action Action, instruction string) (*skill.ChangeSet, error) {
	prompt, err := buildPrompt(rec, files, action, instruction)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(prompt); n > MaxPromptChars {
		return nil, errors.Errorf("prompt is %d characters, limit is %d", n, MaxPromptChars)
	}

	args := buildArgs(prompt, p.opts)

	log := logger.G(ctx).WithField("action", string(action)).WithField("command", p.opts.Command)
	log.Debug("invoking generation tool")

	result, err := p.runner.Run(ctx, p.opts.Command, args, p.opts.Timeout)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, errors.Errorf("generation tool exited with status %d: %s", result.ExitCode, strings.TrimSpace(string(result.Stderr)))
	}

	cs, err := parseChangeSet(result.Stdout)
	if err != nil {
		return nil, err
	}

	if verdict := lint.ValidateChangeSet(cs); !verdict.Valid {
		msgs := make([]string, 0, len(verdict.Errors))
		for _, e := range verdict.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		return nil, errors.Errorf("tool produced an invalid change-set: %s", strings.Join(msgs, "; "))
	}

	cs.ID = uuid.NewString()
	log.WithField("changeset_id", cs.ID).Debug("change-set accepted")
	return cs, nil
}

// buildArgs assembles the subprocess argument vector: non-interactive, JSON
// output, built-in side effects disabled, turn and model limits applied. The
// prompt rides as the final positional argument, never through a shell.
func buildArgs(prompt string, opts Options) []string {
	args := []string{
		"--print",
		"--output-format", "json",
		"--disallowed-tools", strings.Join(sideEffectTools, ","),
	}
	if opts.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(opts.MaxTurns))
	}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	return append(args, prompt)
}

func buildPrompt(rec *skill.Record, files []skill.FileEntry, action Action, instruction string) (string, error) {
	if action == "" {
		return "", errors.New("action is required")
	}

	recordYAML, err := yaml.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize record")
	}

	schema, err := changeSetSchema()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are editing a structured skill record. Task: ")
	sb.WriteString(string(action))
	sb.WriteString(".\n")
	if instruction != "" {
		sb.WriteString("Instruction: " + instruction + "\n")
	}
	sb.WriteString("\nCurrent record:\n```yaml\n")
	sb.Write(recordYAML)
	sb.WriteString("```\n")

	if len(files) > 0 {
		sb.WriteString("\nCurrent bundle files:\n")
		for _, f := range files {
			fmt.Fprintf(&sb, "- %s (%d bytes", f.Path, f.SizeBytes)
			if f.IsBinary {
				sb.WriteString(", binary")
			}
			sb.WriteString(")\n")
		}
	}

	sb.WriteString("\nRespond with a single JSON object matching this schema:\n```json\n")
	sb.WriteString(schema)
	sb.WriteString("\n```\n")
	sb.WriteString("Do not modify the slug. Do not propose paths outside the allowed directories: ")
	sb.WriteString(strings.Join(lint.AllowedTopLevelDirs, ", "))
	sb.WriteString(".\n")

	return sb.String(), nil
}

// changeSetSchema generates the JSON schema the tool's payload must match.
func changeSetSchema() (string, error) {
	reflector := &jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&skill.ChangeSet{})
	data, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal change-set schema")
	}
	return string(data), nil
}

// parseChangeSet decodes the tool's stdout: one JSON object whose result
// field holds the change-set, itself JSON. Anything malformed is a parse
// failure, never a panic.
func parseChangeSet(stdout []byte) (*skill.ChangeSet, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(stdout, &outer); err != nil {
		return nil, errors.Wrap(err, "tool output is not a JSON object")
	}

	raw, ok := outer[resultField]
	if !ok {
		return nil, errors.Errorf("tool output has no %q field", resultField)
	}

	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrapf(err, "tool output field %q is not a string", resultField)
	}

	payload = stripCodeFence(payload)

	cs := &skill.ChangeSet{}
	if err := json.Unmarshal([]byte(payload), cs); err != nil {
		return nil, errors.Wrap(err, "tool payload is not a valid change-set")
	}
	return cs, nil
}

// stripCodeFence tolerates a payload the tool wrapped in a Markdown fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
