package skill

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// FileOpKind is the kind of mutation a file operation performs.
type FileOpKind string

const (
	// FileOpUpsert creates or replaces a bundle file.
	FileOpUpsert FileOpKind = "upsert"
	// FileOpDelete removes a bundle file.
	FileOpDelete FileOpKind = "delete"
)

// FileOp is a single proposed file mutation inside a ChangeSet. For upserts
// exactly one of TextContent or BinaryContentBase64 must be set.
type FileOp struct {
	Op                  FileOpKind `json:"op"`
	Path                string     `json:"path"`
	Mime                string     `json:"mime,omitempty"`
	TextContent         *string    `json:"text_content,omitempty"`
	BinaryContentBase64 *string    `json:"binary_content_base64,omitempty"`
}

// ChangeSet is a proposed, not-yet-applied patch to a record plus file
// operations. It is produced by the proposal wrapper, checked by the
// change-set gate, and applied transactionally by the storage layer. Nothing
// in this module ever applies one.
type ChangeSet struct {
	ID          string         `json:"id,omitempty"`
	RecordPatch map[string]any `json:"record_patch"`
	FileOps     []FileOp       `json:"file_ops"`
	Notes       string         `json:"notes,omitempty"`
}

// RecordPatch is the typed view of a ChangeSet's record_patch object. Nil
// fields were absent from the patch and leave the stored value untouched.
type RecordPatch struct {
	Title      *string     `mapstructure:"title"`
	Summary    *string     `mapstructure:"summary"`
	Inputs     *string     `mapstructure:"inputs"`
	Outputs    *string     `mapstructure:"outputs"`
	Risks      *string     `mapstructure:"risks"`
	Steps      *[]string   `mapstructure:"steps"`
	Triggers   *[]string   `mapstructure:"triggers"`
	Guardrails *Guardrails `mapstructure:"guardrails"`
	Tests      *[]TestCase `mapstructure:"tests"`
}

// DecodeRecordPatch decodes the untyped record_patch object into a typed
// partial record. Unknown keys are rejected so a proposal cannot smuggle
// fields the record does not have (the slug is deliberately not patchable).
func (cs *ChangeSet) DecodeRecordPatch() (*RecordPatch, error) {
	patch := &RecordPatch{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      patch,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build patch decoder")
	}
	if err := decoder.Decode(cs.RecordPatch); err != nil {
		return nil, errors.Wrap(err, "failed to decode record patch")
	}
	return patch, nil
}

// Apply returns a copy of rec with the patch's populated fields overlaid.
// The receiver record is never mutated.
func (p *RecordPatch) Apply(rec Record) Record {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Summary != nil {
		rec.Summary = *p.Summary
	}
	if p.Inputs != nil {
		rec.Inputs = *p.Inputs
	}
	if p.Outputs != nil {
		rec.Outputs = *p.Outputs
	}
	if p.Risks != nil {
		rec.Risks = *p.Risks
	}
	if p.Steps != nil {
		rec.Steps = append([]string(nil), (*p.Steps)...)
	}
	if p.Triggers != nil {
		rec.Triggers = append([]string(nil), (*p.Triggers)...)
	}
	if p.Guardrails != nil {
		rec.Guardrails = *p.Guardrails
	}
	if p.Tests != nil {
		rec.Tests = append([]TestCase(nil), (*p.Tests)...)
	}
	return rec
}
