package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordPatch(t *testing.T) {
	t.Run("partial fields", func(t *testing.T) {
		cs := &ChangeSet{RecordPatch: map[string]any{
			"title":   "New Title",
			"steps":   []any{"one", "two", "three"},
			"summary": "better",
		}}

		patch, err := cs.DecodeRecordPatch()
		require.NoError(t, err)

		require.NotNil(t, patch.Title)
		assert.Equal(t, "New Title", *patch.Title)
		require.NotNil(t, patch.Steps)
		assert.Equal(t, []string{"one", "two", "three"}, *patch.Steps)
		assert.Nil(t, patch.Triggers)
		assert.Nil(t, patch.Guardrails)
	})

	t.Run("nested guardrails", func(t *testing.T) {
		cs := &ChangeSet{RecordPatch: map[string]any{
			"guardrails": map[string]any{
				"stop_conditions": []any{"tests fail"},
				"escalation":      "BLOCK",
			},
		}}

		patch, err := cs.DecodeRecordPatch()
		require.NoError(t, err)
		require.NotNil(t, patch.Guardrails)
		assert.Equal(t, EscalationBlock, patch.Guardrails.Escalation)
		assert.Equal(t, []string{"tests fail"}, patch.Guardrails.StopConditions)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		cs := &ChangeSet{RecordPatch: map[string]any{"slug": "nope"}}
		_, err := cs.DecodeRecordPatch()
		assert.Error(t, err)
	})

	t.Run("empty patch", func(t *testing.T) {
		cs := &ChangeSet{RecordPatch: map[string]any{}}
		patch, err := cs.DecodeRecordPatch()
		require.NoError(t, err)
		assert.Nil(t, patch.Title)
	})
}

func TestRecordPatchApply(t *testing.T) {
	base := Record{
		Title:   "Old",
		Slug:    "old-slug",
		Summary: "old summary",
		Steps:   []string{"a", "b", "c"},
	}

	title := "New"
	steps := []string{"x", "y", "z"}
	patch := &RecordPatch{Title: &title, Steps: &steps}

	updated := patch.Apply(base)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, []string{"x", "y", "z"}, updated.Steps)
	assert.Equal(t, "old summary", updated.Summary, "unpatched fields untouched")
	assert.Equal(t, "old-slug", updated.Slug, "slug is never patchable")

	assert.Equal(t, "Old", base.Title, "input record is not mutated")
	assert.Equal(t, []string{"a", "b", "c"}, base.Steps)
}
