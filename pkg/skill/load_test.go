package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordYAML = `title: Deploy Helper
slug: deploy-helper
summary: you need to deploy safely
steps:
  - Check CI status
  - Tag the release
  - Run the deploy script
triggers:
  - deploy to prod
  - ship it
  - release now
guardrails:
  allowed_tools:
    - Bash
  disable_model_invocation: false
  user_invocable: true
  stop_conditions:
    - CI is red
  escalation: ASK_HUMAN
tests:
  - name: happy path
    input: deploy v1.2.3
    expected_output: deployed
`

func writeSkillDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), []byte(recordYAML), 0o644))
	return dir
}

func TestLoadRecord(t *testing.T) {
	dir := writeSkillDir(t)

	rec, err := LoadRecordFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "Deploy Helper", rec.Title)
	assert.Equal(t, "deploy-helper", rec.Slug)
	assert.Len(t, rec.Steps, 3)
	assert.Equal(t, EscalationAskHuman, rec.Guardrails.Escalation)
	assert.True(t, rec.Guardrails.UserInvocable)
	require.Len(t, rec.Tests, 1)
	assert.True(t, rec.Tests[0].Complete())
}

func TestLoadRecordRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	content := "title: X\nslug: x\nbogus_field: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), []byte(content), 0o644))

	_, err := LoadRecordFromDir(dir)
	assert.Error(t, err)
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := LoadRecordFromDir(t.TempDir())
	assert.Error(t, err)
}

func TestCollectBundle(t *testing.T) {
	dir := writeSkillDir(t)

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("scripts/deploy.sh", "#!/bin/sh\n")
	write("references/runbook.md", "# Runbook\n")
	write("references/a.md", "a\n")
	write("SKILL.md", "generated\n")
	write(".git/config", "hidden\n")

	entries, err := CollectBundle(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"references/a.md", "references/runbook.md", "scripts/deploy.sh"}, Paths(entries))
	for _, e := range entries {
		assert.False(t, e.IsBinary)
		assert.Equal(t, int64(len(e.Content)), e.SizeBytes)
	}
}

func TestCollectBundleIgnorePatterns(t *testing.T) {
	dir := writeSkillDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "deploy.sh"), []byte("#!/bin/sh\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "notes.md"), []byte("notes\n"), 0o644))

	entries, err := CollectBundle(dir, []string{"**/*.sh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"scripts/notes.md"}, Paths(entries))
}

func TestCollectBundleDetectsBinary(t *testing.T) {
	dir := writeSkillDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "blob.bin"), []byte{0x89, 0x50, 0x00, 0x47}, 0o644))

	entries, err := CollectBundle(dir, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsBinary)
}
