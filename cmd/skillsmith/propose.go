package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/propose"
	"github.com/skillsmith/skillsmith/pkg/skill"
	"github.com/skillsmith/skillsmith/pkg/store"
)

type proposeConfig struct {
	Action   string
	Command  string
	Model    string
	MaxTurns int
	Timeout  time.Duration
	Retries  uint
	Apply    bool
	Ignore   []string
}

func newProposeConfig() *proposeConfig {
	return &proposeConfig{
		Action:   string(propose.ActionRevise),
		MaxTurns: propose.DefaultOptions().MaxTurns,
		Timeout:  propose.DefaultOptions().Timeout,
	}
}

func getProposeConfigFromFlags(cmd *cobra.Command) *proposeConfig {
	config := newProposeConfig()
	config.Action, _ = cmd.Flags().GetString("action")
	config.Command, _ = cmd.Flags().GetString("command")
	config.Model, _ = cmd.Flags().GetString("model")
	config.MaxTurns, _ = cmd.Flags().GetInt("max-turns")
	config.Timeout, _ = cmd.Flags().GetDuration("timeout")
	config.Retries, _ = cmd.Flags().GetUint("retries")
	config.Apply, _ = cmd.Flags().GetBool("apply")
	config.Ignore, _ = cmd.Flags().GetStringSlice("ignore")
	return config
}

var proposeCmd = &cobra.Command{
	Use:   "propose <dir> <instruction>",
	Short: "Ask the generation tool for a change-set and validate it",
	Long: `Propose invokes the external generation tool with the record, its file
index, and your instruction, then gates the proposed change-set. The tool
never touches the skill directory; only --apply does, and only after the
change-set passed every check.

Examples:
  skillsmith propose ./my-skill "tighten the stop conditions"
  skillsmith propose ./my-skill "add edge-case tests" --action expand-tests --apply`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getProposeConfigFromFlags(cmd)
		ctx := cmd.Context()
		dir, instruction := args[0], args[1]

		rec, err := skill.LoadRecordFromDir(dir)
		if err != nil {
			return err
		}

		dirStore := store.NewDirStore(dir, config.Ignore)
		files, err := dirStore.GetFileIndex(ctx, rec.Slug)
		if err != nil {
			return err
		}

		proposer := propose.New(propose.Options{
			Command:  config.Command,
			Model:    config.Model,
			MaxTurns: config.MaxTurns,
			Timeout:  config.Timeout,
		})

		// Retry is caller policy; the wrapper itself never retries.
		var cs *skill.ChangeSet
		err = retry.Do(
			func() error {
				var proposeErr error
				cs, proposeErr = proposer.ProposeChangeSet(ctx, rec, files, propose.Action(config.Action), instruction)
				return proposeErr
			},
			retry.Context(ctx),
			retry.Attempts(config.Retries+1),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			return err
		}

		showChangeSet(cs, files)

		if !config.Apply {
			out.Info("run again with --apply to write the file operations")
			return nil
		}
		if err := dirStore.ApplyChangeSet(ctx, rec.Slug, cs); err != nil {
			return err
		}
		out.Success(fmt.Sprintf("applied change-set %s", cs.ID))
		return nil
	},
}

func init() {
	defaults := newProposeConfig()
	proposeCmd.Flags().String("action", defaults.Action, "What to ask for: revise, expand-tests, or draft-files")
	proposeCmd.Flags().String("command", "", "Generation tool executable (default claude)")
	proposeCmd.Flags().String("model", "", "Model the tool should use")
	proposeCmd.Flags().Int("max-turns", defaults.MaxTurns, "Turn limit passed to the tool")
	proposeCmd.Flags().Duration("timeout", defaults.Timeout, "Kill the tool after this long")
	proposeCmd.Flags().Uint("retries", 0, "Retry failed invocations this many times")
	proposeCmd.Flags().Bool("apply", false, "Apply the file operations after validation")
	proposeCmd.Flags().StringSlice("ignore", nil, "Glob patterns for bundle files to skip")
}

func showChangeSet(cs *skill.ChangeSet, files []skill.FileEntry) {
	out.Section(fmt.Sprintf("change-set %s", cs.ID))
	if cs.Notes != "" {
		out.Info(cs.Notes)
	}

	if len(cs.RecordPatch) > 0 {
		patchJSON, err := json.MarshalIndent(cs.RecordPatch, "", "  ")
		if err == nil {
			out.Info("record patch:")
			out.Info(string(patchJSON))
		}
	}

	current := make(map[string]string, len(files))
	for _, f := range files {
		if !f.IsBinary {
			current[f.Path] = string(f.Content)
		}
	}

	for _, op := range cs.FileOps {
		switch {
		case op.Op == skill.FileOpDelete:
			out.Warning(fmt.Sprintf("delete %s", op.Path))
		case op.TextContent != nil:
			diff := udiff.Unified("a/"+op.Path, "b/"+op.Path, current[op.Path], *op.TextContent)
			out.Info(diff)
		default:
			out.Info(fmt.Sprintf("upsert %s (binary)", op.Path))
		}
	}
}
