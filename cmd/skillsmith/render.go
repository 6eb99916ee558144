package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/compile"
	"github.com/skillsmith/skillsmith/pkg/lint"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

var renderCmd = &cobra.Command{
	Use:   "render <dir>",
	Short: "Compile a skill record into its canonical SKILL.md document",
	Long: `Render compiles the skill.yaml record and bundle file index into the
canonical document. The record must pass validation first; rendering an
invalid record would bake its defects into the artifact.

Examples:
  skillsmith render ./my-skill
  skillsmith render ./my-skill -o ./my-skill/SKILL.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")
		ignore, _ := cmd.Flags().GetStringSlice("ignore")

		dir := args[0]
		rec, err := skill.LoadRecordFromDir(dir)
		if err != nil {
			return err
		}
		entries, err := skill.CollectBundle(dir, ignore)
		if err != nil {
			return err
		}
		paths := skill.Paths(entries)

		if result := lint.LintPackage(rec, paths); !result.Valid && !force {
			for _, e := range result.Errors {
				out.Problem(e.Field, e.Message)
			}
			return errors.Errorf("record is invalid (%d problems); use --force to render anyway", len(result.Errors))
		}

		document := compile.Render(rec, paths)

		if output == "" {
			fmt.Fprint(cmd.OutOrStdout(), document)
			return nil
		}
		if err := os.WriteFile(output, []byte(document), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", output)
		}
		out.Success(fmt.Sprintf("wrote %s", output))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "Write the document to a file instead of stdout")
	renderCmd.Flags().Bool("force", false, "Render even when validation fails")
	renderCmd.Flags().StringSlice("ignore", nil, "Glob patterns for bundle files to skip")
}
