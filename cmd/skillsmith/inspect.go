package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/compile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <SKILL.md>",
	Short: "Read the frontmatter out of a compiled document",
	Long: `Inspect parses an existing compiled document and reports its metadata:
name, description, tool allowances, and invocation flags. Useful for checking
documents produced by other tooling against the expected shape.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", args[0])
		}

		meta, body, err := compile.ParseDocument(string(content))
		if err != nil {
			return err
		}

		out.Section(meta.Name)
		out.Info(fmt.Sprintf("description: %s", meta.Description))
		if meta.AllowedTools != "" {
			out.Info(fmt.Sprintf("allowed-tools: %s", meta.AllowedTools))
		}
		out.Info(fmt.Sprintf("disable-model-invocation: %t", meta.DisableModelInvocation))
		out.Info(fmt.Sprintf("user-invocable: %t", meta.UserInvocable))
		out.Info(fmt.Sprintf("body: %d bytes, %d relative links", len(body), len(compile.ExtractLinks(body))))
		return nil
	},
}
