package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/lint"
	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

type lintConfig struct {
	RecordOnly bool
	Watch      bool
	Ignore     []string
}

func newLintConfig() *lintConfig {
	return &lintConfig{}
}

func getLintConfigFromFlags(cmd *cobra.Command) *lintConfig {
	config := newLintConfig()
	config.RecordOnly, _ = cmd.Flags().GetBool("record-only")
	config.Watch, _ = cmd.Flags().GetBool("watch")
	config.Ignore, _ = cmd.Flags().GetStringSlice("ignore")
	return config
}

var lintCmd = &cobra.Command{
	Use:   "lint <dir>...",
	Short: "Validate skill records and their file bundles",
	Long: `Lint loads each skill directory's skill.yaml record and supporting files,
then reports every rule violation. With --record-only the bundle is skipped.
With --watch the directories are re-linted whenever a file changes.

Examples:
  skillsmith lint ./my-skill
  skillsmith lint ./skills/* --record-only
  skillsmith lint ./my-skill --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getLintConfigFromFlags(cmd)
		if config.Watch {
			return watchAndLint(cmd.Context(), args, config)
		}
		return lintDirs(args, config)
	},
}

func init() {
	lintCmd.Flags().Bool("record-only", false, "Validate the record without its file bundle")
	lintCmd.Flags().Bool("watch", false, "Re-lint whenever files in the skill directories change")
	lintCmd.Flags().StringSlice("ignore", nil, "Glob patterns for bundle files to skip")
}

func lintDirs(dirs []string, config *lintConfig) error {
	var merr *multierror.Error
	for _, dir := range dirs {
		if err := lintDir(dir, config); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

func lintDir(dir string, config *lintConfig) error {
	rec, err := skill.LoadRecordFromDir(dir)
	if err != nil {
		return err
	}

	var result lint.Result
	if config.RecordOnly {
		result = lint.Lint(rec)
	} else {
		entries, err := skill.CollectBundle(dir, config.Ignore)
		if err != nil {
			return err
		}
		result = lint.LintPackage(rec, skill.Paths(entries))
	}

	if result.Valid {
		out.Success(fmt.Sprintf("%s: ok", dir))
		return nil
	}

	out.Info(fmt.Sprintf("%s:", dir))
	for _, e := range result.Errors {
		out.Problem(e.Field, e.Message)
	}
	return errors.Errorf("%s: %d problems", dir, len(result.Errors))
}

// watchAndLint re-lints on any change under the skill directories until the
// context is cancelled. Lint failures are reported but do not stop the watch.
func watchAndLint(ctx context.Context, dirs []string, config *lintConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	_ = lintDirs(dirs, config)
	out.Info("watching for changes...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			_ = lintDirs(dirs, config)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("watch error")
		}
	}
}
