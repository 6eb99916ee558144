// Command skillsmith compiles, validates, and proposes changes to structured
// skill records and their supporting file bundles.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/presenter"
)

var out = presenter.New()

func init() {
	viper.SetEnvPrefix("SKILLSMITH")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillsmith")
	viper.AddConfigPath(".")

	// Config file is optional
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillsmith",
	Short: "Compile and validate skill records",
	Long: `Skillsmith manages structured skill records: it compiles them into
canonical SKILL.md documents, validates records and their file bundles, and
gates AI-proposed change-sets before they touch anything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		out.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func bindFlag(fs *pflag.FlagSet, key, name string) {
	viper.BindPFlag(key, fs.Lookup(name))
}

func main() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")

	bindFlag(flags, "log_level", "log-level")
	bindFlag(flags, "log_format", "log-format")
	bindFlag(flags, "quiet", "quiet")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(proposeCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		out.Error(err, "")
		os.Exit(1)
	}
}
