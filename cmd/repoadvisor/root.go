package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phobologic/repoadvisor/internal/rules"
)

var version = "dev"

var (
	verbose   bool
	rulesPath string

	logger  *zap.Logger
	ruleset *rules.Ruleset
)

var rootCmd = &cobra.Command{
	Use:   "repoadvisor",
	Short: "Extend-or-create advisor and guidance-document generator",
	Long: `repoadvisor builds a lightweight structural index of a codebase, scores
proposed changes against it to recommend extending existing code or
creating new code, and emits a tree of nearest-wins guidance documents
for coding agents.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return err
		}

		if rulesPath != "" {
			ruleset, err = rules.Load(rulesPath)
			if err != nil {
				return err
			}
		} else {
			ruleset = rules.Default()
		}
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("repoadvisor {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a rule configuration file (YAML)")
}
