// Package cli implements the edunova command line: the backend server and a
// client that logs in, browses content and tracks progress.
package cli

import (
	"edunova/config"
	"edunova/logging"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Every configuration flag is persistent so
// subcommands accept them in any position.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "edunova",
		Short: "edunova learning platform",
		Long: `edunova serves and browses a catalogue of course documents and videos.

Run 'edunova serve' to start the REST backend, or use the client commands
(login, documents, videos, progress ...) against the bundled fixtures
(--source=fixture) or a running backend (--source=remote).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newServeCmd(a))

	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newAccountsCmd(a))

	rootCmd.AddCommand(newDocumentsCmd(a))
	rootCmd.AddCommand(newVideosCmd(a))
	rootCmd.AddCommand(newSubjectsCmd(a))

	rootCmd.AddCommand(newSettingsCmd(a))
	rootCmd.AddCommand(newProgressCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}
