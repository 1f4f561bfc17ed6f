package commands

import (
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/buildinfo"
	"github.com/chapterbooks/chapterbooks/internal/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dir      string
	as       string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "chapterbooks",
		Short:   "Bank statement bookkeeping for chapter treasurers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := opts.logLevel
			if level == "" {
				level = "info"
			}
			logger, err := logging.New(cmd.ErrOrStderr(), level, "console")
			if err != nil {
				return err
			}
			cmd.SetContext(logging.WithContext(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "chapter directory")
	rootCmd.PersistentFlags().StringVar(&opts.as, "as", "", "roster name of the person running the command")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides chapterbooks.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newInboxCommand(opts),
		newExportCommand(opts),
		newRequestCommand(opts),
		newApproveCommand(opts),
		newRejectCommand(opts),
		newHistoryCommand(opts),
		newDashboardCommand(opts),
		newReportCommand(opts),
		newBalanceCommand(opts),
		newCommitteeCommand(opts),
		newMemberCommand(opts),
		newActivityCommand(opts),
	)

	return rootCmd
}
