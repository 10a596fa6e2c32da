package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func NewRoot(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "doppel",
		Short: "Doppel replies to WhatsApp messages in the owner's own texting style",
	}

	root.AddCommand(newServeCommand(logger))
	root.AddCommand(newConvertCommand())
	root.AddCommand(newIngestCommand(logger))
	root.AddCommand(newStatsCommand())
	root.AddCommand(newClearCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
