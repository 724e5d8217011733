package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subfetch/internal/config"
	"subfetch/internal/deps"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newDepsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			colorize := isatty.IsTerminal(os.Stdout.Fd())

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{
					status.Name,
					status.Command,
					availabilityLabel(status.Available, colorize),
					statusDetail(status),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Command", "Status", "Notes"}, rows))
			return deps.EnsureRequired(statuses)
		},
	}
}

func availabilityLabel(available, colorize bool) string {
	if available {
		if colorize {
			return ansiGreen + "OK" + ansiReset
		}
		return "OK"
	}
	if colorize {
		return ansiRed + "MISSING" + ansiReset
	}
	return "MISSING"
}

func statusDetail(status deps.Status) string {
	if status.Detail != "" {
		return status.Detail
	}
	return status.Description
}
