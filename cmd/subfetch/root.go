package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbosity int
	var qualityFlag string
	var logFormatFlag string

	rootCmd := &cobra.Command{
		Use:           "subfetch <url> <directory>",
		Short:         "Download a talk video and embed its transcript as subtitles",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0], args[1], runOptions{
				configPath: configFlag,
				verbosity:  verbosity,
				quality:    qualityFlag,
				logFormat:  logFormatFlag,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.Flags().StringVar(&qualityFlag, "quality", "", "Download link tier (hd or sd)")
	rootCmd.Flags().StringVar(&logFormatFlag, "log-format", "", "Log output format (console or json)")

	rootCmd.AddCommand(newDepsCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}
