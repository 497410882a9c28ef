package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/chatlog/internal/app"
	"github.com/five82/chatlog/internal/chatlog"
)

// CommandType selects what main runs.
type CommandType int

// Command type values
const (
	CommandView CommandType = iota
	CommandExport
	CommandVersion
	CommandHelp
)

// Options contains the parsed command-line arguments.
type Options struct {
	Type   CommandType
	View   app.Options
	Export app.ExportOptions
}

// Parse parses command-line args into Options.
func Parse(args []string) (*Options, error) {
	result := &Options{Type: CommandView}

	root := buildRootCommand(result)
	root.AddCommand(
		buildExportCommand(result),
		buildVersionCommand(result),
	)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	// Persistent flags are shared by the viewer and export.
	result.Export.ConfigPath = result.View.ConfigPath
	result.Export.PrefsPath = result.View.PrefsPath
	result.Export.Endpoint = result.View.Endpoint
	return result, nil
}

// buildRootCommand creates the root command, which runs the viewer.
func buildRootCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatlog",
		Short: "Terminal viewer for a chatlog JSON endpoint",
		Long: `chatlog polls a chatlog JSON endpoint and shows the newest entries,
keeping at most the configured number of lines on screen.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandView
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&result.View.ConfigPath, "config", "", "config file path (default ~/.config/chatlog/config.toml)")
	flags.StringVar(&result.View.PrefsPath, "prefs", "", "preferences file path (default ~/.config/chatlog/prefs.toml)")
	flags.StringVarP(&result.View.Endpoint, "endpoint", "e", "", "chatlog endpoint, host:port or URL")
	cmd.Flags().IntVarP(&result.View.PollEvery, "poll", "p", 0, "refresh interval in seconds (default from config)")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// buildExportCommand creates the export subcommand
func buildExportCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current chatlog to a file or stdout",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandExport
		},
	}

	cmd.Flags().StringVarP(&result.Export.Format, "format", "f", chatlog.FormatText, "output format: text or json")
	cmd.Flags().StringVarP(&result.Export.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&result.Export.Lines, "lines", "n", 0, "number of entries (default from prefs)")

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
