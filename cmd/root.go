package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tracereplay/replay-cli/cmd/internal/cmderr"
	"github.com/tracereplay/replay-cli/cmd/internal/interfaces"
	"github.com/tracereplay/replay-cli/cmd/internal/replay"
	"github.com/tracereplay/replay-cli/printer"
	"github.com/tracereplay/replay-cli/util"
	"github.com/tracereplay/replay-cli/version"
)

var (
	debugFlag        bool
	verboseLevelFlag int
	plainOutputFlag  bool
)

var (
	rootCmd = &cobra.Command{
		Use:           "tracereplay",
		Short:         "Replay captured network traffic onto live interfaces.",
		Long:          "Replay the packets of a capture file onto one or two live network interfaces, with optional pacing, filtering and address rewriting.",
		Version:       version.CLIDisplayString(),
		SilenceErrors: true, // We print our own errors from subcommands in Execute function
		// Don't print usage after error, we only print help if we cannot
		// parse flags. See Execute below.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plainOutputFlag {
				printer.SwitchToPlain()
			}
		},
	}
)

func Execute() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		if _, isReplayErr := err.(cmderr.ReplayErr); !isReplayErr {
			// Print usage for CLI usage errors (e.g. missing arg) but not
			// for replay runtime errors (e.g. a write failure mid-run).
			cmd.Println(cmd.UsageString())
		}

		exitCode := 1
		var exitErr util.ExitError
		if isExitErr := errors.As(err, &exitErr); isExitErr {
			exitCode = exitErr.ExitCode
		}
		printer.Stderr.Errorf("%s\n", err)
		os.Exit(exitCode)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "If set, outputs detailed information for debugging.")
	rootCmd.PersistentFlags().MarkHidden("debug")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.PersistentFlags().IntVarP(&verboseLevelFlag, "verbose-level", "v", 0, "Per-packet debug verbosity; higher prints more.")
	rootCmd.PersistentFlags().MarkHidden("verbose-level")
	viper.BindPFlag("verbose-level", rootCmd.PersistentFlags().Lookup("verbose-level"))

	rootCmd.PersistentFlags().BoolVar(&plainOutputFlag, "plain", false, "Disable colored output.")

	rootCmd.AddCommand(replay.Cmd)
	rootCmd.AddCommand(interfaces.Cmd)
}
