package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/internal/ffmpeg"
	"github.com/kikiluvv/partsplit/internal/logging"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "partsplit %s\n", version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that ffmpeg and ffprobe are installed and available.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Checking dependencies...")
		fmt.Fprintln(out)

		logger := logging.WithComponent("doctor")
		missing := map[string]bool{}
		for _, err := range ffmpeg.CheckTools(cfg.FFmpeg) {
			logger.Debug().Err(err).Msg("tool check failed")
			var depErr *ffmpeg.DependencyError
			if errors.As(err, &depErr) {
				missing[depErr.Name] = true
			}
		}

		for _, name := range []string{"ffmpeg", "ffprobe"} {
			if missing[name] {
				fmt.Fprintf(out, "✗ %s: NOT FOUND\n", name)
				fmt.Fprintf(out, "  Install from: %s\n", ffmpeg.FfmpegInstallURL)
			} else {
				fmt.Fprintf(out, "✓ %s: OK\n", name)
			}
		}

		fmt.Fprintln(out)
		if len(missing) > 0 {
			return errors.New("some dependencies are missing")
		}
		fmt.Fprintln(out, "All dependencies are installed!")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.FromContext(cmd.Context()).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "partsplit.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
