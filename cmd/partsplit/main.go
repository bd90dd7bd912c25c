package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logFile string

	logCloser io.Closer
)

func main() {
	ctx := context.Background()

	err := rootCmd.ExecuteContext(ctx)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "partsplit",
	Short:         "partsplit - split a video into numbered parts",
	Long:          "Cut a video into fixed-length clips with ffmpeg, optionally reframed for Reels or square feeds and labelled \"Part N\".",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		closer, err := logging.Init(verbose, logFile)
		if err != nil {
			return err
		}
		logCloser = closer

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Error().Err(err).Str("path", cfgFile).Msg("failed to load config")
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./partsplit.yaml or ~/.partsplit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
