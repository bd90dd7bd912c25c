package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/internal/ffmpeg"
	"github.com/kikiluvv/partsplit/internal/gui"
	"github.com/kikiluvv/partsplit/internal/pipeline"
	"github.com/kikiluvv/partsplit/internal/tui"
	"github.com/kikiluvv/partsplit/pkg/util"
)

var (
	clipDuration int
	aspectName   string
	addLabel     bool
	plainOutput  bool
	interactive  bool
)

var splitCmd = &cobra.Command{
	Use:   "split [input video] [output folder]",
	Short: "Split a video into numbered clips",
	Long: `Split a video into clips of a fixed length named "Part 1", "Part 2", ...
With the original aspect ratio and no label the streams are copied; otherwise
the video is re-encoded through a filter graph and the audio is copied.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		req, err := requestFromFlags(cmd, cfg, args)
		if err != nil {
			return err
		}

		if interactive {
			req, err = tui.PromptRequest(req)
			if err != nil {
				return err
			}
		} else if len(args) != 2 {
			return fmt.Errorf("split needs an input video and an output folder (or --interactive)")
		}

		runner, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		var outcome pipeline.BatchOutcome
		if plainOutput || !isatty.IsTerminal(os.Stdout.Fd()) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			outcome = runner.Run(ctx, req, tui.NewPlainPrinter(os.Stdout, verbose))
		} else {
			// console log lines would tear the progress view
			if !verbose {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			outcome, err = tui.Run(cmd.Context(), runner, req, cfg.UI.PollInterval, cfg.UI.LogLines)
			if err != nil {
				return err
			}
		}

		if !outcome.OK() {
			return errors.New(outcome.Summary())
		}
		return nil
	},
}

// requestFromFlags builds a request from positional args, flags and config defaults
func requestFromFlags(cmd *cobra.Command, cfg *config.Config, args []string) (pipeline.Request, error) {
	req := pipeline.Request{
		Options: pipeline.SplitOptions{
			ClipDuration: cfg.Defaults.ClipDuration,
			Aspect:       cfg.Defaults.Aspect,
			AddLabel:     cfg.Defaults.AddLabel,
		},
	}
	if len(args) > 0 {
		req.InputPath = args[0]
	}
	if len(args) > 1 {
		req.OutputDir = args[1]
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		req.Options.ClipDuration = clipDuration
	}
	if flags.Changed("aspect") {
		aspect, err := clips.ParseAspectRatio(aspectName)
		if err != nil {
			return req, err
		}
		req.Options.Aspect = aspect
	}
	if flags.Changed("label") {
		req.Options.AddLabel = addLabel
	}

	return req, nil
}

var planCmd = &cobra.Command{
	Use:   "plan [input video] [output folder]",
	Short: "Show the clips and ffmpeg commands a split would run",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if len(args) == 1 {
			args = append(args, ".")
		}
		req, err := requestFromFlags(cmd, cfg, args)
		if err != nil {
			return err
		}

		runner, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		plan, err := runner.Plan(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %.2f seconds, %d clips of %d seconds\n",
			plan.Source.Path, plan.Source.Duration, len(plan.Clips), req.Options.ClipDuration)
		fmt.Fprintln(out, frameDescription(req.Options))
		fmt.Fprintln(out)
		for _, c := range plan.Clips {
			start := time.Duration(c.Spec.Start * float64(time.Second))
			mode := "re-encode"
			if c.Job.StreamCopy {
				mode = "stream copy"
			}
			fmt.Fprintf(out, "%-12s at %s  (%s)\n  %s\n", c.Spec.FileName, util.FormatClock(start), mode, c.CommandLine)
		}
		return nil
	},
}

// frameDescription says how clips are framed, e.g. "frame: 1080x1920 (Reels (9:16)), labelled"
func frameDescription(opts pipeline.SplitOptions) string {
	frame := "frame: source size"
	if canvas, ok := ffmpeg.CanvasFor(opts.Aspect); ok {
		frame = fmt.Sprintf("frame: %s (%s)", canvas, opts.Aspect.DisplayName())
	}
	if opts.AddLabel {
		frame += ", labelled"
	}
	return frame
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return gui.Run(ctx, log.Logger, config.FromContext(cmd.Context()))
	},
}

func init() {
	for _, c := range []*cobra.Command{splitCmd, planCmd} {
		c.Flags().IntVarP(&clipDuration, "duration", "d", 60, "clip length in seconds")
		c.Flags().StringVarP(&aspectName, "aspect", "a", "original", "aspect ratio: original, reels or square")
		c.Flags().BoolVarP(&addLabel, "label", "l", false, `burn "Part N" into each clip`)
	}
	splitCmd.Flags().BoolVar(&plainOutput, "plain", false, "print plain log lines instead of the progress view")
	splitCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the input, output and options")
}
