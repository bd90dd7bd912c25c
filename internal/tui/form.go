package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/pipeline"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// formValues holds the string-bound fields of the option form
type formValues struct {
	Input    string
	Output   string
	Duration string
	Aspect   clips.AspectRatio
	Label    bool
}

// theme returns a huh theme matching the progress box palette
func theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(colorFocus).
		PaddingLeft(1)
	t.Focused.Title = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorMuted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(colorHeader)
	t.Focused.SelectSelector = lipgloss.NewStyle().SetString("▸ ").Foreground(colorInfo)
	t.Focused.Option = lipgloss.NewStyle().Foreground(colorText)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colorInfo)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(colorInfo)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(colorText)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(colorText).Background(colorFocus).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}

// NewSplitForm builds the option form. Fields start from defaults and are
// written back into values on submit.
func NewSplitForm(values *formValues) *huh.Form {
	aspects := make([]huh.Option[clips.AspectRatio], 0, len(clips.AspectRatios()))
	for _, a := range clips.AspectRatios() {
		aspects = append(aspects, huh.NewOption(a.DisplayName(), a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Split video").Description("Cut a video into numbered parts"),

			huh.NewInput().
				Title("Video file").
				Description(strings.Join(clips.VideoExtensions, " ")).
				Value(&values.Input).
				Validate(validateInput),

			huh.NewInput().
				Title("Output folder").
				Description("Created if missing").
				Value(&values.Output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output folder is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Clip duration").
				Description("Seconds per part").
				Value(&values.Duration).
				Validate(validateDuration),

			huh.NewSelect[clips.AspectRatio]().
				Title("Aspect ratio").
				Options(aspects...).
				Value(&values.Aspect),

			huh.NewConfirm().
				Title("Add part labels").
				Description(`Burn "Part N" into each clip`).
				Value(&values.Label),
		),
	).WithTheme(theme())
}

func validateInput(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("video file is required")
	}
	if !util.FileExists(s) {
		return fmt.Errorf("file not found: %s", s)
	}
	return nil
}

func validateDuration(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("clip duration must be a whole number of seconds")
	}
	if n <= 0 {
		return errors.New("clip duration must be a positive number")
	}
	return nil
}

// PromptRequest asks for a request interactively, prefilled from defaults
func PromptRequest(defaults pipeline.Request) (pipeline.Request, error) {
	values := &formValues{
		Input:    defaults.InputPath,
		Output:   defaults.OutputDir,
		Duration: strconv.Itoa(defaults.Options.ClipDuration),
		Aspect:   defaults.Options.Aspect,
		Label:    defaults.Options.AddLabel,
	}

	if err := NewSplitForm(values).Run(); err != nil {
		return pipeline.Request{}, err
	}

	return values.request()
}

func (v *formValues) request() (pipeline.Request, error) {
	duration, err := strconv.Atoi(strings.TrimSpace(v.Duration))
	if err != nil {
		return pipeline.Request{}, &pipeline.ValidationError{Field: "clip duration", Reason: "must be a whole number of seconds"}
	}

	return pipeline.Request{
		InputPath: strings.TrimSpace(v.Input),
		OutputDir: strings.TrimSpace(v.Output),
		Options: pipeline.SplitOptions{
			ClipDuration: duration,
			Aspect:       v.Aspect,
			AddLabel:     v.Label,
		},
	}, nil
}
