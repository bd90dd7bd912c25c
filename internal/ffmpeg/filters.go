package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/config"
)

// Arg is one filter option. Positional args have an empty Key.
type Arg struct {
	Key   string
	Value string
}

// Filter is a single filtergraph stage, e.g. scale or drawtext
type Filter struct {
	Name string
	Args []Arg
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if a.Key == "" {
			parts[i] = a.Value
		} else {
			parts[i] = a.Key + "=" + a.Value
		}
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []Filter
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]Filter, 0),
	}
}

// Scale adds a scale filter. fit is the force_original_aspect_ratio mode
// ("increase" to cover, "decrease" to fit); empty stretches.
func (fb *FilterBuilder) Scale(width, height int, fit string) *FilterBuilder {
	if width <= 0 || height <= 0 {
		// Return self without adding filter - allows chaining to continue
		return fb
	}
	f := Filter{Name: "scale", Args: []Arg{
		{"w", strconv.Itoa(width)},
		{"h", strconv.Itoa(height)},
	}}
	if fit != "" {
		f.Args = append(f.Args, Arg{"force_original_aspect_ratio", fit})
	}
	fb.filters = append(fb.filters, f)
	return fb
}

// Crop adds a centered crop filter
func (fb *FilterBuilder) Crop(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, Filter{Name: "crop", Args: []Arg{
		{"w", strconv.Itoa(width)},
		{"h", strconv.Itoa(height)},
	}})
	return fb
}

// BoxBlur adds a boxblur filter with a raw "radius:power" spec
func (fb *FilterBuilder) BoxBlur(spec string) *FilterBuilder {
	if spec == "" {
		return fb
	}
	fb.filters = append(fb.filters, Filter{Name: "boxblur", Args: []Arg{{"", spec}}})
	return fb
}

// Split duplicates the input stream
func (fb *FilterBuilder) Split() *FilterBuilder {
	fb.filters = append(fb.filters, Filter{Name: "split"})
	return fb
}

// OverlayCentered composites the second input over the middle of the first
func (fb *FilterBuilder) OverlayCentered() *FilterBuilder {
	fb.filters = append(fb.filters, Filter{Name: "overlay", Args: []Arg{
		{"", "(main_w-overlay_w)/2"},
		{"", "(main_h-overlay_h)/2"},
	}})
	return fb
}

// DrawText renders text horizontally centered at style.Y on a translucent box
func (fb *FilterBuilder) DrawText(text string, style LabelStyle) *FilterBuilder {
	fb.filters = append(fb.filters, Filter{Name: "drawtext", Args: []Arg{
		{"text", "'" + escapeDrawText(text) + "'"},
		{"fontsize", strconv.Itoa(style.FontSize)},
		{"fontcolor", style.FontColor},
		{"x", "(w-text_w)/2"},
		{"y", strconv.Itoa(style.Y)},
		{"box", "1"},
		{"boxcolor", style.BoxColor},
		{"boxborderw", strconv.Itoa(style.BoxBorder)},
	}})
	return fb
}

// Filters returns the accumulated stages
func (fb *FilterBuilder) Filters() []Filter {
	return fb.filters
}

// Chain wraps the accumulated stages with input and output pad labels
func (fb *FilterBuilder) Chain(inputs, outputs []string) Chain {
	return Chain{Inputs: inputs, Filters: fb.filters, Outputs: outputs}
}

func joinFilters(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// escapeDrawText protects characters that end or expand a quoted drawtext value
var drawTextEscaper = strings.NewReplacer(`\`, `\\`, `'`, `'\''`, `%`, `\%`)

func escapeDrawText(s string) string {
	return drawTextEscaper.Replace(s)
}

// Chain is a comma-separated run of filters with labelled input and output pads
type Chain struct {
	Inputs  []string
	Filters []Filter
	Outputs []string
}

func (c Chain) String() string {
	var b strings.Builder
	for _, in := range c.Inputs {
		b.WriteString("[" + in + "]")
	}
	b.WriteString(joinFilters(c.Filters))
	for _, out := range c.Outputs {
		b.WriteString("[" + out + "]")
	}
	return b.String()
}

// Graph is a semicolon-separated list of chains
type Graph struct {
	Chains []Chain
}

// Add appends a chain
func (g *Graph) Add(c Chain) *Graph {
	g.Chains = append(g.Chains, c)
	return g
}

// Then feeds the graph's final output into a new chain of filters. On an empty
// graph the filters become the only, unlabelled chain.
func (g *Graph) Then(label string, filters ...Filter) *Graph {
	if len(g.Chains) == 0 {
		return g.Add(Chain{Filters: filters})
	}
	last := &g.Chains[len(g.Chains)-1]
	last.Outputs = []string{label}
	return g.Add(Chain{Inputs: []string{label}, Filters: filters})
}

// Empty reports whether the graph has no stages
func (g *Graph) Empty() bool {
	return len(g.Chains) == 0
}

// Complex reports whether any stage splits a stream, which requires -filter_complex
func (g *Graph) Complex() bool {
	for _, c := range g.Chains {
		for _, f := range c.Filters {
			if f.Name == "split" {
				return true
			}
		}
	}
	return false
}

func (g *Graph) String() string {
	parts := make([]string, len(g.Chains))
	for i, c := range g.Chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// Canvas is the output frame size of a reframing mode
type Canvas struct {
	Width  int
	Height int
}

var canvases = map[clips.AspectRatio]Canvas{
	clips.AspectReels:  {Width: 1080, Height: 1920},
	clips.AspectSquare: {Width: 1080, Height: 1080},
}

// CanvasFor returns the target canvas of a mode; Original has none
func CanvasFor(aspect clips.AspectRatio) (Canvas, bool) {
	c, ok := canvases[aspect]
	return c, ok
}

// LabelStyle controls the look of the part label
type LabelStyle struct {
	FontSize  int
	FontColor string
	Y         int
	BoxColor  string
	BoxBorder int
}

// GraphStyle holds the tunables of generated graphs
type GraphStyle struct {
	Label LabelStyle
	Blur  string
}

// GraphStyleFromConfig maps the label and background sections of cfg
func GraphStyleFromConfig(cfg *config.Config) GraphStyle {
	return GraphStyle{
		Label: LabelStyle{
			FontSize:  cfg.Label.FontSize,
			FontColor: cfg.Label.FontColor,
			Y:         cfg.Label.Y,
			BoxColor:  cfg.Label.BoxColor,
			BoxBorder: cfg.Label.BoxBorder,
		},
		Blur: cfg.Background.Blur,
	}
}

// DefaultGraphStyle is GraphStyleFromConfig applied to the built-in config
func DefaultGraphStyle() GraphStyle {
	return GraphStyleFromConfig(config.Default())
}

// FilterGraph is the serialized graph for one clip. The zero value means no
// filtering at all, so streams can be copied.
type FilterGraph struct {
	Expr    string
	Complex bool
}

// IsNone reports whether the clip can be stream copied
func (g FilterGraph) IsNone() bool {
	return g.Expr == ""
}

// Flag is the ffmpeg option that takes Expr
func (g FilterGraph) Flag() string {
	if g.Complex {
		return "-filter_complex"
	}
	return "-vf"
}

// BuildFilterGraph derives the video graph for a clip:
//
//	original, no label  -> none
//	original, label     -> drawtext
//	reframe,  no label  -> split, blurred cover background, fitted foreground, overlay
//	reframe,  label     -> the reframe graph followed by drawtext
func BuildFilterGraph(aspect clips.AspectRatio, addLabel bool, clipIndex int, style GraphStyle) FilterGraph {
	g := &Graph{}

	if canvas, ok := CanvasFor(aspect); ok {
		g = reframeGraph(canvas, style.Blur)
	}

	if addLabel {
		label := NewFilterBuilder().DrawText(clips.Label(clipIndex), style.Label)
		g.Then("vid", label.Filters()...)
	}

	if g.Empty() {
		return FilterGraph{}
	}

	return FilterGraph{Expr: g.String(), Complex: g.Complex()}
}

// reframeGraph letterboxes the source onto canvas over a blurred, cropped copy of itself
func reframeGraph(canvas Canvas, blur string) *Graph {
	g := &Graph{}

	g.Add(NewFilterBuilder().
		Split().
		Chain([]string{"0:v"}, []string{"original", "copy"}))

	g.Add(NewFilterBuilder().
		Scale(canvas.Width, canvas.Height, "increase").
		Crop(canvas.Width, canvas.Height).
		BoxBlur(blur).
		Chain([]string{"copy"}, []string{"background"}))

	g.Add(NewFilterBuilder().
		Scale(canvas.Width, canvas.Height, "decrease").
		Chain([]string{"original"}, []string{"foreground"}))

	g.Add(NewFilterBuilder().
		OverlayCentered().
		Chain([]string{"background", "foreground"}, nil))

	return g
}

// String renders the canvas as WIDTHxHEIGHT
func (c Canvas) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}
