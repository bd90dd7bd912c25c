package clips

import (
	"fmt"
	"strings"
)

// AspectRatio selects how clips are reframed
type AspectRatio int

const (
	AspectOriginal AspectRatio = iota // keep the source frame
	AspectReels                       // 9:16 portrait canvas
	AspectSquare                      // 1:1 canvas
)

// AspectRatios lists every supported mode in display order
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectOriginal, AspectReels, AspectSquare}
}

func (a AspectRatio) String() string {
	switch a {
	case AspectOriginal:
		return "original"
	case AspectReels:
		return "reels"
	case AspectSquare:
		return "square"
	default:
		return fmt.Sprintf("aspect(%d)", int(a))
	}
}

// DisplayName is the human label shown in pickers
func (a AspectRatio) DisplayName() string {
	switch a {
	case AspectReels:
		return "Reels (9:16)"
	case AspectSquare:
		return "Square (1:1)"
	default:
		return "Original"
	}
}

// ParseAspectRatio accepts the short name, the ratio or the display name
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "original":
		return AspectOriginal, nil
	case "reels", "9:16", "9x16", "reels (9:16)":
		return AspectReels, nil
	case "square", "1:1", "1x1", "square (1:1)":
		return AspectSquare, nil
	}
	return AspectOriginal, fmt.Errorf("unknown aspect ratio %q (want original, reels or square)", s)
}

// MarshalText implements encoding.TextMarshaler so the mode round-trips through YAML
func (a AspectRatio) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *AspectRatio) UnmarshalText(text []byte) error {
	v, err := ParseAspectRatio(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
