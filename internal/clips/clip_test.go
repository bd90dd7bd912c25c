package clips

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCount(t *testing.T) {
	tests := []struct {
		duration float64
		clip     int
		want     int
	}{
		{45, 60, 1},
		{59.99, 60, 1},
		{60, 60, 1},
		{60.01, 60, 2},
		{125, 60, 3},
		{180, 60, 3},
		{1, 1, 1},
		{0.5, 10, 1},
	}
	for _, tt := range tests {
		if got := Count(tt.duration, tt.clip); got != tt.want {
			t.Errorf("Count(%v, %d) = %d, want %d", tt.duration, tt.clip, got, tt.want)
		}
	}
}

func TestCountMatchesFormula(t *testing.T) {
	for _, clip := range []int{1, 7, 30, 60, 90} {
		for d := 0.25; d < 400; d += 3.7 {
			want := 1
			if d >= float64(clip) {
				want = int(math.Ceil(d / float64(clip)))
			}
			got := Count(d, clip)
			if got != want {
				t.Fatalf("Count(%v, %d) = %d, want %d", d, clip, got, want)
			}
			if got < 1 {
				t.Fatalf("Count(%v, %d) = %d, expected at least one clip", d, clip, got)
			}
		}
	}
}

func TestPlanSingleClip(t *testing.T) {
	specs := Plan(45, 60, "/out", ".mp4")
	if len(specs) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(specs))
	}
	s := specs[0]
	if s.Index != 1 || s.Start != 0 || s.Length != 60 {
		t.Errorf("unexpected spec: %+v", s)
	}
	if s.FileName != "Part 1.mp4" {
		t.Errorf("FileName = %q", s.FileName)
	}
	if s.OutputPath != filepath.Join("/out", "Part 1.mp4") {
		t.Errorf("OutputPath = %q", s.OutputPath)
	}
}

func TestPlanOffsetsAndNames(t *testing.T) {
	specs := Plan(125, 60, "out", ".mkv")
	if len(specs) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(specs))
	}

	prevEnd := 0.0
	for i, s := range specs {
		index := i + 1
		if s.Index != index {
			t.Errorf("clip %d: index %d", index, s.Index)
		}
		if want := float64((index - 1) * 60); s.Start != want {
			t.Errorf("clip %d: start %v, want %v", index, s.Start, want)
		}
		if s.Start < prevEnd {
			t.Errorf("clip %d overlaps previous clip", index)
		}
		prevEnd = s.Start + s.Length
		if want := FileName(index, ".mkv"); s.FileName != want {
			t.Errorf("clip %d: name %q, want %q", index, s.FileName, want)
		}
		// the final clip keeps the nominal length; ffmpeg truncates at end of stream
		if s.Length != 60 {
			t.Errorf("clip %d: length %v", index, s.Length)
		}
	}
	if specs[2].FileName != "Part 3.mkv" {
		t.Errorf("last name = %q", specs[2].FileName)
	}
}

func TestPlanIsPure(t *testing.T) {
	a := Plan(601.5, 30, "/tmp/x", ".mov")
	b := Plan(601.5, 30, "/tmp/x", ".mov")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Plan returned different results for identical input")
	}
}

func TestPlanRejectsNonPositiveClipLength(t *testing.T) {
	if specs := Plan(100, 0, "/out", ".mp4"); len(specs) != 0 {
		t.Fatalf("expected no clips, got %d", len(specs))
	}
}

func TestParseAspectRatio(t *testing.T) {
	tests := map[string]AspectRatio{
		"original":     AspectOriginal,
		"":             AspectOriginal,
		"Reels (9:16)": AspectReels,
		"9:16":         AspectReels,
		"SQUARE":       AspectSquare,
		"1x1":          AspectSquare,
	}
	for in, want := range tests {
		got, err := ParseAspectRatio(in)
		if err != nil {
			t.Fatalf("ParseAspectRatio(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseAspectRatio(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseAspectRatio("16:9"); err == nil {
		t.Error("expected error for unsupported ratio")
	}
}

func TestAspectRatioText(t *testing.T) {
	for _, a := range AspectRatios() {
		text, err := a.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back AspectRatio
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != a {
			t.Errorf("%v round-tripped to %v", a, back)
		}
	}
}

func TestVideoExtensions(t *testing.T) {
	want := []string{".mp4", ".mov", ".avi", ".mkv"}
	if len(VideoExtensions) != len(want) {
		t.Fatalf("VideoExtensions = %q, want %q", VideoExtensions, want)
	}
	for i, ext := range want {
		if VideoExtensions[i] != ext {
			t.Errorf("VideoExtensions[%d] = %q, want %q", i, VideoExtensions[i], ext)
		}
	}
}
