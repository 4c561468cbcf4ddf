package colour

import (
	"strings"
	"testing"
)

func TestSwatch(t *testing.T) {
	got := Swatch(New(0x33, 0x66, 0xCC), 3)
	want := "\033[48;2;51;102;204m   \033[0m"
	if got != want {
		t.Errorf("Swatch() = %q, want %q", got, want)
	}

	if got := Swatch(Black, 0); !strings.Contains(got, strings.Repeat(" ", defaultWidth)) {
		t.Errorf("Swatch() with zero width = %q", got)
	}
}

func TestSwatchWithText(t *testing.T) {
	tests := []struct {
		name   string
		c      Color
		text   string
		wantFg string
		body   string
	}{
		{name: "dark background", c: New(0x10, 0x10, 0x40), text: "ab", wantFg: "38;2;255;255;255", body: "  ab  "},
		{name: "light background", c: New(0xF0, 0xF0, 0xC0), text: "ab", wantFg: "38;2;0;0;0", body: "  ab  "},
		{name: "truncated", c: Black, text: "abcdefgh", wantFg: "38;2;255;255;255", body: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SwatchWithText(tt.c, tt.text, 6)
			if !strings.Contains(got, tt.wantFg) {
				t.Errorf("SwatchWithText() = %q, want foreground %s", got, tt.wantFg)
			}
			if !strings.Contains(got, "m"+tt.body+ansiReset) {
				t.Errorf("SwatchWithText() = %q, want body %q", got, tt.body)
			}
		})
	}
}

func TestRelativeLuminance(t *testing.T) {
	if got := RelativeLuminance(Black); got != 0 {
		t.Errorf("RelativeLuminance(black) = %v", got)
	}
	if got := RelativeLuminance(White); got < 0.9999 || got > 1.0001 {
		t.Errorf("RelativeLuminance(white) = %v", got)
	}
	if RelativeLuminance(New(0, 255, 0)) <= RelativeLuminance(New(0, 0, 255)) {
		t.Error("green should be brighter than blue")
	}
}

func TestFormatWithLabel(t *testing.T) {
	got := FormatWithLabel(New(0xAB, 0xCD, 0xEF), "base", 2)
	if !strings.HasSuffix(got, "#ABCDEF") || !strings.Contains(got, "base") {
		t.Errorf("FormatWithLabel() = %q", got)
	}
}
