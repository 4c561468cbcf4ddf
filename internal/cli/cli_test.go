// Package cli_test exercises the bandtint commands against the simulator.
package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/bandtint/internal/cli"
	"github.com/jmylchreest/bandtint/internal/config"
	"github.com/jmylchreest/bandtint/internal/hardware"
	imgutil "github.com/jmylchreest/bandtint/internal/image"
	"github.com/jmylchreest/bandtint/internal/theme"
)

// setupTests isolates config, simulator state and caches in a temp directory.
func setupTests(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{config.EnvAdapter, config.EnvDevice, config.EnvHardwareVersion, config.EnvPluginDir} {
		t.Setenv(k, "")
	}
	return dir
}

// run executes one bandtint invocation and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("bandtint %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	setupTests(t)
	if out := mustRun(t, "version"); !strings.Contains(out, "bandtint version") {
		t.Errorf("version output = %q", out)
	}
}

func TestHardwareCommand(t *testing.T) {
	setupTests(t)

	t.Run("SimulatorDefault", func(t *testing.T) {
		out := mustRun(t, "hardware")
		for _, want := range []string{"Band2", "Connection:      Unknown", "310x102, 310x128", "Default Me Tile: 310x128"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("FlagOverridesEnv", func(t *testing.T) {
		t.Setenv(config.EnvHardwareVersion, "26")
		out := mustRun(t, "hardware", "--hardware-version", "13")
		if !strings.Contains(out, "Revision:        Band\n") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv(config.EnvHardwareVersion, "13")
		out := mustRun(t, "hardware", "--json")
		var caps struct {
			Revision string `json:"revision"`
		}
		if err := json.Unmarshal([]byte(out), &caps); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if caps.Revision != "Band" {
			t.Errorf("revision = %q, want Band", caps.Revision)
		}
	})
}

func TestThemePresets(t *testing.T) {
	setupTests(t)

	out := mustRun(t, "theme", "presets", "--revision", "band")
	if !strings.Contains(out, "Lime") || strings.Contains(out, "Coral") {
		t.Errorf("Band presets output:\n%s", out)
	}

	if _, err := run(t, "theme", "presets", "--revision", "Band3"); err == nil {
		t.Error("expected error for unknown revision")
	}
}

func TestThemeSetAndGet(t *testing.T) {
	setupTests(t)

	t.Run("Preset", func(t *testing.T) {
		preset, ok := theme.LookupPreset(hardware.Band2, "Electric")
		if !ok {
			t.Fatal("Electric preset missing")
		}
		mustRun(t, "theme", "set", "--preset", "electric")

		var got theme.RGBColorTheme
		if err := json.Unmarshal([]byte(mustRun(t, "theme", "get", "--json")), &got); err != nil {
			t.Fatal(err)
		}
		if got != preset.Theme {
			t.Errorf("theme = %+v, want %+v", got, preset.Theme)
		}
	})

	t.Run("FromBaseWithOverride", func(t *testing.T) {
		mustRun(t, "theme", "set", "--from-base", "#3366CC", "--muted", "010203")
		out := mustRun(t, "theme", "get")
		for _, want := range []string{"#3366CC", "#010203", "secondary-text"} {
			if !strings.Contains(out, want) {
				t.Errorf("theme get missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Adjust", func(t *testing.T) {
		mustRun(t, "theme", "set", "--base", "#3366CC")
		if _, err := run(t, "theme", "adjust"); err == nil {
			t.Error("adjust without --luminance should fail")
		}
		mustRun(t, "theme", "adjust", "--luminance", "0.1")
		if out := mustRun(t, "theme", "get"); !strings.Contains(out, "#4D80E6") {
			t.Errorf("adjusted theme:\n%s", out)
		}
	})

	t.Run("RecordFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "theme.json")
		mustRun(t, "theme", "set", "--preset", "Teal")
		mustRun(t, "theme", "get", "--output", path, "--title", "  teal  ")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var record theme.Record
		if err := json.Unmarshal(data, &record); err != nil {
			t.Fatal(err)
		}
		if record.Title != "teal" {
			t.Errorf("title = %q", record.Title)
		}

		mustRun(t, "theme", "set", "--preset", "Coral")
		mustRun(t, "theme", "set", "--file", path)
		var got theme.RGBColorTheme
		if err := json.Unmarshal([]byte(mustRun(t, "theme", "get", "--json")), &got); err != nil {
			t.Fatal(err)
		}
		if got != record.Theme() {
			t.Errorf("theme = %+v, want %+v", got, record.Theme())
		}
	})

	t.Run("Errors", func(t *testing.T) {
		wide := filepath.Join(t.TempDir(), "wide.json")
		if err := os.WriteFile(wide, []byte(`{"title":"wide","base":33488896}`), 0o600); err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			args []string
		}{
			{name: "two sources", args: []string{"theme", "set", "--preset", "Teal", "--from-base", "#000"}},
			{name: "unknown preset", args: []string{"theme", "set", "--preset", "Nope"}},
			{name: "bad colour", args: []string{"theme", "set", "--base", "#12345"}},
			{name: "missing record", args: []string{"theme", "set", "--file", "/nonexistent/theme.json"}},
			{name: "record colour wider than 24 bits", args: []string{"theme", "set", "--file", wide}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := run(t, tt.args...); err == nil {
					t.Errorf("bandtint %v: expected error", tt.args)
				}
			})
		}
	})
}

func TestUnknownAdapter(t *testing.T) {
	setupTests(t)
	_, err := run(t, "theme", "get", "--adapter", "carrier-pigeon")
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("error = %v", err)
	}
}

func TestColourConvert(t *testing.T) {
	setupTests(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "hex to hsv", args: []string{"#3366CC"}, want: []string{"hex: #3366CC", "hsv: 220,0.75,0.8"}},
		{name: "hsv to hex", args: []string{"0,1,1"}, want: []string{"hex: #FF0000"}},
		{name: "luminance", args: []string{"#3366CC", "--luminance", "0.1"}, want: []string{"hex: #4D80E6"}},
		{name: "short hex", args: []string{"fff"}, want: []string{"hex: #FFFFFF", "hsv: 0,0,1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, append([]string{"colour", "convert"}, tt.args...)...)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := run(t, "colour", "convert", "#GGGGGG"); err == nil {
		t.Error("expected error for invalid colour")
	}
	if _, err := run(t, "color", "convert", "1,2"); err == nil {
		t.Error("expected error for incomplete HSV")
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xFF})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNGBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img.Bounds()
}

func TestMeTile(t *testing.T) {
	dir := setupTests(t)
	src := filepath.Join(dir, "wallpaper.png")
	writePNG(t, src, 640, 480)
	out := filepath.Join(dir, "tile.png")

	t.Run("DefaultSize", func(t *testing.T) {
		mustRun(t, "metile", "set", src)
		mustRun(t, "metile", "get", "--output", out)
		if b := readPNGBounds(t, out); b.Dx() != 310 || b.Dy() != 128 {
			t.Errorf("tile bounds = %v, want 310x128", b)
		}
	})

	t.Run("ExplicitSize", func(t *testing.T) {
		mustRun(t, "metile", "set", src, "--size", "310x102")
		mustRun(t, "metile", "get", "--output", out)
		if b := readPNGBounds(t, out); b.Dx() != 310 || b.Dy() != 102 {
			t.Errorf("tile bounds = %v, want 310x102", b)
		}
	})

	t.Run("UnsupportedSize", func(t *testing.T) {
		_, err := run(t, "metile", "set", src, "--size", "100x100")
		if !errors.Is(err, imgutil.ErrUnsupportedSize) {
			t.Errorf("error = %v, want ErrUnsupportedSize", err)
		}
	})

	t.Run("BadArguments", func(t *testing.T) {
		if _, err := run(t, "metile", "set"); err == nil {
			t.Error("expected error without a source")
		}
		if _, err := run(t, "metile", "set", src, "--prompt", "sea"); err == nil {
			t.Error("expected error with both a source and a prompt")
		}
		if _, err := run(t, "metile", "get"); err == nil {
			t.Error("expected error without --output")
		}
		if _, err := run(t, "metile", "set", filepath.Join(dir, "missing.png")); err == nil {
			t.Error("expected error for missing image")
		}
	})
}

func TestAdaptersList(t *testing.T) {
	dir := setupTests(t)
	out := mustRun(t, "adapters", "list", "--plugin-dir", filepath.Join(dir, "none"))
	if !strings.Contains(out, "simulator") || !strings.Contains(out, "virtual") {
		t.Errorf("adapters list:\n%s", out)
	}
}
