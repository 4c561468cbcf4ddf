package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jmylchreest/bandtint/internal/colour"
)

// colourValue is a pflag.Value holding a colour in #RRGGBB form.
type colourValue struct {
	c   colour.Color
	set bool
}

var _ pflag.Value = (*colourValue)(nil)

func (v *colourValue) String() string {
	if !v.set {
		return ""
	}
	return v.c.String()
}

func (v *colourValue) Set(s string) error {
	c, err := colour.Parse(s)
	if err != nil {
		return err
	}
	v.c, v.set = c, true
	return nil
}

func (v *colourValue) Type() string {
	return "colour"
}

// isTerminal reports whether w is a terminal that can show colour swatches.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// withSwatch prefixes text with a colour block when w is a terminal.
func withSwatch(w io.Writer, c colour.Color, text string) string {
	if !isTerminal(w) {
		return text
	}
	return colour.Swatch(c, 4) + " " + text
}

// parseHSV parses "H,S,V" with hue in degrees and saturation and value in [0, 1].
func parseHSV(s string) (colour.HSV, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colour.HSV{}, fmt.Errorf("invalid HSV %q (expected H,S,V)", s)
	}
	var vals [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colour.HSV{}, fmt.Errorf("invalid HSV component %q: %w", p, err)
		}
		vals[i] = f
	}
	return colour.HSV{Hue: vals[0], Saturation: vals[1], Value: vals[2]}, nil
}

func formatHSV(h colour.HSV) string {
	return fmt.Sprintf("%g,%g,%g", h.Hue, h.Saturation, h.Value)
}

func newColourCmd() *cobra.Command {
	colourCmd := &cobra.Command{
		Use:     "colour",
		Aliases: []string{"color"},
		Short:   "Work with colour values",
	}

	var luminance float64
	convertCmd := &cobra.Command{
		Use:   "convert <#RRGGBB|H,S,V>",
		Short: "Convert a colour between hex and HSV",
		Long: `Convert a colour between its #RRGGBB form and HSV.

HSV components are rounded to hundredths, so a hex value converted to HSV
and back may differ by one step.

Examples:
  bandtint colour convert '#3366CC'
  bandtint colour convert 220,0.75,0.8
  bandtint colour convert '#3366CC' --luminance 0.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			input := args[0]

			var c colour.Color
			if strings.Contains(input, ",") {
				hsv, err := parseHSV(input)
				if err != nil {
					return err
				}
				c = hsv.RGB()
			} else {
				var err error
				if c, err = colour.Parse(input); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("luminance") {
				c = c.Luminance(luminance)
			}

			fmt.Fprintf(out, "hex: %s\n", withSwatch(out, c, c.String()))
			fmt.Fprintf(out, "hsv: %s\n", formatHSV(c.HSV()))
			return nil
		},
	}
	convertCmd.Flags().Float64Var(&luminance, "luminance", 0, "shift every channel by this fraction of the range (-1 to 1)")

	colourCmd.AddCommand(convertCmd)
	return colourCmd
}
