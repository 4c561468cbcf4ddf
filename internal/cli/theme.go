package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/bandtint/internal/hardware"
	"github.com/jmylchreest/bandtint/internal/personalize"
	"github.com/jmylchreest/bandtint/internal/theme"
)

// withPersonalizer opens the configured adapter for the duration of fn.
func (a *app) withPersonalizer(fn func(p *personalize.Personalizer) error) error {
	adapter, closeFn, err := a.openAdapter()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(personalize.New(adapter, personalize.WithLogger(a.logger)))
}

// printTheme writes one line per slot, with swatches on a terminal.
func printTheme(w io.Writer, t theme.RGBColorTheme) {
	table := NewTable("SLOT", "COLOUR")
	for _, slot := range theme.Slots() {
		c := t.Get(slot)
		table.AddRow(slot.String(), withSwatch(w, c, c.String()))
	}
	_, _ = table.WriteTo(w)
}

func newThemeCmd(a *app) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Read and write the band's colour theme",
	}
	themeCmd.AddCommand(
		newThemePresetsCmd(a),
		newThemeGetCmd(a),
		newThemeSetCmd(a),
		newThemeAdjustCmd(a),
	)
	return themeCmd
}

func newThemePresetsCmd(a *app) *cobra.Command {
	var revisionName string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in themes for a hardware revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rev := hardware.RevisionFromOptionalVersion(a.target().HardwareVersion)
			if revisionName != "" {
				var ok bool
				if rev, ok = hardware.ParseRevision(revisionName); !ok {
					return fmt.Errorf("unknown revision %q (want Band or Band2)", revisionName)
				}
			}

			out := cmd.OutOrStdout()
			presets, err := theme.Presets(rev)
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				fmt.Fprintf(out, "No presets for revision %s\n", rev)
				return nil
			}

			headers := []string{"NAME"}
			for _, slot := range theme.Slots() {
				headers = append(headers, slot.String())
			}
			table := NewTable(headers...)
			for _, p := range presets {
				row := []string{p.Name}
				for _, slot := range theme.Slots() {
					c := p.Theme.Get(slot)
					row = append(row, withSwatch(out, c, c.String()))
				}
				table.AddRow(row...)
			}
			_, err = table.WriteTo(out)
			return err
		},
	}

	cmd.Flags().StringVar(&revisionName, "revision", "", "hardware revision (Band or Band2); defaults to the configured band's")
	return cmd
}

func newThemeGetCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read the theme from the band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			var current theme.RGBColorTheme
			err := a.withPersonalizer(func(p *personalize.Personalizer) error {
				var err error
				current, err = p.GetTheme(ctx, a.target())
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case output != "":
				if err := writeRecord(output, theme.NewRecord(title, current)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Theme saved to %s\n", output)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(current)
			default:
				printTheme(out, current)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the theme as a record file")
	cmd.Flags().StringVar(&title, "title", "band theme", "title stored in the record file")
	return cmd
}

func writeRecord(path string, r theme.Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding theme record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { // #nosec G306 - theme files are not secret
		return fmt.Errorf("writing theme record: %w", err)
	}
	return nil
}

func readRecord(path string) (theme.Record, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user supplied theme file
	if err != nil {
		return theme.Record{}, fmt.Errorf("reading theme record: %w", err)
	}
	var r theme.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return theme.Record{}, fmt.Errorf("parsing theme record: %w", err)
	}
	return r, nil
}

func newThemeSetCmd(a *app) *cobra.Command {
	var (
		presetName string
		file       string
		fromBase   colourValue
	)
	slotValues := make(map[theme.Slot]*colourValue)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Write a theme to the band",
		Long: `Write a theme to the band.

The starting theme is a preset, a saved record file, a theme derived from a
single base colour, or the band's current theme. Individual slots can then be
overridden.

Examples:
  bandtint theme set --preset Electric
  bandtint theme set --from-base '#3366CC'
  bandtint theme set --file mytheme.json --highlight '#FFCC00'
  bandtint theme set --muted '#333333'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources := 0
			for _, set := range []bool{presetName != "", file != "", fromBase.set} {
				if set {
					sources++
				}
			}
			if sources > 1 {
				return errors.New("--preset, --file and --from-base are mutually exclusive")
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			target := a.target()

			return a.withPersonalizer(func(p *personalize.Personalizer) error {
				var next theme.RGBColorTheme
				switch {
				case presetName != "":
					rev := hardware.RevisionFromOptionalVersion(target.HardwareVersion)
					preset, ok := theme.LookupPreset(rev, presetName)
					if !ok {
						return fmt.Errorf("no preset %q for revision %s", presetName, rev)
					}
					next = preset.Theme
				case file != "":
					r, err := readRecord(file)
					if err != nil {
						return err
					}
					next = r.Theme()
				case fromBase.set:
					next = theme.FromBase(fromBase.c)
				default:
					current, err := p.GetTheme(ctx, target)
					if err != nil {
						return err
					}
					next = current
				}

				for _, slot := range theme.Slots() {
					if v := slotValues[slot]; v.set {
						next = next.With(slot, v.c)
					}
				}

				if err := p.SetTheme(ctx, target, &next); err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), next)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&presetName, "preset", "", "start from a built-in preset")
	cmd.Flags().StringVar(&file, "file", "", "start from a saved theme record")
	cmd.Flags().Var(&fromBase, "from-base", "derive the theme from one base colour")
	for _, slot := range theme.Slots() {
		v := &colourValue{}
		slotValues[slot] = v
		cmd.Flags().Var(v, slot.String(), fmt.Sprintf("override the %s colour", slot))
	}
	return cmd
}

func newThemeAdjustCmd(a *app) *cobra.Command {
	var luminance float64

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Lighten or darken the band's current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("luminance") {
				return errors.New("--luminance is required")
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			target := a.target()

			return a.withPersonalizer(func(p *personalize.Personalizer) error {
				current, err := p.GetTheme(ctx, target)
				if err != nil {
					return err
				}
				next := current.Luminance(luminance)
				if err := p.SetTheme(ctx, target, &next); err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), next)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&luminance, "luminance", 0, "shift every channel by this fraction of the range (-1 to 1)")
	return cmd
}
