package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/bandtint/internal/personalize"
)

func newHardwareCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Show what can be personalized on the configured band",
		Long: `Show the band's hardware revision, connection type and the Me Tile
image sizes it accepts. The band is not contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caps, err := personalize.Describe(a.target())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(caps)
			}

			sizes := make([]string, len(caps.MeTileSizes))
			for i, d := range caps.MeTileSizes {
				sizes[i] = d.String()
			}
			defaultSize := "none"
			if caps.DefaultMeTile != nil {
				defaultSize = caps.DefaultMeTile.String()
			}

			fmt.Fprintf(out, "Revision:        %s\n", caps.Revision)
			fmt.Fprintf(out, "Connection:      %s\n", caps.Connection)
			fmt.Fprintf(out, "Me Tile sizes:   %s\n", strings.Join(sizes, ", "))
			fmt.Fprintf(out, "Default Me Tile: %s\n", defaultSize)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
