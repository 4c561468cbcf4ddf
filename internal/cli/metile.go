package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/bandtint/internal/hardware"
	imgutil "github.com/jmylchreest/bandtint/internal/image"
	"github.com/jmylchreest/bandtint/internal/imagegen"
	"github.com/jmylchreest/bandtint/internal/personalize"
	"github.com/jmylchreest/bandtint/internal/security"
	"github.com/jmylchreest/bandtint/internal/util/imagecache"
)

func newMeTileCmd(a *app) *cobra.Command {
	meTileCmd := &cobra.Command{
		Use:     "metile",
		Aliases: []string{"me-tile"},
		Short:   "Read and write the band's Me Tile background image",
	}
	meTileCmd.AddCommand(newMeTileGetCmd(a), newMeTileSetCmd(a))
	return meTileCmd
}

func newMeTileGetCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Save the band's Me Tile image as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return errors.New("--output is required")
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			var img *image.RGBA
			err := a.withPersonalizer(func(p *personalize.Personalizer) error {
				var err error
				img, err = p.GetMeTileImage(ctx, a.target())
				return err
			})
			if err != nil {
				return err
			}

			f, err := os.Create(output) // #nosec G304 - user supplied output path
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("encoding PNG: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Me Tile (%dx%d) saved to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	return cmd
}

func newMeTileSetCmd(a *app) *cobra.Command {
	var (
		sizeFlag string
		prompt   string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "set [image|url]",
		Short: "Write an image to the band's Me Tile",
		Long: `Write an image to the band's Me Tile.

The image is cropped to the tile's aspect ratio and scaled to a size the
band accepts. Sources may be local files or http(s) URLs in PNG, JPEG, GIF,
BMP or WebP format, optionally gzip or xz compressed. With --prompt the image
is generated with Google Gen AI instead (GOOGLE_API_KEY is required for the
Gemini API backend).

Examples:
  bandtint metile set wallpaper.jpg
  bandtint metile set https://example.com/tile.png --size 310x102
  bandtint metile set --prompt "a neon city skyline at dusk"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (prompt != "") {
				return errors.New("give either an image source or --prompt")
			}

			target := a.target()
			rev := hardware.RevisionFromOptionalVersion(target.HardwareVersion)

			var opts []personalize.MeTileOption
			var requested *hardware.Dimension2D
			if sizeFlag != "" {
				d, err := hardware.ParseDimension2D(sizeFlag)
				if err != nil {
					return err
				}
				requested = &d
				opts = append(opts, personalize.WithSize(d))
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			var (
				img image.Image
				err error
			)
			if prompt != "" {
				img, err = a.generate(ctx, prompt, rev, requested, !noCache)
			} else {
				img, err = a.loadSource(ctx, args[0], !noCache)
			}
			if err != nil {
				return err
			}

			err = a.withPersonalizer(func(p *personalize.Personalizer) error {
				return p.SetMeTileImage(ctx, target, img, rev, opts...)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Me Tile updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&sizeFlag, "size", "", "tile size as WIDTHxHEIGHT (default: the band's preferred size)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "generate the image from this description")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not keep downloaded or generated images")
	return cmd
}

// loadSource loads a file or URL. Downloads go through the image cache unless disabled.
func (a *app) loadSource(ctx context.Context, source string, useCache bool) (image.Image, error) {
	loader := imgutil.NewSmartLoader()
	if security.IsURL(source) && useCache {
		path, err := imagecache.DownloadAndCache(ctx, source, imagecache.Options{})
		if err != nil {
			return nil, err
		}
		a.logger.Debug("using cached download", "url", source, "path", path)
		source = path
	}
	return loader.Load(ctx, source)
}

// generate creates artwork for the tile from prompt and optionally keeps a PNG copy.
func (a *app) generate(ctx context.Context, prompt string, rev hardware.Revision, requested *hardware.Dimension2D, useCache bool) (image.Image, error) {
	size, err := imgutil.SelectSize(image.Rectangle{}, rev, requested)
	if err != nil {
		return nil, err
	}

	gen := imagegen.New(imagegen.Config{
		Model:   a.cfg.ImageGen.Model,
		Backend: a.cfg.ImageGen.Backend,
	}, a.logger)
	img, err := gen.Generate(ctx, prompt, size)
	if err != nil {
		return nil, err
	}

	if useCache {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err == nil {
			if path, err := imagecache.Store(prompt, ".png", buf.Bytes(), imagecache.Options{AllowOverwrite: true}); err != nil {
				a.logger.Warn("failed to cache generated image", "error", err)
			} else {
				a.logger.Debug("cached generated image", "path", path)
			}
		}
	}
	return img, nil
}
