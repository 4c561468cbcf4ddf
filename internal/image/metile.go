package image

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/jmylchreest/bandtint/internal/hardware"
)

// ErrUnsupportedSize is returned when no permitted Me Tile size fits the request.
var ErrUnsupportedSize = errors.New("unsupported me tile size")

// SelectSize picks the Me Tile dimensions for an image of bounds on revision.
// An explicit request must be one of the revision's allowed sizes. Without one,
// an image that already has an allowed size keeps it; otherwise the default is used.
func SelectSize(bounds image.Rectangle, revision hardware.Revision, requested *hardware.Dimension2D) (hardware.Dimension2D, error) {
	allowed, err := hardware.AllowedMeTileDimensions(revision)
	if err != nil {
		return hardware.Dimension2D{}, err
	}
	if len(allowed) == 0 {
		return hardware.Dimension2D{}, fmt.Errorf("%w: %s has no me tile", ErrUnsupportedSize, revision)
	}

	if requested != nil {
		for _, d := range allowed {
			if d == *requested {
				return d, nil
			}
		}
		return hardware.Dimension2D{}, fmt.Errorf("%w: %s not allowed for %s", ErrUnsupportedSize, requested, revision)
	}

	current := hardware.NewDimension2D(bounds.Dx(), bounds.Dy())
	for _, d := range allowed {
		if d == current {
			return d, nil
		}
	}
	return allowed[len(allowed)-1], nil
}

// CheckSource rejects source images with no pixels to scale from.
func CheckSource(bounds image.Rectangle) error {
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: empty source image %dx%d", ErrUnsupportedSize, bounds.Dx(), bounds.Dy())
	}
	return nil
}

// Fit scales img to cover size exactly, cropping the centre when the aspect
// ratios differ. Scaling uses Catmull-Rom resampling.
func Fit(img image.Image, size hardware.Dimension2D) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	src := img.Bounds()

	if src.Dx() == size.Width && src.Dy() == size.Height {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, cropToAspect(src, size), xdraw.Src, nil)
	return dst
}

// cropToAspect returns the largest centred rectangle within r with size's aspect ratio.
func cropToAspect(r image.Rectangle, size hardware.Dimension2D) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 || size.Width <= 0 || size.Height <= 0 {
		return r
	}

	// Compare w/h with size.Width/size.Height without floating point.
	switch {
	case w*size.Height > h*size.Width:
		cw := h * size.Width / size.Height
		x := r.Min.X + (w-cw)/2
		return image.Rect(x, r.Min.Y, x+cw, r.Max.Y)
	case w*size.Height < h*size.Width:
		ch := w * size.Height / size.Width
		y := r.Min.Y + (h-ch)/2
		return image.Rect(r.Min.X, y, r.Max.X, y+ch)
	default:
		return r
	}
}
