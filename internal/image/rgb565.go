package image

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// EncodeRGB565 converts img to the band's native 16-bit little-endian pixel format.
// Alpha is ignored.
func EncodeRGB565(img image.Image) plugin.NativeImage {
	b := img.Bounds()
	pixels := make([]byte, 0, b.Dx()*b.Dy()*plugin.PixelFormatRGB565.BytesPerPixel())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
			pixels = binary.LittleEndian.AppendUint16(pixels, v)
		}
	}

	return plugin.NativeImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: plugin.PixelFormatRGB565,
		Pixels: pixels,
	}
}

// DecodeRGB565 expands a native image to opaque RGBA.
func DecodeRGB565(native plugin.NativeImage) (*image.RGBA, error) {
	if err := native.Validate(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, native.Width, native.Height))
	for i := 0; i < native.Width*native.Height; i++ {
		v := binary.LittleEndian.Uint16(native.Pixels[2*i:])
		r5, g6, b5 := uint8(v>>11), uint8(v>>5)&0x3F, uint8(v)&0x1F
		o := 4 * i
		dst.Pix[o+0] = r5<<3 | r5>>2
		dst.Pix[o+1] = g6<<2 | g6>>4
		dst.Pix[o+2] = b5<<3 | b5>>2
		dst.Pix[o+3] = 0xFF
	}
	return dst, nil
}
