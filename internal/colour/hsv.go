package colour

import "math"

// HSV is a colour in the hue/saturation/value model.
// Hue is in degrees [0, 360), saturation and value are fractions in [0, 1].
type HSV struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

// hsvPrecision is the quantum every HSV component is rounded to.
// Some channel values (grey 0xC0 for instance) do not survive ToHSV followed by ToRGB.
const hsvPrecision = 100

// ToHSV converts c to HSV.
// The hue is 0 for achromatic colours. All components are rounded half away
// from zero to hundredths; a hue rounding up to 360 wraps to 0.
func ToHSV(c Color) HSV {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	chroma := maxVal - minVal

	v := maxVal
	s := 0.0
	if chroma != 0 {
		s = chroma / v
	}

	h := 0.0
	if chroma != 0 {
		switch maxVal {
		case r:
			h = (g - b) / chroma
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/chroma + 2
		default:
			h = (r-g)/chroma + 4
		}
		h *= 60
	}

	h = quantize(h)
	if h >= 360 {
		h -= 360
	}

	return HSV{
		Hue:        h,
		Saturation: quantize(s),
		Value:      quantize(v),
	}
}

// ToRGB converts hue (degrees, any range), saturation and value (clamped to [0, 1])
// to a Color. Channels are rounded half away from zero.
func ToRGB(h, s, v float64) Color {
	s = clampUnit(s)
	v = clampUnit(v)

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	chroma := v * s
	hp := h / 60
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch sector := int(hp); sector {
	case 0:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return Color{
		R: clampByte(math.Round((r + m) * 255)),
		G: clampByte(math.Round((g + m) * 255)),
		B: clampByte(math.Round((b + m) * 255)),
	}
}

// RGB converts hsv back to a Color.
func (hsv HSV) RGB() Color {
	return ToRGB(hsv.Hue, hsv.Saturation, hsv.Value)
}

// HSV converts c to HSV.
func (c Color) HSV() HSV {
	return ToHSV(c)
}

func quantize(v float64) float64 {
	return math.Round(v*hsvPrecision) / hsvPrecision
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
