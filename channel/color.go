package channel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	hueModulus   = 200
	valueModulus = 240
	saturation   = 0.9
	minValue     = 0.7
	maxValue     = 1.0
)

// ErrInvalidColor indicates a color string could not be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// ColorFor derives the display color of a channel id.
//
// Every character contributes its numeric digit value ('0'-'9', and -1 for
// any other character) to a float accumulator following
// acc = digit + (acc*32 - acc). The hue comes from |acc mod 200| and the value
// from |acc mod 240|, clamped into [0.7, 1]. Saturation is fixed at 0.9.
func ColorFor(id string) Color {
	var acc float64
	for _, r := range id {
		acc = digitValue(r) + (acc*32 - acc)
	}

	narrowed := float64(float32(acc))

	h := float32(math.Mod(narrowed, hueModulus))
	v := float32(math.Mod(narrowed, valueModulus))

	return hsvToRGB(
		abs32(h)/hueModulus,
		saturation,
		clamp32(abs32(v)/valueModulus, minValue, maxValue),
	)
}

// Hex returns the color formatted as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B))
}

// String implements [fmt.Stringer].
func (c Color) String() string {
	return c.Hex()
}

// ParseHex parses a "#rrggbb" (or "rrggbb") color string.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}

	return Color{
		R: float32((n>>16)&0xff) / 255,
		G: float32((n>>8)&0xff) / 255,
		B: float32(n&0xff) / 255,
	}, nil
}

func digitValue(r rune) float64 {
	if r >= '0' && r <= '9' {
		return float64(r - '0')
	}

	return -1
}

// hsvToRGB converts h, s, v in [0, 1] to RGB using sextant interpolation.
func hsvToRGB(h, s, v float32) Color {
	if s == 0 {
		return Color{R: v, G: v, B: v}
	}

	if v == 0 {
		return Color{}
	}

	h *= 6

	i := float32(math.Floor(float64(h)))
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(i) {
	case 0, 6:
		return Color{R: v, G: t, B: p}
	case 1:
		return Color{R: q, G: v, B: p}
	case 2:
		return Color{R: p, G: v, B: t}
	case 3:
		return Color{R: p, G: q, B: v}
	case 4:
		return Color{R: t, G: p, B: v}
	default:
		return Color{R: v, G: p, B: q}
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}

	return f
}

func clamp32(f, lo, hi float32) float32 {
	return min(max(f, lo), hi)
}

func toByte(f float32) uint8 {
	return uint8(math.Round(float64(clamp32(f, 0, 1)) * 255))
}
