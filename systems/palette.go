package systems

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/bounce/components"
)

// HueRamp cycles a hue through [0, 360) degrees with a period in seconds.
type HueRamp struct {
	tween  *gween.Tween
	period float32
	hue    float32
}

// NewHueRamp creates a linear hue ramp. A non-positive period freezes the hue at 0.
func NewHueRamp(period float32) *HueRamp {
	h := &HueRamp{period: period}
	if period > 0 {
		h.tween = gween.New(0, 360, period, ease.Linear)
	}
	return h
}

// Update advances the ramp by dt seconds and returns the new hue.
func (h *HueRamp) Update(dt float32) float32 {
	if h.tween == nil {
		return h.hue
	}
	hue, done := h.tween.Update(dt)
	if done {
		over := float32(math.Mod(float64(h.tween.Overflow), float64(h.period)))
		h.tween.Reset()
		hue, _ = h.tween.Update(over)
	}
	h.hue = hue
	return hue
}

// Hue returns the current hue in degrees.
func (h *HueRamp) Hue() float32 { return h.hue }

// Color returns the fully saturated colour at the current hue.
func (h *HueRamp) Color() components.Color {
	return HSVToRGB(h.hue, 1, 1)
}

// HSVToRGB converts hue in degrees, saturation and value in [0, 1] to RGB.
func HSVToRGB(h, s, v float32) components.Color {
	hh := math.Mod(float64(h), 360)
	if hh < 0 {
		hh += 360
	}
	c := float64(v * s)
	x := c * (1 - math.Abs(math.Mod(hh/60, 2)-1))
	m := float64(v) - c

	var r, g, b float64
	switch {
	case hh < 60:
		r, g, b = c, x, 0
	case hh < 120:
		r, g, b = x, c, 0
	case hh < 180:
		r, g, b = 0, c, x
	case hh < 240:
		r, g, b = 0, x, c
	case hh < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return components.Color{R: float32(r + m), G: float32(g + m), B: float32(b + m)}
}
