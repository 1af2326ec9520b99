package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SourceFallback names the snapshot source when no provider answered.
const SourceFallback = "fallback"

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Hex returns the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	hex := fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
	if c.A < 1 {
		hex += fmt.Sprintf("%02x", channel(c.A))
	}
	return hex
}

func (c Color) String() string {
	return c.Hex()
}

func channel(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa (the leading # is optional).
func ParseHexColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(raw) == 6 {
		raw += "ff"
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MarshalText encodes c as Hex.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses a hex color.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Appearance is a snapshot of every tracked appearance setting.
type Appearance struct {
	DarkMode                  bool  `json:"dark_mode"`
	AccentColor               Color `json:"accent_color"`
	HighlightColor            Color `json:"highlight_color"`
	HighContrast              bool  `json:"high_contrast"`
	ReduceMotion              bool  `json:"reduce_motion"`
	ReduceTransparency        bool  `json:"reduce_transparency"`
	DifferentiateWithoutColor bool  `json:"differentiate_without_color"`
	InvertColors              bool  `json:"invert_colors"`
	AutoplayAnimatedImages    bool  `json:"autoplay_animated_images"`

	// Source names the provider that answered the dark mode query.
	Source string `json:"source"`
}

// Default accent used when no provider reports one.
var DefaultAccentColor = RGB(0.208, 0.518, 0.894)

// DefaultAppearance returns the values used when providers know nothing.
func DefaultAppearance() Appearance {
	accent := DefaultAccentColor
	highlight := accent
	highlight.A = 0.5
	return Appearance{
		DarkMode:               true,
		AccentColor:            accent,
		HighlightColor:         highlight,
		AutoplayAnimatedImages: true,
		Source:                 SourceFallback,
	}
}
