package port

import "github.com/bnema/huewatch/internal/domain/entity"

// AppearanceSnapshotter is implemented by providers that resolve every
// setting in one pass and know which source answered.
type AppearanceSnapshotter interface {
	Snapshot() entity.Appearance
}

// QueryAppearance reads every setting from p. Settings p does not know keep
// the values of entity.DefaultAppearance.
func QueryAppearance(p SettingsProvider) entity.Appearance {
	if s, ok := p.(AppearanceSnapshotter); ok {
		return s.Snapshot()
	}

	a := entity.DefaultAppearance()
	if dark, ok := p.DarkMode(); ok {
		a.DarkMode = dark
		a.Source = p.Name()
	}
	FillAppearance(&a, p)
	return a
}

// FillAppearance copies every setting p knows, except dark mode, into a.
// An accent color without a highlight derives the highlight from the accent.
func FillAppearance(a *entity.Appearance, p SettingsProvider) {
	if c, ok := p.AccentColor(); ok {
		a.AccentColor = c
		a.HighlightColor = highlightFor(c)
	}
	if c, ok := p.HighlightColor(); ok {
		a.HighlightColor = c
	}
	setBool(&a.HighContrast, p.HighContrast)
	setBool(&a.ReduceMotion, p.ReduceMotion)
	setBool(&a.ReduceTransparency, p.ReduceTransparency)
	setBool(&a.DifferentiateWithoutColor, p.DifferentiateWithoutColor)
	setBool(&a.InvertColors, p.InvertColors)
	setBool(&a.AutoplayAnimatedImages, p.AutoplayAnimatedImages)
}

func setBool(dst *bool, get func() (bool, bool)) {
	if v, ok := get(); ok {
		*dst = v
	}
}

// highlightFor derives a selection highlight from an accent color.
func highlightFor(accent entity.Color) entity.Color {
	accent.A = 0.5
	return accent
}
