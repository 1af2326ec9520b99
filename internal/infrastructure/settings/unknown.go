// Package settings reads appearance settings from the host desktop.
package settings

import "github.com/bnema/huewatch/internal/domain/entity"

// unknown embeds the getters a provider cannot answer.
type unknown struct{}

func (unknown) DarkMode() (bool, bool)                  { return false, false }
func (unknown) AccentColor() (entity.Color, bool)       { return entity.Color{}, false }
func (unknown) HighlightColor() (entity.Color, bool)    { return entity.Color{}, false }
func (unknown) HighContrast() (bool, bool)              { return false, false }
func (unknown) ReduceMotion() (bool, bool)              { return false, false }
func (unknown) ReduceTransparency() (bool, bool)        { return false, false }
func (unknown) DifferentiateWithoutColor() (bool, bool) { return false, false }
func (unknown) InvertColors() (bool, bool)              { return false, false }
func (unknown) AutoplayAnimatedImages() (bool, bool)    { return false, false }
