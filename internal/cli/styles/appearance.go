package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/huewatch/internal/domain/entity"
)

// AppearanceRenderer renders appearance snapshots and change lines.
type AppearanceRenderer struct {
	theme *Theme
}

// NewAppearanceRenderer creates a renderer with the given theme.
func NewAppearanceRenderer(theme *Theme) *AppearanceRenderer {
	return &AppearanceRenderer{theme: theme}
}

// RenderSnapshot renders every setting of a, plus the providers consulted.
func (r *AppearanceRenderer) RenderSnapshot(a entity.Appearance, providers []string) string {
	icon := IconSun
	mode := "light"
	if a.DarkMode {
		icon, mode = IconMoon, "dark"
	}

	labelStyle := r.theme.Subtle.Width(28)
	row := func(label, value string) string {
		return labelStyle.Render(label) + value + "\n"
	}

	var sb strings.Builder
	sb.WriteString(r.theme.BoxHeader.Render(fmt.Sprintf("%s Appearance", icon)))
	sb.WriteString("\n\n")
	sb.WriteString(row("mode", r.theme.Highlight.Render(mode)))
	sb.WriteString(row("accent", r.swatch(a.AccentColor)))
	sb.WriteString(row("highlight", r.swatch(a.HighlightColor)))
	sb.WriteString(row("high contrast", r.flag(a.HighContrast)))
	sb.WriteString(row("reduce motion", r.flag(a.ReduceMotion)))
	sb.WriteString(row("reduce transparency", r.flag(a.ReduceTransparency)))
	sb.WriteString(row("differentiate without color", r.flag(a.DifferentiateWithoutColor)))
	sb.WriteString(row("invert colors", r.flag(a.InvertColors)))
	sb.WriteString(row("autoplay animated images", r.flag(a.AutoplayAnimatedImages)))
	sb.WriteString(row("source", r.theme.Normal.Render(a.Source)))
	if len(providers) > 0 {
		sb.WriteString(row("providers", r.theme.Subtle.Render(strings.Join(providers, " > "))))
	}

	return r.theme.Box.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderChange renders one broadcast as a single line.
func (r *AppearanceRenderer) RenderChange(at time.Time, changes entity.ChangeSet, a entity.Appearance) string {
	kinds := make([]string, 0, changes.Len())
	for _, k := range changes.Kinds() {
		kinds = append(kinds, r.theme.Badge.Render(k.String()))
	}

	mode := "light"
	if a.DarkMode {
		mode = "dark"
	}
	return fmt.Sprintf("%s %s %s %s %s",
		r.theme.Subtle.Render(at.Format("15:04:05.000")),
		r.theme.Highlight.Render(IconBell),
		strings.Join(kinds, " "),
		r.theme.Normal.Render(mode),
		r.swatch(a.AccentColor),
	)
}

// RenderWatching renders the banner printed when watch starts.
func (r *AppearanceRenderer) RenderWatching(sources []string, interval time.Duration) string {
	return fmt.Sprintf("%s watching %s (debounce %s)",
		r.theme.Highlight.Render(IconEye),
		r.theme.Normal.Render(strings.Join(sources, ", ")),
		r.theme.Subtle.Render(interval.String()),
	)
}

// RenderSourceError renders a signal source that stopped.
func (r *AppearanceRenderer) RenderSourceError(source string, err error) string {
	return fmt.Sprintf("%s %s: %s",
		r.theme.WarningStyle.Render(IconX),
		r.theme.Normal.Render(source),
		r.theme.Subtle.Render(err.Error()),
	)
}

func (r *AppearanceRenderer) swatch(c entity.Color) string {
	hex := opaqueHex(c)
	block := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
	return block + " " + r.theme.Normal.Render(c.Hex())
}

func (r *AppearanceRenderer) flag(on bool) string {
	if on {
		return r.theme.SuccessStyle.Render(IconCheck + " on")
	}
	return r.theme.Subtle.Render("off")
}
