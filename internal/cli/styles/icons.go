package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconInfo    = "\uf05a" // info
	IconConfig  = "\ue615" // config
	IconMoon    = "\uf186" // moon
	IconSun     = "\uf185" // sun
	IconPalette = "\uf53f" // palette
	IconEye     = "\uf06e" // eye
	IconBell    = "\uf0f3" // bell
)
