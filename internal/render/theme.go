package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the color scheme for the TUI and flight tables
type Palette struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color // user messages, focused borders
	Secondary lipgloss.Color // assistant messages, prices
	Accent    lipgloss.Color // titles, table headers
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	TokyoNight = Palette{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	Catppuccin = Palette{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",

		Surface: lipgloss.Color("#313244"),
		Border:  lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	Jeju = Palette{
		Name:        "jeju",
		Description: "Sea and tangerine, light terminals",

		Surface: lipgloss.Color("#f4f1ea"),
		Border:  lipgloss.Color("#9fb8c8"),

		Primary:   lipgloss.Color("#1f6f8b"),
		Secondary: lipgloss.Color("#2e7d32"),
		Accent:    lipgloss.Color("#e8751a"),
		Warning:   lipgloss.Color("#b8860b"),
		Error:     lipgloss.Color("#c62828"),

		Text:     lipgloss.Color("#1b2631"),
		TextDim:  lipgloss.Color("#5d6d7e"),
		TextMute: lipgloss.Color("#aab7b8"),
	}
)

var currentPalette = TokyoNight

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	return currentPalette
}

// SetPalette activates a palette by name. Unknown names are ignored.
func SetPalette(name string) bool {
	p, ok := PaletteByName(name)
	if ok {
		currentPalette = p
	}
	return ok
}

// PaletteByName looks up a palette
func PaletteByName(name string) (Palette, bool) {
	for _, p := range Palettes() {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// Palettes returns every built-in palette, default first
func Palettes() []Palette {
	return []Palette{TokyoNight, Catppuccin, Jeju}
}

// PaletteNames returns the palette names
func PaletteNames() []string {
	all := Palettes()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}
