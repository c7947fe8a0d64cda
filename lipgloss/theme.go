// Package lipgloss provides report theme implementations with
// Lipgloss-compatible colors.
package lipgloss

import "github.com/fwojciec/skillreview"

// Compile-time interface verification.
var _ skillreview.Theme = (*Theme)(nil)

// Theme implements skillreview.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles  skillreview.Styles
	palette skillreview.Palette
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() skillreview.Styles {
	return t.styles
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() skillreview.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
// Badge backgrounds are bright with dark text so severity stands out.
func DarkTheme() *Theme {
	return &Theme{
		styles: skillreview.Styles{
			Critical: skillreview.ColorPair{
				Foreground: "#1e1e2e", // Dark text on bright background
				Background: "#f38ba8", // Red
			},
			High: skillreview.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#fab387", // Peach
			},
			Medium: skillreview.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#f9e2af", // Yellow
			},
			Low: skillreview.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#89b4fa", // Blue
			},
			Info: skillreview.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#9399b2", // Muted gray
			},
			Header: skillreview.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			Location: skillreview.ColorPair{
				Foreground: "#89b4fa", // Blue
			},
			Snippet: skillreview.ColorPair{
				Foreground: "#cdd6f4", // Base text
			},
			Failure: skillreview.ColorPair{
				Foreground: "#f38ba8", // Red
			},
			Muted: skillreview.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
		},
		palette: skillreview.Palette{
			// Syntax highlighting colors (Catppuccin Mocha)
			Keyword:     "#cba6f7",
			String:      "#a6e3a1",
			Number:      "#fab387",
			Comment:     "#6c7086",
			Operator:    "#89dceb",
			Function:    "#89b4fa",
			Type:        "#f9e2af",
			Constant:    "#fab387",
			Punctuation: "#9399b2",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: skillreview.Styles{
			Critical: skillreview.ColorPair{
				Foreground: "#ffffff", // White text on dark background
				Background: "#d20f39", // Red
			},
			High: skillreview.ColorPair{
				Foreground: "#ffffff",
				Background: "#fe640b", // Peach
			},
			Medium: skillreview.ColorPair{
				Foreground: "#ffffff",
				Background: "#df8e1d", // Yellow
			},
			Low: skillreview.ColorPair{
				Foreground: "#ffffff",
				Background: "#1e66f5", // Blue
			},
			Info: skillreview.ColorPair{
				Foreground: "#ffffff",
				Background: "#9ca0b0", // Muted gray
			},
			Header: skillreview.ColorPair{
				Foreground: "#df8e1d", // Yellow
				Background: "#e6e9ef", // Light surface
			},
			Location: skillreview.ColorPair{
				Foreground: "#1e66f5", // Blue
			},
			Snippet: skillreview.ColorPair{
				Foreground: "#4c4f69", // Base text
			},
			Failure: skillreview.ColorPair{
				Foreground: "#d20f39", // Red
			},
			Muted: skillreview.ColorPair{
				Foreground: "#9ca0b0", // Muted gray
			},
		},
		palette: skillreview.Palette{
			// Syntax highlighting colors (Catppuccin Latte)
			Keyword:     "#8839ef",
			String:      "#40a02b",
			Number:      "#fe640b",
			Comment:     "#9ca0b0",
			Operator:    "#04a5e5",
			Function:    "#1e66f5",
			Type:        "#df8e1d",
			Constant:    "#fe640b",
			Punctuation: "#6c6f85",
		},
	}
}
