package present

import "strings"

// Palette names accepted by BuildBarChart and the dashboard config.
const (
	PaletteDefault = "default"
	PaletteViridis = "viridis"
	PaletteRocket  = "rocket"
)

var palettes = map[string][]string{
	PaletteDefault: {
		"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
		"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
	},
	PaletteViridis: {
		"#440154", "#482878", "#3E4A89", "#31688E", "#26828E",
		"#1F9E89", "#35B779", "#6DCD59", "#B4DE2C", "#FDE725",
	},
	PaletteRocket: {
		"#2B1A3E", "#4C1D4B", "#701F57", "#961C5B", "#BE1A4F",
		"#E13342", "#F06043", "#F5916A", "#F6BE9E", "#FAEBDD",
	},
}

// Palette returns the named color list, falling back to the default palette.
func Palette(name string) []string {
	if p, ok := palettes[strings.ToLower(name)]; ok {
		return p
	}
	return palettes[PaletteDefault]
}

func assignColors(palette string, count int) []string {
	p := Palette(palette)
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = p[i%len(p)]
	}
	return colors
}
