package sim

import "math/rand"

// Color is an 8-bit RGBA spawn color. The core never blends colors;
// the renderer only applies alpha for trail ghosts.
type Color struct {
	R, G, B, A uint8
}

// Two discrete palettes, no interpolation. A particle picks one entry
// at spawn time and keeps it for life.
var (
	paletteEmber = []Color{
		{R: 255, G: 120, B: 40, A: 255},
		{R: 255, G: 180, B: 60, A: 255},
		{R: 230, G: 70, B: 30, A: 255},
		{R: 255, G: 220, B: 120, A: 255},
	}
	paletteIce = []Color{
		{R: 120, G: 200, B: 255, A: 255},
		{R: 80, G: 140, B: 240, A: 255},
		{R: 180, G: 230, B: 255, A: 255},
		{R: 140, G: 160, B: 255, A: 255},
	}
)

// SpawnColor returns a random palette entry for the theme.
func SpawnColor(theme Theme, rng *rand.Rand) Color {
	pal := paletteEmber
	if theme == ThemeIce {
		pal = paletteIce
	}
	return pal[rng.Intn(len(pal))]
}
