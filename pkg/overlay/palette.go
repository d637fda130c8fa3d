package overlay

import (
	"hash/fnv"
	"image/color"
	"math/rand"
)

// Palette assigns each face a stable sclera tint so multiple faces in a
// frame are easy to tell apart. Colors are derived from the face ID, so a
// face keeps its tint for as long as it is tracked.
type Palette struct {
	base []color.RGBA
}

// NewPalette returns the default pastel palette
func NewPalette() *Palette {
	return &Palette{
		base: []color.RGBA{
			{R: 255, G: 255, B: 255, A: 255}, // Classic white
			{R: 255, G: 250, B: 230, A: 255}, // Warm ivory
			{R: 235, G: 245, B: 255, A: 255}, // Cool blue-white
			{R: 245, G: 255, B: 240, A: 255}, // Mint
			{R: 255, G: 240, B: 245, A: 255}, // Blush
		},
	}
}

// ScleraColor returns the eye-white color for a face
func (p *Palette) ScleraColor(faceID string) color.RGBA {
	rng := rand.New(rand.NewSource(seed(faceID)))
	return p.base[rng.Intn(len(p.base))]
}

func seed(faceID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(faceID))
	return int64(h.Sum64())
}
