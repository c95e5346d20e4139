// Package tagcolor assigns display colours to newly created split tags.
package tagcolor

import "math/rand/v2"

// Palette is the set of colours new tags are drawn from.
var Palette = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#96CEB4",
	"#FFEAA7",
	"#DDA0DD",
	"#98D8C8",
}

// Picker draws colours from Palette. It is not safe for concurrent use
// unless the underlying source is.
type Picker struct {
	rng *rand.Rand
}

// NewPicker returns a Picker backed by src. A nil src uses the global
// generator.
func NewPicker(src rand.Source) *Picker {
	if src == nil {
		return &Picker{}
	}
	return &Picker{rng: rand.New(src)}
}

// Next returns a colour from Palette.
func (p *Picker) Next() string {
	if p == nil || p.rng == nil {
		return Palette[rand.IntN(len(Palette))]
	}
	return Palette[p.rng.IntN(len(Palette))]
}
