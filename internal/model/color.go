package model

type Color string

// Palette is the fixed set of card colours.
var Palette = []Color{
	"#DAF5F0", // mint
	"#B5D2AD", // sage
	"#FDFD96", // pastel yellow
	"#F8D6B3", // peach
	"#FCDFFF", // light pink
	"#E3DFF2", // lavender
	"#A7DBD8", // light cyan
	"#BAFCA2", // light green
	"#FFDB58", // marigold
	"#FFA07A", // light salmon
}

// RandomSource is satisfied by *math/rand/v2.Rand.
type RandomSource interface {
	IntN(n int) int
}

func PickColor(src RandomSource) Color {
	return ColorAt(src.IntN(len(Palette)))
}

func ColorAt(i int) Color {
	n := len(Palette)
	i %= n
	if i < 0 {
		i += n
	}
	return Palette[i]
}
