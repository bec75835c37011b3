// Package colormap maps numeric values onto discrete color palettes for
// heat-map cells in report pages.
package colormap

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// DefaultPalette is the palette used when the configuration names none.
const DefaultPalette = "classic"

// ErrUnknownPalette is returned when a palette name is not registered.
var ErrUnknownPalette = fmt.Errorf("%w: unknown colormap", reporterr.ErrInvalidArgument)

// RGB is one palette entry.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// String renders the color as "r, g, b", ready for a CSS rgb() expression.
func (c RGB) String() string {
	return strconv.Itoa(int(c.R)) + ", " + strconv.Itoa(int(c.G)) + ", " + strconv.Itoa(int(c.B))
}

// Palette is an ordered, immutable sequence of colors from "cold" to "hot".
type Palette []RGB

// ColorFor maps value within [0, maxValue] onto p.
//
// A zero maxValue yields the first entry. The index is
// floor(value / maxValue * (len(p) - 1)) clamped into the palette bounds, so
// values slightly above maxValue (rounding) or below zero never overflow.
// An empty palette yields the zero RGB.
func ColorFor(value, maxValue float64, p Palette) RGB {
	if len(p) == 0 {
		return RGB{}
	}

	if maxValue == 0 {
		return p[0]
	}

	last := len(p) - 1
	idx := math.Floor(value / maxValue * float64(last))

	switch {
	case math.IsNaN(idx) || idx < 0:
		return p[0]
	case idx > float64(last):
		return p[last]
	default:
		return p[int(idx)]
	}
}

// Lookup returns a copy of the named built-in palette.
func Lookup(name string) (Palette, error) {
	if name == "" {
		name = DefaultPalette
	}

	p, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}

	return slices.Clone(p), nil
}

// Names lists the built-in palette names in lexical order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var builtin = map[string]Palette{
	"classic": {
		{255, 255, 255}, {255, 240, 200}, {255, 220, 150}, {255, 190, 100},
		{255, 150, 60}, {240, 100, 40}, {220, 50, 30}, {180, 20, 20},
	},
	"viridis": {
		{68, 1, 84}, {72, 36, 117}, {65, 68, 135}, {53, 95, 141}, {42, 120, 142},
		{33, 145, 140}, {34, 168, 132}, {68, 191, 112}, {122, 209, 81}, {189, 223, 38},
		{253, 231, 37},
	},
	"magma": {
		{0, 0, 4}, {20, 14, 54}, {59, 15, 112}, {100, 26, 128}, {140, 41, 129},
		{183, 55, 121}, {222, 73, 104}, {247, 112, 92}, {254, 159, 109}, {254, 204, 143},
		{252, 253, 191},
	},
	"greens": {
		{247, 252, 245}, {229, 245, 224}, {199, 233, 192}, {161, 217, 155}, {116, 196, 118},
		{65, 171, 93}, {35, 139, 69}, {0, 109, 44}, {0, 68, 27},
	},
}
