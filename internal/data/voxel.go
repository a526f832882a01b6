package data

import (
	"fmt"
	"image/color"
)

// Contains data of a single voxel of a model, namely its X,Y,Z cell coords and its palette color index
type Voxel struct {
	X     int
	Y     int
	Z     int
	Color uint8
}

// Builds a new Voxel from the given cell coordinates and color index
func NewVoxel(x, y, z int, color uint8) Voxel {
	return Voxel{
		X:     x,
		Y:     y,
		Z:     z,
		Color: color,
	}
}

// Contains the RGBA components of a palette entry
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Returns the color as a "#rrggbbaa" string
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
