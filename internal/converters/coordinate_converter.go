package converters

import "github.com/shopspring/decimal"

// Converts a lattice point of a model, in voxel units, into an output vertex position
type CoordinateConverter interface {
	ConvertVertex(p [3]int) [3]decimal.Decimal
	// Rotates a face normal into output space
	ConvertNormal(n [3]int) [3]int
	// True when the conversion mirrors space, reversing the winding of faces
	Mirrors() bool
}

// Adjusts the vertical coordinate of converted vertices
type ElevationCorrector interface {
	CorrectElevation(z decimal.Decimal) decimal.Decimal
}
