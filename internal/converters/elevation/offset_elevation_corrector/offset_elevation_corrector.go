package offset_elevation_corrector

import (
	"github.com/ecopia-map/voxmesher/internal/converters"
	"github.com/shopspring/decimal"
)

type OffsetElevationCorrector struct {
	Offset decimal.Decimal
}

func NewOffsetElevationCorrector(offset decimal.Decimal) converters.ElevationCorrector {
	return &OffsetElevationCorrector{
		Offset: offset,
	}
}

func (c *OffsetElevationCorrector) CorrectElevation(z decimal.Decimal) decimal.Decimal {
	return z.Add(c.Offset)
}
