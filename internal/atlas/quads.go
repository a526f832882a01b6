package atlas

import (
	"fmt"
	"sort"

	"github.com/ecopia-map/voxmesher/internal/meshing"
	"github.com/shopspring/decimal"
)

// Atlas holds the placement of every quad of a mesh, Rects[i] belongs to the i-th quad
type Atlas struct {
	Width  int
	Height int
	Rects  []PackedRect
}

// PackQuads packs one Width x Height rectangle per quad. Larger quads are packed first, the returned
// rects follow the order of quads.
func PackQuads(quads []meshing.Quad, maxSize int) (Atlas, error) {
	order := make([]int, len(quads))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := quads[order[i]], quads[order[j]]
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.Width > b.Width
	})

	packer := NewPacker(maxSize)
	rects := make([]PackedRect, len(quads))
	for _, i := range order {
		r, err := packer.TryPack(quads[i].Width, quads[i].Height)
		if err != nil {
			return Atlas{}, fmt.Errorf("packing quad %d of %d: %w", i, len(quads), err)
		}
		rects[i] = r
	}

	if len(quads) == 0 {
		return Atlas{Rects: rects}, nil
	}
	width, height := packer.Size()
	return Atlas{Width: width, Height: height, Rects: rects}, nil
}

// UV returns the texture coordinates of a point of the atlas given in texels from the top-left corner
func (a Atlas) UV(x, y int) (decimal.Decimal, decimal.Decimal) {
	u := decimal.NewFromInt(int64(x)).Div(decimal.NewFromInt(int64(a.Width)))
	v := decimal.NewFromInt(int64(a.Height - y)).Div(decimal.NewFromInt(int64(a.Height)))
	return u, v
}
