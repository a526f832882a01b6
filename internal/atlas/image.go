package atlas

import (
	"image"
	"image/color"

	"github.com/ecopia-map/voxmesher/internal/meshing"
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/shopspring/decimal"
)

// Render paints the atlas: texel (i, j) of the rect of quad k takes the color of the voxel behind face
// (i, j) of that quad. Texels outside every rect stay transparent.
func (a Atlas) Render(quads []meshing.Quad, volume octree.IVolume[uint8], colors func(index uint8) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, a.Width, a.Height))
	for k, q := range quads {
		r := a.Rects[k]
		for j := 0; j < q.Height; j++ {
			for i := 0; i < q.Width; i++ {
				cell := q.Cell(i, j)
				img.SetNRGBA(r.X+i, r.Y+j, colors(volume.Get(cell[0], cell[1], cell[2])))
			}
		}
	}
	return img
}

// CornerUV returns the texture coordinates of corner k of quad i
func (a Atlas) CornerUV(quads []meshing.Quad, i, k int) (decimal.Decimal, decimal.Decimal) {
	du, dv := quads[i].Tangent(k)
	r := a.Rects[i]
	return a.UV(r.X+du, r.Y+dv)
}
