package io

import (
	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/vox"
)

// Contains the minimal data needed to mesh a single model of a VOX file
type WorkUnit struct {
	ModelID int
	Shape   vox.Shape
	Palette *vox.Palette
	Opts    *mesher.MesherOptions
}
