package io

import (
	"sync"

	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/vox"
)

type StandardProducer struct {
	options *mesher.MesherOptions
	// models to mesh, nil for all of them
	models map[int]bool
}

// Builds a producer submitting the models listed in models, or every model when models is nil
func NewStandardProducer(options *mesher.MesherOptions, models map[int]bool) *StandardProducer {
	return &StandardProducer{
		options: options,
		models:  models,
	}
}

// Submits one WorkUnit per model of the file to the provided workchannel.
// Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, file *vox.File) {
	for id, shape := range file.Shapes {
		if p.models != nil && !p.models[id] {
			continue
		}
		work <- &WorkUnit{
			ModelID: id,
			Shape:   shape,
			Palette: &file.Palette,
			Opts:    p.options,
		}
	}
	close(work)
	wg.Done()
}
