package io

import (
	"sync"

	"github.com/ecopia-map/voxmesher/internal/vox"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, file *vox.File)
}

type Consumer interface {
	Consume(workchan chan *WorkUnit, results chan *Result, errchan chan error, waitGroup *sync.WaitGroup)
}
