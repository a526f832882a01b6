package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/voxmesher/internal/mesher"
)

const voxExtension = ".vox"

type FileFinder interface {
	GetVoxFilesToProcess(opts *mesher.MesherOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetVoxFilesToProcess(opts *mesher.MesherOptions) ([]string, error) {
	// If folder processing is not enabled then the vox file is given by -input flag, otherwise look for vox files
	// in -input folder eventually excluding nested folders if Recursive flag is disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}, nil
	}

	return f.getVoxFilesFromInputFolder(opts)
}

func (f *StandardFileFinder) getVoxFilesFromInputFolder(opts *mesher.MesherOptions) ([]string, error) {
	var voxFiles = make([]string, 0)

	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if !opts.Recursive && !os.SameFile(info, baseInfo) {
					return filepath.SkipDir
				}
			} else if strings.ToLower(filepath.Ext(info.Name())) == voxExtension {
				voxFiles = append(voxFiles, path)
			}
			return nil
		},
	)

	return voxFiles, err
}
