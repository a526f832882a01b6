/*
 * This file is part of the voxmesher distribution (https://github.com/ecopia-map/voxmesher).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/pkg"
	"github.com/ecopia-map/voxmesher/pkg/algorithm_manager"
	"github.com/ecopia-map/voxmesher/tools"
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

const VERSION = "1.0.0"

const logo = `
                                        _
 __   _______  ___ __ ___   ___  ___| |__   ___ _ __
 \ \ / / _ \ \/ / '_ ' _ \ / _ \/ __| '_ \ / _ \ '__|
  \ V / (_) >  <| | | | | |  __/\__ \ | | |  __/ |
   \_/ \___/_/\_\_| |_| |_|\___||___/_| |_|\___|_|
  MagicaVoxel to OBJ mesh converter written in golang
  Copyright YYYY
`

func main() {
	// glog writes to files unless told otherwise
	_ = flag.Set("logtostderr", "true")
	defer glog.Flush()

	flagsGlobal := tools.ParseFlagsGlobal()
	glog.V(1).Infoln(tools.FmtJSONString(flagsGlobal))

	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		if *flagsGlobal.Help {
			showHelp(flag.CommandLine)
			return
		}
		glog.Exit("Please specify a subcommand [mesh|info].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandMesh:
		mainCommandMesh(args)
	case tools.CommandInfo:
		mainCommandInfo(args)
	default:
		glog.Exitf("Unrecognized command [%q]. Command must be one of [mesh|info]", cmd)
	}
}

func mainCommandMesh(args []string) {
	// Retrieve command line args, with the config file applied
	flags, flagSet, err := tools.ParseFlagsForCommandMesh(args)
	if err != nil {
		glog.Exit("Error parsing input parameters: ", err)
	}

	// Prints the command line flag description
	if *flags.Help {
		showHelp(flagSet)
		return
	}

	if *flags.Version {
		printVersion()
		return
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if *flags.LogTimestamp {
		tools.EnableLoggerTimestamp()
	}

	mesherFlags := flags.MesherFlags

	// Put args inside a MesherOptions struct
	opts := mesher.MesherOptions{
		Input:            *mesherFlags.Input,
		FolderProcessing: *mesherFlags.FolderProcessing,
		Recursive:        *mesherFlags.RecursiveFolderProcessing,
		MeshingType:      mesher.ParseMeshingType(*mesherFlags.MeshingType),
		MaterialMode:     mesher.ParseMaterialMode(*mesherFlags.MaterialMode),
		ReduceToHull:     *mesherFlags.ReduceToHull,
		MergeModels:      *mesherFlags.Merge,
		IncludeHidden:    *mesherFlags.IncludeHidden,
		MaxAtlasSize:     *mesherFlags.MaxAtlasSize,
		Command:          tools.CommandMesh,
		MeshOptions: &mesher.MeshOptions{
			Output:      *flags.Output,
			Report:      *flags.Report,
			MetricsFile: *flags.MetricsFile,
		},
	}

	// Validate MesherOptions
	if msg, res := validateOptionsForCommandMesh(&opts, &flags); !res {
		glog.Exit("Error parsing input parameters: " + msg)
	}

	var prometheusHook *metrics.PrometheusHook
	var hook metrics.Hook
	if opts.MeshOptions.MetricsFile != "" {
		prometheusHook = metrics.NewPrometheusHook()
		hook = prometheusHook
	}

	// Starts the mesher
	start := time.Now()
	report, err := pkg.NewMesher(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(&opts, hook)).RunMesher(&opts)
	if err != nil {
		glog.Exit("Error while meshing: ", err)
	}

	if prometheusHook != nil {
		if err := prometheusHook.WriteTextfile(opts.MeshOptions.MetricsFile); err != nil {
			glog.Exit("Error writing metrics: ", err)
		}
	}

	timeTrack(start, fmt.Sprintf("meshing of %d files", len(report.Files)))
	tools.LogOutput("Conversion Completed")
}

// Validates the input options provided to the command line tool checking
// that input exists and the output folder can be created
func validateOptionsForCommandMesh(opts *mesher.MesherOptions, flags *tools.FlagsForCommandMesh) (string, bool) {
	if opts.Input == "" {
		return "input file/folder is required", false
	}
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if opts.MeshOptions.Output == "" {
		return "output folder is required", false
	}
	if err := tools.CreateDirectoryIfDoesNotExist(opts.MeshOptions.Output); err != nil {
		return "Output folder cannot be created: " + err.Error(), false
	}

	voxelSize, err := decimal.NewFromString(*flags.VoxelSize)
	if err != nil || !voxelSize.IsPositive() {
		return "voxel-size should be a positive number", false
	}
	opts.VoxelSize = voxelSize

	zOffset, err := decimal.NewFromString(*flags.ZOffset)
	if err != nil {
		return "zoffset should be a number", false
	}
	opts.ZOffset = zOffset

	if opts.MeshingType == "" {
		return "meshing should be one of SIMPLE_CUBES, SIMPLE_QUADS or GREEDY", false
	}
	if opts.MaterialMode == "" {
		return "material should be one of NONE, VERTEX_COLOR, VERTEX_COLOR_PROP, MAT_PER_COLOR, MAT_PER_COLOR_PROP, MAT_AS_TEX, MAT_AS_TEX_PROP or ATLAS", false
	}
	if opts.MaxAtlasSize <= 0 {
		return "atlas-max-size should be greater than zero", false
	}

	return "", true
}

func mainCommandInfo(args []string) {
	flags, flagSet, err := tools.ParseFlagsForCommandInfo(args)
	if err != nil {
		glog.Exit("Error parsing input parameters: ", err)
	}

	if *flags.Help {
		showHelp(flagSet)
		return
	}
	if *flags.Silent {
		tools.DisableLogger()
	}

	opts := mesher.MesherOptions{
		Input:            *flags.Input,
		FolderProcessing: *flags.FolderProcessing,
		Recursive:        *flags.RecursiveFolderProcessing,
		Command:          tools.CommandInfo,
		InfoOptions: &mesher.InfoOptions{
			JSON: *flags.JSON,
		},
	}
	if _, err := os.Stat(opts.Input); opts.Input == "" || os.IsNotExist(err) {
		glog.Exit("Error parsing input parameters: Input file/folder not found")
	}

	if err := pkg.NewInspector(tools.NewStandardFileFinder(), os.Stdout).RunInspector(&opts); err != nil {
		glog.Exit("Error while reading: ", err)
	}
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp(flagSet *flag.FlagSet) {
	printLogo()
	fmt.Println("***")
	fmt.Println("voxmesher converts MagicaVoxel .vox scenes into Wavefront OBJ meshes with materials and textures")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: voxmesher [-v level] <mesh|info> [flags]")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flagSet.SetOutput(os.Stdout)
	flagSet.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
