package tools

import (
	"flag"
	"fmt"

	"github.com/golang/glog"
)

const (
	CommandMesh = "mesh"
	CommandInfo = "info"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type InputFlags struct {
	Input                     *string `json:"input"`
	FolderProcessing          *bool   `json:"folder"`
	RecursiveFolderProcessing *bool   `json:"recursive"`
}

type MesherFlags struct {
	InputFlags
	VoxelSize     *string `json:"voxel_size"`
	ZOffset       *string `json:"zoffset"`
	MeshingType   *string `json:"meshing"`
	MaterialMode  *string `json:"material"`
	ReduceToHull  *bool   `json:"hull"`
	Merge         *bool   `json:"merge"`
	IncludeHidden *bool   `json:"include_hidden"`
	MaxAtlasSize  *int    `json:"atlas_max_size"`
}

type FlagsForCommandMesh struct {
	MesherFlags
	Output       *string `json:"output"`
	Report       *bool   `json:"report"`
	MetricsFile  *string `json:"metrics_file"`
	Config       *string `json:"config"`
	Silent       *bool   `json:"silent"`
	LogTimestamp *bool   `json:"timestamp"`
	Help         *bool   `json:"help"`
	Version      *bool   `json:"version"`
}

type FlagsForCommandInfo struct {
	InputFlags
	JSON   *bool `json:"json"`
	Silent *bool `json:"silent"`
	Help   *bool `json:"help"`
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	// -v is the glog verbosity
	version := defineBoolFlag("version", "", false, "Displays the version of voxmesher.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineInputFlags(flagCommand *flag.FlagSet) InputFlags {
	return InputFlags{
		Input:                     defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input vox file/folder."),
		FolderProcessing:          defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all vox files from input folder. Input must be a folder if specified"),
		RecursiveFolderProcessing: defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all .vox files inside the subfolders"),
	}
}

// Parses the flags of the mesh command. Options of the -config file apply to every flag not given in args.
func ParseFlagsForCommandMesh(args []string) (FlagsForCommandMesh, *flag.FlagSet, error) {
	glog.V(1).Infoln("mesh args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-mesh", flag.ExitOnError)

	flags := FlagsForCommandMesh{
		MesherFlags: MesherFlags{
			InputFlags:    defineInputFlags(flagCommand),
			VoxelSize:     defineStringFlagCommand(flagCommand, "voxel-size", "", "1", "Edge length of a voxel in output units."),
			ZOffset:       defineStringFlagCommand(flagCommand, "zoffset", "z", "0", "Vertical offset to apply to vertices, in output units."),
			MeshingType:   defineStringFlagCommand(flagCommand, "meshing", "m", "GREEDY", "Surface extraction method, one of SIMPLE_CUBES, SIMPLE_QUADS or GREEDY."),
			MaterialMode:  defineStringFlagCommand(flagCommand, "material", "c", "MAT_PER_COLOR", "How colors are exported, one of NONE, VERTEX_COLOR, VERTEX_COLOR_PROP, MAT_PER_COLOR, MAT_PER_COLOR_PROP, MAT_AS_TEX, MAT_AS_TEX_PROP or ATLAS."),
			ReduceToHull:  defineBoolFlagCommand(flagCommand, "hull", "", false, "Removes the voxels that do not touch outside space before meshing."),
			Merge:         defineBoolFlagCommand(flagCommand, "merge", "", false, "Writes all model instances into a single object."),
			IncludeHidden: defineBoolFlagCommand(flagCommand, "include-hidden", "", false, "Also exports instances of hidden nodes and layers."),
			MaxAtlasSize:  defineIntFlagCommand(flagCommand, "atlas-max-size", "", 4096, "Largest atlas side in texels, models needing more use the palette texture."),
		},
		Output:       defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to write the meshes."),
		Report:       defineBoolFlagCommand(flagCommand, "report", "", false, "Writes a report.json summary into the output folder."),
		MetricsFile:  defineStringFlagCommand(flagCommand, "metrics-file", "", "", "Writes per stage timings to this Prometheus textfile."),
		Config:       defineStringFlagCommand(flagCommand, "config", "", "", "YAML file with default values for the flags above."),
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of voxmesher."),
	}

	if err := flagCommand.Parse(args); err != nil {
		return flags, flagCommand, err
	}

	if *flags.Config != "" {
		values, err := LoadConfigFile(*flags.Config)
		if err != nil {
			return flags, flagCommand, err
		}
		if err := ApplyConfig(flagCommand, values); err != nil {
			return flags, flagCommand, fmt.Errorf("config %s: %w", *flags.Config, err)
		}
	}

	return flags, flagCommand, nil
}

func ParseFlagsForCommandInfo(args []string) (FlagsForCommandInfo, *flag.FlagSet, error) {
	flagCommand := flag.NewFlagSet("command-info", flag.ExitOnError)

	flags := FlagsForCommandInfo{
		InputFlags: defineInputFlags(flagCommand),
		JSON:       defineBoolFlagCommand(flagCommand, "json", "j", false, "Prints the summary as JSON."),
		Silent:     defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		Help:       defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
	}

	err := flagCommand.Parse(args)
	return flags, flagCommand, err
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
