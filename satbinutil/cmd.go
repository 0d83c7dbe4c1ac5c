/*
Copyright © 2026 the SatBin authors.
This file is part of SatBin.

SatBin is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SatBin is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SatBin.  If not, see <http://www.gnu.org/licenses/>.
*/

package satbinutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/satbin"
	"github.com/spatialmodel/satbin/wgs84"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	gridSets := []*pflag.FlagSet{binSpatialCmd.Flags(), gridCmd.Flags()}

	// Options are the configuration options available to SatBin.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the verbosity of log messages. Valid levels are
              "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the netCDF product to be binned.
              It can contain environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{binCmd.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the output should be written.
              The bin commands write netCDF. The grid command writes a shapefile
              if the path ends in ".shp" and GeoJSON otherwise.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{binCmd.PersistentFlags(), gridCmd.Flags()},
		},
		{
			name: "Grid.File",
			usage: `
              Grid.File is the path to a TOML file describing the output grid.
              If it is set, the other Grid options are ignored.`,
			defaultVal: "",
			flagsets:   gridSets,
		},
		{
			name: "Grid.LatitudeEdges",
			usage: `
              Grid.LatitudeEdges lists the latitude cell edges of the output grid
              in degrees, in strictly increasing order. If it is empty the grid
              is regular and defined by Grid.LatitudeMin, Grid.LatitudeMax and
              Grid.LatitudeCells.`,
			defaultVal: []string{},
			flagsets:   gridSets,
		},
		{
			name: "Grid.LongitudeEdges",
			usage: `
              Grid.LongitudeEdges lists the longitude cell edges of the output grid
              in degrees, in strictly increasing order.`,
			defaultVal: []string{},
			flagsets:   gridSets,
		},
		{
			name: "Grid.LatitudeMin",
			usage: `
              Grid.LatitudeMin is the southern edge of a regular grid in degrees.`,
			defaultVal: -90.0,
			flagsets:   gridSets,
		},
		{
			name: "Grid.LatitudeMax",
			usage: `
              Grid.LatitudeMax is the northern edge of a regular grid in degrees.`,
			defaultVal: 90.0,
			flagsets:   gridSets,
		},
		{
			name: "Grid.LatitudeCells",
			usage: `
              Grid.LatitudeCells is the number of rows of a regular grid.`,
			defaultVal: 180,
			flagsets:   gridSets,
		},
		{
			name: "Grid.LongitudeMin",
			usage: `
              Grid.LongitudeMin is the western edge of a regular grid in degrees.`,
			defaultVal: -180.0,
			flagsets:   gridSets,
		},
		{
			name: "Grid.LongitudeMax",
			usage: `
              Grid.LongitudeMax is the eastern edge of a regular grid in degrees.`,
			defaultVal: 180.0,
			flagsets:   gridSets,
		},
		{
			name: "Grid.LongitudeCells",
			usage: `
              Grid.LongitudeCells is the number of columns of a regular grid.`,
			defaultVal: 360,
			flagsets:   gridSets,
		},
		{
			name: "binexpr",
			usage: `
              binexpr is an arithmetic expression over one-dimensional time
              variables whose floored value selects the time bin of each sample,
              for example "floor(datetime / 86400)".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{binCmd.PersistentFlags()},
		},
		{
			name: "binvars",
			usage: `
              binvars lists one-dimensional time variables. Samples with equal
              values for all of them are put in the same time bin. It is
              ignored if binexpr is set.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{binCmd.PersistentFlags()},
		},
		{
			name: "PropagateUncertaintyCorrelated",
			usage: `
              PropagateUncertaintyCorrelated specifies whether total uncertainty
              variables are averaged as fully correlated errors when binning in
              time. If false they are combined in quadrature.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{binCmd.PersistentFlags()},
		},
		{
			name: "proj",
			usage: `
              proj gives the spatial reference of the grid cells written by the
              grid command, in Proj4 format.`,
			defaultVal: "+proj=longlat",
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SATBIN")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(binCmd)
	binCmd.AddCommand(binSpatialCmd)
	binCmd.AddCommand(binTimeCmd)
	Root.AddCommand(gridCmd)
	Root.AddCommand(distanceCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("satbin: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("satbin: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "satbin",
	Short: "Spatial and temporal binning of satellite products.",
	Long: `SatBin reduces satellite measurement products by averaging samples
that fall in the same time bin or the same latitude/longitude grid cell.
Use the subcommands specified below to access its functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SATBIN_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores. File paths
are allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SatBin.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SatBin v%s\n", satbin.Version)
	},
	DisableAutoGenTag: true,
}

var binCmd = &cobra.Command{
	Use:   "bin",
	Short: "Bin a product.",
	Long: `bin reads a product from InputFile, reduces it and writes the
result to OutputFile. Use the subcommands specified below to choose
between spatial and temporal binning.`,
	DisableAutoGenTag: true,
}

// binTimeCmd bins a product in time.
var binTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Bin a product in time.",
	Long: `time averages samples that share a time bin. Bins are selected
with binexpr or binvars; if neither is set all samples are combined
into a single bin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out, err := inOutFiles(Cfg)
		if err != nil {
			return err
		}
		return BinTime(in, out, Cfg.GetString("binexpr"), expandStringSlice(Cfg.GetStringSlice("binvars")), binOptions(Cfg))
	},
	DisableAutoGenTag: true,
}

// binSpatialCmd bins a product onto a latitude/longitude grid.
var binSpatialCmd = &cobra.Command{
	Use:   "spatial",
	Short: "Bin a product onto a latitude/longitude grid.",
	Long: `spatial averages samples onto the grid given by the Grid options.
Samples are weighted by the area of their footprint that falls in
each cell if the product carries latitude_bounds and longitude_bounds,
and assigned to the cell containing their center otherwise. Separate
time bins can be kept with binexpr or binvars.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out, err := inOutFiles(Cfg)
		if err != nil {
			return err
		}
		g, err := GridSpec(Cfg)
		if err != nil {
			return err
		}
		return BinSpatial(in, out, g, Cfg.GetString("binexpr"), expandStringSlice(Cfg.GetStringSlice("binvars")), binOptions(Cfg))
	},
	DisableAutoGenTag: true,
}

// gridCmd writes the output grid to a file.
var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Write the output grid",
	Long: `grid writes the cells of the grid given by the Grid options to
OutputFile, so that it can be inspected in a GIS program.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		g, err := GridSpec(Cfg)
		if err != nil {
			return err
		}
		return WriteGrid(out, g, Cfg.GetString("proj"))
	},
	DisableAutoGenTag: true,
}

// distanceCmd prints the geodesic distance between two points.
var distanceCmd = &cobra.Command{
	Use:   "distance latA lonA latB lonB",
	Short: "Print the distance between two points",
	Long: `distance prints the distance between two points on the WGS84
ellipsoid. The coordinates are given in degrees. Put "--" before
the coordinates if any of them is negative.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := make([]float64, len(args))
		for i, a := range args {
			v, err := cast.ToFloat64E(a)
			if err != nil {
				return fmt.Errorf("satbin: invalid coordinate %q: %v", a, err)
			}
			c[i] = v
		}
		cmd.Printf("%v\n", wgs84.Distance(c[0], c[1], c[2], c[3]))
		return nil
	},
	DisableAutoGenTag: true,
}
