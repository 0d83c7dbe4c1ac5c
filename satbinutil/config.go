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
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/satbin"
	"github.com/spatialmodel/satbin/grid"
	"github.com/spf13/cast"
)

// GridSpec returns the output grid described by the Grid.* options in cfg.
// If Grid.File is set, the grid is read from that TOML file instead.
func GridSpec(cfg *viper.Viper) (*grid.Spec, error) {
	if f := cfg.GetString("Grid.File"); f != "" {
		r, err := os.Open(os.ExpandEnv(f))
		if err != nil {
			return nil, fmt.Errorf("satbin: opening grid file: %v", err)
		}
		defer r.Close()
		return grid.LoadSpec(r)
	}
	latEdges, err := floatSlice(cfg.Get("Grid.LatitudeEdges"))
	if err != nil {
		return nil, fmt.Errorf("parsing grid configuration: Grid.LatitudeEdges: %v", err)
	}
	lonEdges, err := floatSlice(cfg.Get("Grid.LongitudeEdges"))
	if err != nil {
		return nil, fmt.Errorf("parsing grid configuration: Grid.LongitudeEdges: %v", err)
	}
	c := &grid.Config{
		LatitudeEdges:  latEdges,
		LongitudeEdges: lonEdges,
		LatitudeMin:    cfg.GetFloat64("Grid.LatitudeMin"),
		LatitudeMax:    cfg.GetFloat64("Grid.LatitudeMax"),
		LatitudeCells:  cfg.GetInt("Grid.LatitudeCells"),
		LongitudeMin:   cfg.GetFloat64("Grid.LongitudeMin"),
		LongitudeMax:   cfg.GetFloat64("Grid.LongitudeMax"),
		LongitudeCells: cfg.GetInt("Grid.LongitudeCells"),
	}
	return c.Spec()
}

// floatSlice converts a configuration value, which can be a list from a
// configuration file, a list of flag strings or a space separated string
// from an environment variable, into floats.
func floatSlice(v interface{}) ([]float64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		v = strings.Trim(strings.Replace(t, ",", " ", -1), "[]")
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(s))
	for i, x := range s {
		o[i], err = cast.ToFloat64E(x)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// binOptions returns the binning options set in cfg. Log records go to
// the standard logger.
func binOptions(cfg *viper.Viper) *satbin.Options {
	return &satbin.Options{
		Log:                            logrus.StandardLogger(),
		PropagateUncertaintyCorrelated: cfg.GetBool("PropagateUncertaintyCorrelated"),
	}
}

// inOutFiles returns the input and output files of the bin commands.
func inOutFiles(cfg *viper.Viper) (in, out string, err error) {
	in = os.ExpandEnv(cfg.GetString("InputFile"))
	if in == "" {
		return "", "", fmt.Errorf(`you need to specify an input file configuration variable (for example: InputFile="product.nc")`)
	}
	out, err = checkOutputFile(cfg.GetString("OutputFile"))
	return in, out, err
}

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("satbin: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}
