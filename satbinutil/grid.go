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

	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/satbin/grid"
)

// WriteGrid writes the cells of g to filename, as a shapefile if the name
// ends in ".shp" and as GeoJSON otherwise. Each cell carries the latitude
// and longitude of its centre. The outlines are projected to proj4 unless
// it is empty or "+proj=longlat".
func WriteGrid(filename string, g *grid.Spec, proj4 string) error {
	var t proj.Transformer
	if proj4 != "" && strings.TrimSpace(proj4) != "+proj=longlat" {
		var err error
		if t, err = grid.Transformer(proj4); err != nil {
			return err
		}
	}
	lat, lon := g.CellCenters()
	values := grid.Values{
		"latitude":  make([]float64, g.NumCells()),
		"longitude": make([]float64, g.NumCells()),
	}
	for i := 0; i < g.NumCells(); i++ {
		r, c := g.CellIndex(i)
		values["latitude"][i] = lat[r]
		values["longitude"][i] = lon[c]
	}
	logrus.WithFields(logrus.Fields{
		"file":  filename,
		"cells": g.NumCells(),
	}).Info("writing grid")

	if strings.ToLower(filepath.Ext(filename)) == ".shp" {
		return g.WriteShapefile(filename, values, t)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("satbin: creating grid file: %v", err)
	}
	if err := g.WriteGeoJSON(f, values, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
