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

package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
)

// Values holds per-cell values to export with the grid, keyed by name.
// Each slice has one value per cell.
type Values map[string][]float64

func (v Values) names(numCells int) ([]string, error) {
	names := make([]string, 0, len(v))
	for name, vals := range v {
		if len(vals) != numCells {
			return nil, fmt.Errorf("grid: variable %s has %d values but the grid has %d cells", name, len(vals), numCells)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// cellGeometries returns the outline of every cell, transformed by t if
// it is not nil.
func (s *Spec) cellGeometries(t proj.Transformer) ([]geom.Geom, error) {
	out := make([]geom.Geom, s.NumCells())
	for i := range out {
		var g geom.Geom = s.CellPolygon(i)
		if t != nil {
			var err error
			if g, err = g.Transform(t); err != nil {
				return nil, err
			}
		}
		out[i] = g
	}
	return out, nil
}

// Transformer returns a transform from longitude/latitude to the spatial
// reference given in Proj4 format.
func Transformer(proj4 string) (proj.Transformer, error) {
	src, err := proj.Parse("+proj=longlat")
	if err != nil {
		return nil, err
	}
	dst, err := proj.Parse(proj4)
	if err != nil {
		return nil, fmt.Errorf("grid: parsing output projection: %v", err)
	}
	return src.NewTransform(dst)
}

type feature struct {
	Type       string             `json:"type"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties map[string]float64 `json:"properties"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*feature `json:"features"`
}

// WriteGeoJSON writes the grid cells to w as a GeoJSON feature collection.
// Each feature has the properties "row" and "column" plus one property
// per entry in values. If t is not nil the cell outlines are transformed
// with it.
func (s *Spec) WriteGeoJSON(w io.Writer, values Values, t proj.Transformer) error {
	names, err := values.names(s.NumCells())
	if err != nil {
		return err
	}
	geoms, err := s.cellGeometries(t)
	if err != nil {
		return err
	}
	fc := featureCollection{Type: "FeatureCollection", Features: make([]*feature, len(geoms))}
	for i, g := range geoms {
		gj, err := geojson.ToGeoJSON(g)
		if err != nil {
			return err
		}
		row, col := s.CellIndex(i)
		props := map[string]float64{"row": float64(row), "column": float64(col)}
		for _, name := range names {
			props[name] = values[name][i]
		}
		fc.Features[i] = &feature{Type: "Feature", Geometry: gj, Properties: props}
	}
	return json.NewEncoder(w).Encode(fc)
}

// WriteShapefile writes the grid cells to a shapefile with fields "row",
// "column" and one field per entry in values. If t is not nil the cell
// outlines are transformed with it.
func (s *Spec) WriteShapefile(filename string, values Values, t proj.Transformer) error {
	names, err := values.names(s.NumCells())
	if err != nil {
		return err
	}
	geoms, err := s.cellGeometries(t)
	if err != nil {
		return err
	}
	fields := []goshp.Field{goshp.NumberField("row", 10), goshp.NumberField("column", 10)}
	for _, name := range names {
		fields = append(fields, goshp.FloatField(name, 20, 6))
	}
	e, err := shp.NewEncoderFromFields(filename, goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("grid: creating shapefile: %v", err)
	}
	defer e.Close()
	for i, g := range geoms {
		row, col := s.CellIndex(i)
		vals := make([]interface{}, 0, len(fields))
		vals = append(vals, row, col)
		for _, name := range names {
			vals = append(vals, values[name][i])
		}
		if err := e.EncodeFields(g, vals...); err != nil {
			return fmt.Errorf("grid: writing shapefile: %v", err)
		}
	}
	return nil
}
