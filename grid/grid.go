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

// Package grid matches geolocated samples to the cells of a regular
// latitude/longitude grid. Samples are either points, which fall in exactly
// one cell, or footprint polygons, which are spread over the cells they
// overlap with a weight equal to the covered fraction of each cell.
// All coordinates are in degrees.
package grid

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/spatialmodel/satbin/errs"
)

// Spec defines a grid by its cell edges. Cells are numbered in row-major
// order: cell = latIndex*NumLongitudeCells() + lonIndex.
type Spec struct {
	LatitudeEdges  []float64
	LongitudeEdges []float64
}

// Validate checks that the edges are strictly ascending, that latitudes
// are within [-90, 90] and that the longitudes span no more than 360°.
func (s *Spec) Validate() error {
	const op = "grid.Spec.Validate"
	if len(s.LatitudeEdges) < 2 {
		return errs.New(errs.InvalidArgument, op, "need at least 2 latitude edges to perform spatial binning")
	}
	if len(s.LongitudeEdges) < 2 {
		return errs.New(errs.InvalidArgument, op, "need at least 2 longitude edges to perform spatial binning")
	}
	for _, v := range s.LatitudeEdges {
		if !(v >= -90 && v <= 90) {
			return errs.New(errs.InvalidArgument, op, "latitude edge value (%g) needs to be in the range [-90,90] for spatial binning", v)
		}
	}
	for i := 1; i < len(s.LatitudeEdges); i++ {
		if !(s.LatitudeEdges[i] > s.LatitudeEdges[i-1]) {
			return errs.New(errs.InvalidArgument, op, "latitude edge values need to be in strict ascending order for spatial binning")
		}
	}
	for i := 1; i < len(s.LongitudeEdges); i++ {
		if !(s.LongitudeEdges[i] > s.LongitudeEdges[i-1]) {
			return errs.New(errs.InvalidArgument, op, "longitude edge values need to be in strict ascending order for spatial binning")
		}
	}
	if first, last := s.LongitudeEdges[0], s.LongitudeEdges[len(s.LongitudeEdges)-1]; last-first > 360 {
		return errs.New(errs.InvalidArgument, op, "longitude edge range (%g .. %g) cannot exceed 360 degrees", first, last)
	}
	return nil
}

// NumLatitudeCells returns the number of grid rows.
func (s *Spec) NumLatitudeCells() int { return len(s.LatitudeEdges) - 1 }

// NumLongitudeCells returns the number of grid columns.
func (s *Spec) NumLongitudeCells() int { return len(s.LongitudeEdges) - 1 }

// NumCells returns the total number of grid cells.
func (s *Spec) NumCells() int { return s.NumLatitudeCells() * s.NumLongitudeCells() }

// CellIndex returns the row and column of cell.
func (s *Spec) CellIndex(cell int) (latIndex, lonIndex int) {
	n := s.NumLongitudeCells()
	return cell / n, cell % n
}

// CellBounds returns the extent of cell, with longitude as X and latitude
// as Y.
func (s *Spec) CellBounds(cell int) *geom.Bounds {
	i, j := s.CellIndex(cell)
	return &geom.Bounds{
		Min: geom.Point{X: s.LongitudeEdges[j], Y: s.LatitudeEdges[i]},
		Max: geom.Point{X: s.LongitudeEdges[j+1], Y: s.LatitudeEdges[i+1]},
	}
}

// CellPolygon returns the outline of cell as a closed ring.
func (s *Spec) CellPolygon(cell int) geom.Polygon {
	b := s.CellBounds(cell)
	return geom.Polygon{{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
		b.Min,
	}}
}

// CellCenters returns the latitude and longitude of the centre of each grid
// row and column.
func (s *Spec) CellCenters() (lat, lon []float64) {
	lat = make([]float64, s.NumLatitudeCells())
	for i := range lat {
		lat[i] = (s.LatitudeEdges[i] + s.LatitudeEdges[i+1]) / 2
	}
	lon = make([]float64, s.NumLongitudeCells())
	for i := range lon {
		lon[i] = (s.LongitudeEdges[i] + s.LongitudeEdges[i+1]) / 2
	}
	return lat, lon
}

// Regular returns a grid with n cells of equal size spanning each axis.
func Regular(latMin, latMax float64, nLat int, lonMin, lonMax float64, nLon int) (*Spec, error) {
	if nLat < 1 || nLon < 1 {
		return nil, errs.New(errs.InvalidArgument, "grid.Regular", "number of cells (%d x %d) must be positive", nLat, nLon)
	}
	s := &Spec{
		LatitudeEdges:  edges(latMin, latMax, nLat),
		LongitudeEdges: edges(lonMin, lonMax, nLon),
	}
	return s, s.Validate()
}

func edges(min, max float64, n int) []float64 {
	e := make([]float64, n+1)
	d := (max - min) / float64(n)
	for i := range e {
		e[i] = min + float64(i)*d
	}
	// Keep the outer edge exact.
	e[n] = max
	return e
}

// Config holds a grid definition as read from a configuration file.
// Either the edges are listed explicitly, or the grid is regular and
// defined by its extent and number of cells.
type Config struct {
	LatitudeEdges  []float64
	LongitudeEdges []float64

	LatitudeMin, LatitudeMax   float64
	LongitudeMin, LongitudeMax float64
	LatitudeCells              int
	LongitudeCells             int
}

// Spec returns the grid that c describes.
func (c *Config) Spec() (*Spec, error) {
	if len(c.LatitudeEdges) > 0 || len(c.LongitudeEdges) > 0 {
		s := &Spec{LatitudeEdges: c.LatitudeEdges, LongitudeEdges: c.LongitudeEdges}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("parsing grid configuration: %v", err)
		}
		return s, nil
	}
	s, err := Regular(c.LatitudeMin, c.LatitudeMax, c.LatitudeCells, c.LongitudeMin, c.LongitudeMax, c.LongitudeCells)
	if err != nil {
		return nil, fmt.Errorf("parsing grid configuration: %v", err)
	}
	return s, nil
}

// LoadSpec reads a grid definition in TOML format from r.
func LoadSpec(r io.Reader) (*Spec, error) {
	c := new(Config)
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("parsing grid configuration: %v", err)
	}
	return c.Spec()
}

// findIndex returns i such that edges[i] <= x < edges[i+1]. A value equal
// to the last edge belongs to the last interval. The result is -1 for
// values below the first edge or NaN, and len(edges)-1 for values above
// the last edge.
func findIndex(edges []float64, x float64) int {
	n := len(edges)
	switch {
	case math.IsNaN(x) || x < edges[0]:
		return -1
	case x == edges[n-1]:
		return n - 2
	case x > edges[n-1]:
		return n - 1
	}
	return sort.Search(n, func(i int) bool { return edges[i] > x }) - 1
}
