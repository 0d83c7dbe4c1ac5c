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

import "github.com/spatialmodel/satbin/errs"

// Assignment links a sample to a grid cell.
type Assignment struct {
	Cell   int     // row-major cell index
	Weight float64 // fraction of the cell covered by the sample
}

// MatchPoints returns the cell that each sample point falls in. Samples
// outside the grid get no assignment. Within the grid the lower edge of a
// cell is inclusive and the upper edge exclusive, except for the outermost
// upper edges which belong to the last row and column. Longitudes are
// first wrapped into [LongitudeEdges[0], LongitudeEdges[0]+360).
func (s *Spec) MatchPoints(lat, lon []float64) ([][]Assignment, error) {
	if len(lat) != len(lon) {
		return nil, errs.New(errs.InvalidArgument, "grid.Spec.MatchPoints", "number of latitudes (%d) and longitudes (%d) differ", len(lat), len(lon))
	}
	nLon := s.NumLongitudeCells()
	all := make([]Assignment, 0, len(lat))
	offsets := make([]int, len(lat)+1)
	for i := range lat {
		offsets[i] = len(all)
		latIndex := findIndex(s.LatitudeEdges, lat[i])
		if latIndex < 0 || latIndex >= s.NumLatitudeCells() {
			continue
		}
		l0 := s.LongitudeEdges[0]
		lonIndex := findIndex(s.LongitudeEdges, Wrap(lon[i], l0, l0+360))
		if lonIndex < 0 || lonIndex >= nLon {
			continue
		}
		all = append(all, Assignment{Cell: latIndex*nLon + lonIndex, Weight: 1})
	}
	offsets[len(lat)] = len(all)
	return split(all, offsets), nil
}

func split(all []Assignment, offsets []int) [][]Assignment {
	out := make([][]Assignment, len(offsets)-1)
	for i := range out {
		if offsets[i+1] > offsets[i] {
			out[i] = all[offsets[i]:offsets[i+1]:offsets[i+1]]
		}
	}
	return out
}

// MatchBounds returns the cells that each sample footprint overlaps,
// together with the fraction of each cell that the footprint covers.
// latBounds and lonBounds hold numVertices vertices per sample. Edges
// between vertices are straight lines in the Plate Carrée plane. A
// footprint is also matched shifted by 360° of longitude, so footprints
// crossing the end of the grid wrap around to its start.
//
// Footprints with fewer than two vertices, and footprints that encircle a
// pole while crossing the equator, get no assignments.
func (s *Spec) MatchBounds(latBounds, lonBounds []float64, numVertices int) ([][]Assignment, error) {
	const op = "grid.Spec.MatchBounds"
	if numVertices < 1 || len(latBounds)%numVertices != 0 {
		return nil, errs.New(errs.InvalidArgument, op, "latitude bounds length (%d) is not a multiple of the number of vertices (%d)", len(latBounds), numVertices)
	}
	if len(lonBounds) != len(latBounds) {
		return nil, errs.New(errs.InvalidVariable, op, "latitude_bounds and longitude_bounds variables should have the same length for the independent dimension")
	}
	n := len(latBounds) / numVertices
	m := &matcher{
		s:      s,
		minLat: make([]int, s.NumLongitudeCells()+2),
		maxLat: make([]int, s.NumLongitudeCells()+2),
		minLon: make([]int, s.NumLatitudeCells()+2),
		maxLon: make([]int, s.NumLatitudeCells()+2),
	}
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i] = len(m.all)
		lat, lon, ok := footprint(latBounds[i*numVertices:(i+1)*numVertices], lonBounds[i*numVertices:(i+1)*numVertices])
		if !ok {
			continue
		}
		r, ok := makeRing(lat, lon, s.LongitudeEdges[0])
		if !ok {
			continue
		}
		if r.bounds.Max.Y <= s.LatitudeEdges[0] || r.bounds.Min.Y >= s.LatitudeEdges[len(s.LatitudeEdges)-1] {
			continue
		}
		for pass := 0; pass < 2; pass++ {
			if pass == 1 {
				r.shift(360)
			}
			if r.bounds.Max.X <= s.LongitudeEdges[0] || r.bounds.Min.X >= s.LongitudeEdges[len(s.LongitudeEdges)-1] {
				continue
			}
			m.match(r)
		}
	}
	offsets[n] = len(m.all)
	return split(m.all, offsets), nil
}

// matcher holds the state of the cell search for one footprint pass.
// minLat and maxLat hold the lowest and highest row touched in each column
// and minLon and maxLon the lowest and highest column touched in each row,
// offset by one so that positions just outside the grid can be recorded.
type matcher struct {
	s                  *Spec
	all                []Assignment
	start              int
	minLat, maxLat     []int
	minLon, maxLon     []int
	latIndex, lonIndex int
}

// match adds the cells that r overlaps to m.all.
func (m *matcher) match(r ring) {
	s := m.s
	nLat, nLon := s.NumLatitudeCells(), s.NumLongitudeCells()
	latEdges, lonEdges := s.LatitudeEdges, s.LongitudeEdges
	m.start = len(m.all)
	for j := range m.minLat {
		m.minLat[j] = nLat
		m.maxLat[j] = -1
	}
	for j := range m.minLon {
		m.minLon[j] = nLon
		m.maxLon[j] = -1
	}

	// Walk along the edges of the footprint and record each cell crossed.
	m.latIndex = findIndex(latEdges, r.lat[0])
	m.lonIndex = findIndex(lonEdges, r.lon[0])
	m.visit()
	for j := 0; j < len(r.lat)-1; j++ {
		lat, lon := r.lat[j], r.lon[j]
		nextLat, nextLon := r.lat[j+1], r.lon[j+1]
		nextLatIndex := findIndex(latEdges, nextLat)
		nextLonIndex := findIndex(lonEdges, nextLon)
		for m.latIndex != nextLatIndex || m.lonIndex != nextLonIndex {
			switch {
			case nextLatIndex != m.latIndex:
				// The row edge that the segment leaves the current cell by.
				var edge float64
				if nextLatIndex > m.latIndex {
					edge = latEdges[m.latIndex+1]
				} else {
					edge = latEdges[m.latIndex]
				}
				slope := (nextLon - lon) / (nextLat - lat)
				switch {
				case nextLonIndex > m.lonIndex && lon+(edge-lat)*slope > lonEdges[m.lonIndex+1]:
					lat += (lonEdges[m.lonIndex+1] - lon) / slope
					lon = lonEdges[m.lonIndex+1]
					m.lonIndex++
				case nextLonIndex < m.lonIndex && lon+(edge-lat)*slope < lonEdges[m.lonIndex]:
					lat += (lonEdges[m.lonIndex] - lon) / slope
					lon = lonEdges[m.lonIndex]
					m.lonIndex--
				default:
					lon += (edge - lat) * slope
					lat = edge
					if nextLatIndex > m.latIndex {
						m.latIndex++
					} else {
						m.latIndex--
					}
				}
			default:
				slope := (nextLat - lat) / (nextLon - lon)
				if nextLonIndex > m.lonIndex {
					lat += (lonEdges[m.lonIndex+1] - lon) * slope
					lon = lonEdges[m.lonIndex+1]
					m.lonIndex++
				} else {
					lat += (lonEdges[m.lonIndex] - lon) * slope
					lon = lonEdges[m.lonIndex]
					m.lonIndex--
				}
			}
			m.visit()
		}
	}

	// Boundary cells are only partly covered.
	for k := m.start; k < len(m.all); k++ {
		i, j := s.CellIndex(m.all[k].Cell)
		m.all[k].Weight = cellWeight(r, latEdges[i:i+2], lonEdges[j:j+2])
	}

	// Cells between the boundary cells of both their row and their column
	// are inside the footprint.
	end := len(m.all)
	for i := 0; i < nLat; i++ {
		if m.minLon[i+1] >= m.maxLon[i+1] {
			continue
		}
		for j := m.minLon[i+1] + 1; j < m.maxLon[i+1]; j++ {
			if i <= m.minLat[j+1] || i >= m.maxLat[j+1] {
				continue
			}
			cell := i*nLon + j
			if m.contains(cell, end) {
				continue
			}
			m.all = append(m.all, Assignment{
				Cell:   cell,
				Weight: cellWeight(r, latEdges[i:i+2], lonEdges[j:j+2]),
			})
		}
	}

	// Cells that are only touched along an edge or corner.
	k := m.start
	for _, a := range m.all[m.start:] {
		if a.Weight > 0 {
			m.all[k] = a
			k++
		}
	}
	m.all = m.all[:k]
}

// visit records the current cell, adding it to the assignments if it is
// inside the grid and was not reached before.
func (m *matcher) visit() {
	i, j := m.latIndex, m.lonIndex
	nLat, nLon := m.s.NumLatitudeCells(), m.s.NumLongitudeCells()
	if j >= 0 && j < nLon && i >= 0 && i < nLat {
		if j < m.minLon[i+1] || j > m.maxLon[i+1] || i < m.minLat[j+1] || i > m.maxLat[j+1] {
			m.all = append(m.all, Assignment{Cell: i*nLon + j, Weight: 1})
		}
	}
	if i < m.minLat[j+1] {
		m.minLat[j+1] = i
	}
	if i > m.maxLat[j+1] {
		m.maxLat[j+1] = i
	}
	if j < m.minLon[i+1] {
		m.minLon[i+1] = j
	}
	if j > m.maxLon[i+1] {
		m.maxLon[i+1] = j
	}
}

// contains reports whether cell was assigned in the current pass before
// position end.
func (m *matcher) contains(cell, end int) bool {
	for _, a := range m.all[m.start:end] {
		if a.Cell == cell {
			return true
		}
	}
	return false
}
