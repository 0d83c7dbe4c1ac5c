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
	"math"

	"github.com/ctessum/geom"
)

// ring is a footprint in the Plate Carrée plane. The first vertex is
// repeated at the end.
type ring struct {
	lat, lon []float64
	bounds   geom.Bounds // X is longitude, Y is latitude
}

// footprint returns the vertices of a sample footprint with trailing NaN
// vertices and a closing vertex removed. Two vertices are taken as the
// corners of a bounding rectangle. ok is false if fewer than two vertices
// remain.
func footprint(lat, lon []float64) (plat, plon []float64, ok bool) {
	n := len(lat)
	for n > 0 && math.IsNaN(lat[n-1]) {
		n--
	}
	if n > 2 && lat[0] == lat[n-1] && lon[0] == lon[n-1] {
		n--
	}
	switch {
	case n == 2:
		return []float64{lat[0], lat[0], lat[1], lat[1]}, []float64{lon[0], lon[1], lon[1], lon[0]}, true
	case n < 2:
		return nil, nil, false
	}
	return lat[:n:n], lon[:n:n], true
}

// unwrapTo moves lon to within 180° of prev. Jumps of 1e4° or more are
// taken to be in a different unit range and are reduced with Wrap.
func unwrapTo(lon, prev float64) float64 {
	if d := lon - prev; d < -1e4 || d > 1e4 {
		return Wrap(lon, prev-180, prev+180)
	}
	for lon < prev-180 {
		lon += 360
	}
	for lon > prev+180 {
		lon -= 360
	}
	return lon
}

// makeRing unwraps the longitudes of a footprint so that consecutive
// vertices are never more than 180° apart, closes footprints that cover a
// pole via that pole, and moves the result to start within
// [refLon-360, refLon+180). ok is false for footprints that cover a pole
// and cross the equator, as the covered pole is then unknown.
func makeRing(lat, lon []float64, refLon float64) (r ring, ok bool) {
	n := len(lat)
	lat = append(make([]float64, 0, n+4), lat...)
	lon = append(make([]float64, 0, n+4), lon...)

	if lon[0] < refLon-180 {
		lon[0] += 360
	}
	if lon[0] >= refLon+180 {
		lon[0] -= 360
	}
	minLon, maxLon := lon[0], lon[0]
	minLat, maxLat := lat[0], lat[0]
	for i := 1; i < n; i++ {
		lon[i] = unwrapTo(lon[i], lon[i-1])
		if lat[i] < minLat {
			minLat = lat[i]
		} else if lat[i] > maxLat {
			maxLat = lat[i]
		}
		if lon[i] < minLon {
			minLon = lon[i]
		} else if lon[i] > maxLon {
			maxLon = lon[i]
		}
	}
	// The closing edge may end on a different longitude.
	closing := unwrapTo(lon[0], lon[n-1])
	if closing < minLon {
		minLon = closing
	} else if closing > maxLon {
		maxLon = closing
	}

	if math.Abs(maxLon-(minLon+360)) < 1e-4 {
		var pole float64
		switch {
		case maxLat > 0 && minLat < 0:
			return ring{}, false
		case maxLat > 0:
			pole = 90
			maxLat = 90
		case minLat < 0:
			pole = -90
			minLat = -90
		}
		if pole != 0 {
			// Follow the closing edge to the first longitude plus or minus
			// 360°, then go back along the pole.
			lat = append(lat, lat[0], pole, pole)
			lon = append(lon, closing, closing, lon[0])
		}
	}

	shift := 0.0
	if minLon < refLon-360 {
		shift = 360
	}
	for minLon+shift >= refLon+180 {
		shift -= 360
	}
	if shift != 0 {
		minLon += shift
		maxLon += shift
		for i := range lon {
			lon[i] += shift
		}
	}

	lat = append(lat, lat[0])
	lon = append(lon, lon[0])
	return ring{
		lat: lat,
		lon: lon,
		bounds: geom.Bounds{
			Min: geom.Point{X: minLon, Y: minLat},
			Max: geom.Point{X: maxLon, Y: maxLat},
		},
	}, true
}

// shift moves r by dLon degrees of longitude.
func (r *ring) shift(dLon float64) {
	for i := range r.lon {
		r.lon[i] += dLon
	}
	r.bounds.Min.X += dLon
	r.bounds.Max.X += dLon
}
