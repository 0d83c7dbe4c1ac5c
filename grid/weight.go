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

import "github.com/ctessum/geom"

// clipBand clips the closed ring (u, v) to the band lo <= u <= hi and
// returns the clipped ring, closed again. Crossing points are found by
// linear interpolation in the plane.
func clipBand(u, v []float64, lo, hi float64) (cu, cv []float64) {
	cu = make([]float64, 0, 3*len(u))
	cv = make([]float64, 0, 3*len(v))
	for i := 0; i < len(u)-1; i++ {
		a, b := u[i], v[i]
		na, nb := u[i+1], v[i+1]
		if a < lo {
			if na > lo {
				b += (lo - a) * (nb - b) / (na - a)
				a = lo
			}
		} else if a > hi {
			if na < hi {
				b += (hi - a) * (nb - b) / (na - a)
				a = hi
			}
		}
		if a >= lo && a <= hi {
			cu = append(cu, a)
			cv = append(cv, b)
			if na < lo {
				cu = append(cu, lo)
				cv = append(cv, b+(lo-a)*(nb-b)/(na-a))
			} else if na > hi {
				cu = append(cu, hi)
				cv = append(cv, b+(hi-a)*(nb-b)/(na-a))
			}
		}
	}
	if len(cu) < 3 {
		return nil, nil
	}
	if cu[0] != cu[len(cu)-1] || cv[0] != cv[len(cv)-1] {
		cu = append(cu, cu[0])
		cv = append(cv, cv[0])
	}
	return cu, cv
}

// cellWeight returns the fraction of the cell bounded by latEdges and
// lonEdges (two values each) that is covered by r, computed in the Plate
// Carrée plane.
func cellWeight(r ring, latEdges, lonEdges []float64) float64 {
	if len(r.lat) < 3 {
		return 0
	}
	lat, lon := clipBand(r.lat, r.lon, latEdges[0], latEdges[1])
	if lat == nil {
		return 0
	}
	lon, lat = clipBand(lon, lat, lonEdges[0], lonEdges[1])
	if lon == nil {
		return 0
	}
	pts := make([]geom.Point, len(lat))
	for i := range lat {
		pts[i] = geom.Point{X: lon[i], Y: lat[i]}
	}
	cellArea := (latEdges[1] - latEdges[0]) * (lonEdges[1] - lonEdges[0])
	return geom.Polygon{pts}.Area() / cellArea
}
