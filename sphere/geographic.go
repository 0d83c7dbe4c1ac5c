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

package sphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// The functions in this file take and return degrees.

func degreesFromVector(u r3.Vec) (lat, lon float64) {
	return math.Asin(u.Z) * rad2deg, math.Atan2(u.Y, u.X) * rad2deg
}

// GeographicAverage returns the point halfway between p and q along the
// great circle through them. If p and q are antipodal the plain average
// of the coordinates is returned, with the longitude moved to the short
// side of the dateline.
func GeographicAverage(latP, lonP, latQ, lonQ float64) (lat, lon float64) {
	u := r3.Scale(0.5, r3.Add(PointFromDegrees(latP, lonP).Vector(), PointFromDegrees(latQ, lonQ).Vector()))
	n := r3.Norm(u)
	if fpZero(n) {
		lat = (latP + latQ) / 2
		lon = (lonP + lonQ) / 2
		if d := lonP - lonQ; d > 180 || d < -180 {
			if lon > 0 {
				lon -= 180
			} else {
				lon += 180
			}
		}
		return lat, lon
	}
	return degreesFromVector(r3.Scale(1/n, u))
}

// GeographicIntersection returns the point where the great circle through
// p1 and p2 meets the great circle through q1 and q2, on the side where
// the four points form a crossing. The result is NaN if both great circles
// are the same.
func GeographicIntersection(latP1, lonP1, latP2, lonP2, latQ1, lonQ1, latQ2, lonQ2 float64) (lat, lon float64) {
	np := r3.Cross(PointFromDegrees(latP1, lonP1).Vector(), PointFromDegrees(latP2, lonP2).Vector())
	nq := r3.Cross(PointFromDegrees(latQ1, lonQ1).Vector(), PointFromDegrees(latQ2, lonQ2).Vector())
	u := r3.Cross(np, nq)
	n := r3.Norm(u)
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	return degreesFromVector(r3.Scale(1/n, u))
}

// GeographicExtrapolation returns the point u on the great circle through
// q and p, beyond p, such that u is as far from p as p is from q.
func GeographicExtrapolation(latP, lonP, latQ, lonQ float64) (lat, lon float64) {
	p := PointFromDegrees(latP, lonP).Vector()
	q := PointFromDegrees(latQ, lonQ).Vector()
	u := r3.Sub(r3.Scale(2*r3.Dot(p, q), p), q)
	return degreesFromVector(u)
}

// GeographicCenterFromBounds returns the centre of the footprint with the
// given vertices, in degrees. The longitude is in [-180, 180).
func GeographicCenterFromBounds(latBounds, lonBounds []float64) (lat, lon float64, err error) {
	p, err := PolygonFromLatLonBounds(latBounds, lonBounds)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	lat, lon = p.CentrePoint().Degrees()
	if lon >= 180 {
		lon -= 360
	}
	return lat, lon, nil
}
