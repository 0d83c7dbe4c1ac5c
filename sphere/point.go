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

// Package sphere implements computational geometry on the unit sphere:
// points, great-circle lines, polygons and the Euler rotations that tie
// them together. All angles are in radians unless a function name says
// otherwise.
package sphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// VectorEqual reports whether a and b are equal within Epsilon in each
// component.
func VectorEqual(a, b r3.Vec) bool {
	return fpEq(a.X, b.X) && fpEq(a.Y, b.Y) && fpEq(a.Z, b.Z)
}

// Point is a location on the unit sphere.
type Point struct {
	Lon, Lat float64
}

// PointFromDegrees returns the point at the given latitude and longitude
// in degrees. The result is not normalized.
func PointFromDegrees(lat, lon float64) Point {
	return Point{Lon: lon * deg2rad, Lat: lat * deg2rad}
}

// Degrees returns the latitude and longitude of p in degrees.
func (p Point) Degrees() (lat, lon float64) {
	return p.Lat * rad2deg, p.Lon * rad2deg
}

// Vector returns the Cartesian coordinates of p.
func (p Point) Vector() r3.Vec {
	return r3.Vec{
		X: math.Cos(p.Lat) * math.Cos(p.Lon),
		Y: math.Cos(p.Lat) * math.Sin(p.Lon),
		Z: math.Sin(p.Lat),
	}
}

// PointFromVector returns the point in the direction of v. A vector
// without an x-y component maps to a pole (or to (0,0) for the zero
// vector).
func PointFromVector(v r3.Vec) Point {
	var p Point
	rho := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if rho == 0 {
		switch {
		case v.Z > 0:
			p.Lat = math.Pi / 2
		case v.Z < 0:
			p.Lat = -math.Pi / 2
		}
	} else {
		p.Lat = math.Atan(v.Z / rho)
	}
	p.Lon = math.Atan2(v.Y, v.X)
	return p
}

// Check returns p with its latitude folded into [-π/2, π/2] and its
// longitude wrapped into [0, 2π).
func (p Point) Check() Point {
	latNegative := p.Lat < 0
	p.Lat -= math.Floor(p.Lat/(2*math.Pi)) * 2 * math.Pi
	p.Lon -= math.Floor(p.Lon/(2*math.Pi)) * 2 * math.Pi
	if p.Lon < 0 {
		p.Lon += 2 * math.Pi
	}
	if p.Lat > math.Pi {
		p.Lat -= 2 * math.Pi
	}
	if p.Lat > math.Pi/2 {
		p.Lat = math.Pi - p.Lat
		if p.Lon < math.Pi {
			p.Lon += math.Pi
		} else {
			p.Lon -= math.Pi
		}
	}
	if p.Lat < -math.Pi/2 {
		p.Lat = -math.Pi - p.Lat
		if p.Lon < math.Pi {
			p.Lon += math.Pi
		} else {
			p.Lon -= math.Pi
		}
	}
	if fpEq(p.Lat, math.Pi/2) && latNegative {
		p.Lat = -math.Pi / 2
	}
	if fpEq(p.Lon, 2*math.Pi) || fpZero(p.Lon) {
		p.Lon = 0
	}
	if fpZero(p.Lat) {
		p.Lat = 0
	}
	return p
}

// Equal reports whether p and q are the same location within Epsilon.
func (p Point) Equal(q Point) bool {
	return VectorEqual(p.Vector(), q.Vector())
}

// Distance returns the great-circle angle between p and q.
func (p Point) Distance(q Point) float64 {
	u, v := p.Vector(), q.Vector()
	// atan2 stays accurate for nearly equal points.
	d := math.Atan2(r3.Norm(r3.Cross(u, v)), r3.Dot(u, v))
	if fpZero(d) {
		return 0
	}
	return d
}

// DistanceMeters returns the distance between p and q along the surface
// of a spherical earth.
func (p Point) DistanceMeters(q Point) float64 {
	return p.Distance(q) * EarthRadius
}

// PointDistance returns the surface distance in meters between two
// points given in degrees, assuming a spherical earth.
func PointDistance(latA, lonA, latB, lonB float64) float64 {
	return PointFromDegrees(latA, lonA).DistanceMeters(PointFromDegrees(latB, lonB))
}

// PointAtDistanceAndAngle returns the point that lies distance meters away
// from p, in the direction of azimuth degrees measured clockwise from
// north when looking down on the sphere.
func PointAtDistanceAndAngle(p Point, distance, azimuth float64) Point {
	b := Point{Lat: distance / EarthRadius}.Check()
	e := Euler{
		PhiAxis:   AxisX,
		ThetaAxis: AxisY,
		PsiAxis:   AxisZ,
		Phi:       -azimuth * deg2rad,
		Theta:     -p.Lat,
		Psi:       p.Lon,
	}
	return e.Apply(b)
}
