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

// Package wgs84 provides geodesy on the WGS84 reference ellipsoid.
// Angles are in degrees and lengths in meters.
package wgs84

import (
	"math"

	"github.com/ctessum/unit"
)

// Ellipsoid constants.
const (
	SemiMajorAxis  = 6378137.0     // a [m]
	SemiMinorAxis  = 6356752.3142  // b [m]
	Flattening     = 0.003352811   // f = (a-b)/a
	Eccentricity   = 0.081819      // e = sqrt(a²-b²)/a
	GM             = 3986004.418e8 // gravitational constant including the atmosphere [m³/s²]
	AngularSpeed   = 7292115.0e-11 // ω [rad/s]
	PolarGravity   = 9.8321849378  // gp [m/s²]
	EquatorGravity = 9.7803253359  // ge [m/s²]
	Somigliana     = 1.93853e-3    // ks = (b/a)(gp/ge) - 1
	GravityRatio   = 0.003449787   // m = ω²a²b/GM
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	// Constants of the closed-form normal gravity formula, which need more
	// digits than the rounded ellipsoid constants above.
	gravityK = 0.00193185265241
	gravityE = 0.081819190842622
	gravityF = 1 / 298.257223563
	gravityM = 0.00344978650684

	curvatureMin = 6356752.0
	curvatureMax = 6378137.0

	geodeticIterations = 4
	vincentyTolerance  = 1e-12
	vincentyIterations = 20
)

// GeodeticToCartesian returns the earth-centred Cartesian coordinates of
// the point on the surface of the ellipsoid at lat, lon.
func GeodeticToCartesian(lat, lon float64) (x, y, z float64) {
	phi := lat * deg2rad
	lambda := lon * deg2rad
	sinPhi := math.Sin(phi)
	// radius of curvature in the prime vertical
	v := SemiMajorAxis / math.Sqrt(1-Eccentricity*Eccentricity*sinPhi*sinPhi)
	x = v * math.Cos(phi) * math.Cos(lambda)
	y = v * math.Cos(phi) * math.Sin(lambda)
	z = (1 - Eccentricity*Eccentricity) * v * sinPhi
	return x, y, z
}

// CartesianToGeodetic returns the geodetic latitude and longitude of the
// earth-centred Cartesian point x, y, z. The latitude is found with a
// fixed number of iterations starting from the geocentric latitude.
func CartesianToGeodetic(x, y, z float64) (lat, lon float64) {
	lambda := math.Atan2(y, x)
	rho := math.Hypot(x, y)
	if rho == 0 {
		switch {
		case z > 0:
			return 90, lambda * rad2deg
		case z < 0:
			return -90, lambda * rad2deg
		}
		return 0, lambda * rad2deg
	}
	phi := math.Atan(z / rho)
	for i := 0; i < geodeticIterations; i++ {
		sinPhi := math.Sin(phi)
		v := SemiMajorAxis / math.Sqrt(1-Eccentricity*Eccentricity*sinPhi*sinPhi)
		h := rho/math.Cos(phi) - v
		phi = math.Atan(z / (rho * (1 - Eccentricity*Eccentricity*v/(v+h))))
	}
	return phi * rad2deg, lambda * rad2deg
}

// NormalGravity returns the gravitational acceleration [m/s²] at the
// surface of the ellipsoid at the given latitude.
func NormalGravity(lat float64) float64 {
	s := math.Sin(lat * deg2rad)
	return EquatorGravity * (1 + gravityK*s*s) / math.Sqrt(1-gravityE*gravityE*s*s)
}

// Gravity returns the gravitational acceleration [m/s²] at the given
// latitude and height [m] above the ellipsoid.
func Gravity(lat, height float64) float64 {
	s := math.Sin(lat * deg2rad)
	a := SemiMajorAxis
	return NormalGravity(lat) * (1 - (2*(1+gravityF+gravityM-2*gravityF*s*s)*height+3*height/a)*height/a)
}

// CurvatureRadius returns the local radius of curvature [m] of the earth's
// surface at the given latitude.
func CurvatureRadius(lat float64) float64 {
	phi := lat * deg2rad
	c, s := math.Cos(phi), math.Sin(phi)
	return 1 / math.Sqrt(c*c/(curvatureMin*curvatureMin)+s*s/(curvatureMax*curvatureMax))
}

// PointDistance returns the distance [m] along the surface of the
// ellipsoid between two points, using the inverse formula of Vincenty
// (1975). The result for nearly antipodal points, where the iteration
// does not converge, is approximate.
func PointDistance(latA, lonA, latB, lonB float64) float64 {
	const (
		a = SemiMajorAxis
		b = SemiMinorAxis
		f = Flattening
	)
	// reduced latitudes
	uA := math.Atan((1 - f) * math.Tan(latA*deg2rad))
	uB := math.Atan((1 - f) * math.Tan(latB*deg2rad))
	sinUA, cosUA := math.Sincos(uA)
	sinUB, cosUB := math.Sincos(uB)

	l := (lonB - lonA) * deg2rad
	lambda := l
	prev := 2 * math.Pi
	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64
	for i := 0; math.Abs(lambda-prev) > vincentyTolerance && i < vincentyIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		t := cosUA*sinUB - sinUA*cosUB*cosLambda
		sinSigma = math.Sqrt(cosUB*cosUB*sinLambda*sinLambda + t*t)
		if sinSigma == 0 {
			// coincident points
			return 0
		}
		cosSigma = sinUA*sinUB + cosUA*cosUB*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosUA * cosUB * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		if cos2Alpha == 0 {
			// equatorial line
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinUA*sinUB/cos2Alpha
		}
		c := f / 16 * cos2Alpha * (4 - 3*cos2Alpha)
		prev = lambda
		lambda = l + (1-c)*f*sinAlpha*(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	}

	u2 := cos2Alpha * (a*a - b*b) / (b * b)
	bigA := 1 + u2/16384*(4096+u2*(-768+u2*(320-175*u2)))
	bigB := u2 / 1024 * (256 + u2*(-128+u2*(74-47*u2)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	return b * bigA * (sigma - deltaSigma)
}

// Distance is PointDistance returned as a length.
func Distance(latA, lonA, latB, lonB float64) *unit.Unit {
	return unit.New(PointDistance(latA, lonA, latB, lonB), unit.Meter)
}
