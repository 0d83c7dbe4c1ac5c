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

	"github.com/spatialmodel/satbin/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is a rotation axis.
type Axis byte

// These are the rotation axes.
const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
	AxisZ Axis = 'Z'
)

// Euler is a rotation made of three successive rotations: Phi around
// PhiAxis, then Theta around ThetaAxis, then Psi around PsiAxis.
type Euler struct {
	PhiAxis, ThetaAxis, PsiAxis Axis
	Phi, Theta, Psi             float64
}

// ZXZ returns the Z-X-Z rotation with the given angles.
func ZXZ(phi, theta, psi float64) Euler {
	return Euler{
		PhiAxis: AxisZ, ThetaAxis: AxisX, PsiAxis: AxisZ,
		Phi: phi, Theta: theta, Psi: psi,
	}
}

// ApplyVector rotates v. It returns an error if one of the axes is not
// X, Y or Z.
func (e Euler) ApplyVector(v r3.Vec) (r3.Vec, error) {
	u := v
	for i := 0; i < 3; i++ {
		var angle float64
		var axis Axis
		switch i {
		case 0:
			angle, axis = e.Phi, e.PhiAxis
		case 1:
			angle, axis = e.Theta, e.ThetaAxis
		case 2:
			angle, axis = e.Psi, e.PsiAxis
		}
		if fpZero(angle) {
			continue
		}
		s, c := math.Sincos(angle)
		switch axis {
		case AxisX:
			u = r3.Vec{X: u.X, Y: c*u.Y - s*u.Z, Z: s*u.Y + c*u.Z}
		case AxisY:
			u = r3.Vec{X: c*u.X + s*u.Z, Y: u.Y, Z: -s*u.X + c*u.Z}
		case AxisZ:
			u = r3.Vec{X: c*u.X - s*u.Y, Y: s*u.X + c*u.Y, Z: u.Z}
		default:
			return r3.Vec{}, errs.New(errs.InvalidArgument, "sphere.Euler.ApplyVector", "invalid Euler axis %q", byte(axis))
		}
	}
	return u, nil
}

// Apply rotates p and normalizes the result. If e has an invalid axis the
// result is NaN.
func (e Euler) Apply(p Point) Point {
	v, err := e.ApplyVector(p.Vector())
	if err != nil {
		return Point{Lon: math.NaN(), Lat: math.NaN()}
	}
	return PointFromVector(v).Check()
}

// Equal reports whether e and e2 move the points (0,0) and (π/2,0) to
// the same places.
func (e Euler) Equal(e2 Euler) bool {
	a := Point{}
	b := Point{Lon: math.Pi / 2}
	return e.Apply(a).Equal(e2.Apply(a)) && e.Apply(b).Equal(e2.Apply(b))
}

// Invert returns the inverse rotation.
func (e Euler) Invert() Euler {
	phi := Point{Lon: -e.Psi}.Check()
	theta := Point{Lon: -e.Theta}.Check()
	psi := Point{Lon: -e.Phi}.Check()
	return Euler{
		PhiAxis:   e.PsiAxis,
		ThetaAxis: e.ThetaAxis,
		PsiAxis:   e.PhiAxis,
		Phi:       phi.Lon,
		Theta:     theta.Lon,
		Psi:       psi.Lon,
	}
}

// Compose returns the Z-X-Z rotation equivalent to applying first and
// then second.
func Compose(first, second Euler) Euler {
	a := second.Apply(first.Apply(Point{}))
	b := second.Apply(first.Apply(Point{Lon: math.Pi / 2}))
	return EulerFromSphericalVector(a, b)
}

// EulerFromSphericalVector returns the Z-X-Z rotation that carries (0,0)
// to begin and moves points on the equator towards end.
func EulerFromSphericalVector(begin, end Point) Euler {
	return inverseEulerFromSphericalVector(begin, end).Invert()
}

func inverseEulerFromSphericalVector(begin, end Point) Euler {
	if begin.Equal(end) {
		return ZXZ(0, 0, 0)
	}
	pole := PointFromVector(r3.Cross(begin.Vector(), end.Vector()))
	e := ZXZ(-pole.Lon-math.Pi/2, pole.Lat-math.Pi/2, 0)
	e.Psi = -e.Apply(begin).Lon
	return e
}
