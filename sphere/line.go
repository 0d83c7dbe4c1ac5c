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

// Line is a great-circle arc. The arc from (0,0) to (Length,0) on the
// equator is rotated onto its place by the Z-X-Z rotation (Phi, Theta, Psi).
type Line struct {
	Phi, Theta, Psi float64
	Length          float64
}

// LineRelationship describes how two lines relate to each other.
type LineRelationship int

// These are the possible line relationships.
const (
	LineAvoid       LineRelationship = 1
	LineEqual       LineRelationship = 2
	LineContainLine LineRelationship = 3
	LineCross       LineRelationship = 4
	LineConnect     LineRelationship = 5
	LineOverlap     LineRelationship = 6
)

func (r LineRelationship) String() string {
	switch r {
	case LineAvoid:
		return "avoid"
	case LineEqual:
		return "equal"
	case LineContainLine:
		return "contains line"
	case LineCross:
		return "cross"
	case LineConnect:
		return "connect"
	case LineOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Euler returns the rotation that places l.
func (l Line) Euler() Euler { return ZXZ(l.Phi, l.Theta, l.Psi) }

// InverseEuler returns the rotation that moves l onto the equator.
func (l Line) InverseEuler() Euler { return l.Euler().Invert() }

// Begin returns the first point of l.
func (l Line) Begin() Point { return l.Euler().Apply(Point{}) }

// End returns the last point of l.
func (l Line) End() Point { return l.Euler().Apply(Point{Lon: l.Length}) }

// PointAt returns the point at the given distance along l. ok is false if
// the distance is outside [0, l.Length].
func (l Line) PointAt(length float64) (p Point, ok bool) {
	if length < 0 || length > l.Length {
		return Point{}, false
	}
	return l.Euler().Apply(Point{Lon: length}), true
}

// Transform returns l rotated by e.
func (l Line) Transform(e Euler) Line {
	c := Compose(l.Euler(), e)
	return Line{Phi: c.Phi, Theta: c.Theta, Psi: c.Psi, Length: l.Length}
}

// Swap returns l with its begin and end points exchanged.
func (l Line) Swap() Line {
	tmp := Line{Phi: -l.Length, Theta: math.Pi, Length: l.Length}
	return tmp.Transform(l.Euler())
}

// Equal reports whether l and l2 describe the same arc.
func (l Line) Equal(l2 Line) bool {
	if fpNe(l.Length, l2.Length) {
		return false
	}
	e2 := ZXZ(l2.Phi, l2.Theta, l2.Psi)
	if fpEq(l2.Length, 2*math.Pi) {
		e2.Phi = l.Phi
	}
	return l.Euler().Equal(e2)
}

// Meridian returns the half great circle from the north pole to the south
// pole at longitude lon.
func Meridian(lon float64) Line {
	p := Point{Lon: lon}.Check()
	return Line{Phi: -math.Pi / 2, Theta: math.Pi / 2, Psi: p.Lon, Length: math.Pi}
}

// LineFromPoints returns the line from begin to end. Coincident points
// give a line of zero length. Antipodal points only define a line if
// they lie on the same meridian; otherwise a DegenerateGeometry error is
// returned.
func LineFromPoints(begin, end Point) (Line, error) {
	length := begin.Distance(end)
	if fpEq(length, math.Pi) {
		if fpEq(begin.Lon, end.Lon) {
			return Meridian(begin.Lon), nil
		}
		return Line{}, errs.New(errs.DegenerateGeometry, "sphere.LineFromPoints",
			"points (%g, %g) and (%g, %g) are antipodal", begin.Lat, begin.Lon, end.Lat, end.Lon)
	}
	if fpEq(length, 0) || begin.Equal(end) {
		return Line{Phi: math.Pi / 2, Theta: begin.Lat, Psi: begin.Lon - math.Pi/2}, nil
	}
	e := EulerFromSphericalVector(begin, end)
	return Line{Phi: e.Phi, Theta: e.Theta, Psi: e.Psi, Length: length}, nil
}

// ContainsPoint reports whether p lies on l.
func (l Line) ContainsPoint(p Point) bool {
	r := l.InverseEuler().Apply(p)
	return fpZero(r.Lat) && fpGe(r.Lon, 0) && fpLe(r.Lon, l.Length)
}

// Relationship returns how l relates to l2.
func (l Line) Relationship(l2 Line) LineRelationship {
	const step = math.Pi - 0.1
	if l.Equal(l2) {
		return LineEqual
	}
	if l.Swap().Equal(l2) {
		return LineContainLine
	}

	// Move the longer line onto the equator, starting at (0,0).
	var sl1, sl2 Line
	switched := false
	if fpGe(l.Length, l2.Length) {
		sl1.Length = l.Length
		sl2 = l2.Transform(l.InverseEuler())
	} else {
		sl1.Length = l2.Length
		sl2 = l.Transform(l2.InverseEuler())
		switched = true
	}
	if fpZero(sl1.Length) {
		return LineAvoid
	}
	p := [4]Point{sl1.Begin(), sl1.End(), sl2.Begin(), sl2.End()}

	if fpZero(p[2].Lat) && fpZero(p[3].Lat) {
		a1 := sl1.ContainsPoint(p[2])
		a2 := sl1.ContainsPoint(p[3])
		switch {
		case a1 && a2:
			if switched {
				return LineOverlap
			}
			return LineContainLine
		case a1 || a2:
			return LineOverlap
		}
		return LineAvoid
	}

	res := 0
	if fpGt(sl2.Length, 0) {
		if p[0].Equal(p[2]) || p[0].Equal(p[3]) || p[1].Equal(p[2]) || p[1].Equal(p[3]) {
			res = 1 << uint(LineConnect)
		}
	}

	// Split the lines into pieces shorter than half a great circle.
	mi := sl1.Length / step
	mk := sl2.Length / step
	if fpZero(mk) {
		mk = 0.1
	}
	sl2.Psi += step
	for i := 0.0; i < mi; i++ {
		sl2.Psi -= step
		if i+1 >= mi {
			p[0], _ = sl1.PointAt(0)
			if q, ok := sl1.PointAt(sl1.Length - i*step); ok {
				p[1] = q
			}
		} else if i == 0 {
			p[0], _ = sl1.PointAt(0)
			p[1], _ = sl1.PointAt(step)
		}
		for k := 0.0; k < mk; k++ {
			if q, ok := sl2.PointAt(k * step); ok {
				p[2] = q
			}
			end := (k + 1) * step
			if k+1 > mk {
				end = sl2.Length
			}
			if q, ok := sl2.PointAt(end); ok {
				p[3] = q
			}
			desc := fpGe(p[2].Lat, 0) && fpLe(p[3].Lat, 0)
			asc := fpLe(p[2].Lat, 0) && fpGe(p[3].Lat, 0)
			if !desc && !asc {
				res |= 1 << uint(LineAvoid)
				continue
			}
			node := 0.0
			if desc {
				node = math.Pi
			}
			n := Point{Lon: node - sl2.InverseEuler().Phi}.Check()
			if fpGe(n.Lon, 0) && fpLe(n.Lon, p[1].Lon) {
				res |= 1 << uint(LineCross)
			} else {
				res |= 1 << uint(LineAvoid)
			}
		}
	}

	switch {
	case res == 1<<uint(LineAvoid):
		return LineAvoid
	case res&(1<<uint(LineConnect)) != 0:
		return LineConnect
	case res&(1<<uint(LineContainLine)) != 0:
		return LineContainLine
	case res&(1<<uint(LineCross)) != 0:
		return LineCross
	}
	return LineAvoid
}

// IntersectionPoint returns the point where the great circles through p
// and q meet. The result is NaN if both lines lie on the same great
// circle.
func IntersectionPoint(p, q Line) Point {
	np := r3.Cross(p.Begin().Vector(), p.End().Vector())
	nq := r3.Cross(q.Begin().Vector(), q.End().Vector())
	u := r3.Cross(np, nq)
	n := r3.Norm(u)
	if n == 0 {
		return Point{Lon: math.NaN(), Lat: math.NaN()}
	}
	u = r3.Scale(1/n, u)
	return Point{Lat: math.Asin(u.Z), Lon: math.Atan2(u.Y, u.X)}.Check()
}

// PointDistance returns the distance from p to the straight chord through
// the end points of l, on the unit sphere. It is NaN for a zero-length
// line.
func (l Line) PointDistance(p Point) float64 {
	b := l.Begin().Vector()
	e := l.End().Vector()
	u := p.Vector()
	den := r3.Norm(r3.Sub(b, e))
	if den == 0 {
		return math.NaN()
	}
	return r3.Norm(r3.Cross(r3.Sub(u, b), r3.Sub(u, e))) / den
}

// PointDistanceMeters is PointDistance scaled to the earth's radius.
func (l Line) PointDistanceMeters(p Point) float64 {
	return EarthRadius * l.PointDistance(p)
}
