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
	"math/rand"

	"github.com/spatialmodel/satbin/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Polygon is a ring of points on the sphere. The ring is implicitly
// closed: the last point connects back to the first, which is not
// repeated.
type Polygon []Point

// maxRotations limits the number of random rotations ContainsPoint tries
// to move polygon vertices off the test great circle.
const maxRotations = 10000

// PolygonFromLatLonBounds creates a polygon from the vertex coordinates
// of a footprint, in degrees. Trailing NaN vertices and a closing vertex
// equal to the first are ignored. Two vertices are taken to be opposite
// corners of a latitude/longitude rectangle. An InvalidArgument error is
// returned if the result is not a valid polygon (see Polygon.Check).
func PolygonFromLatLonBounds(lat, lon []float64) (Polygon, error) {
	const op = "sphere.PolygonFromLatLonBounds"
	if len(lat) != len(lon) {
		return nil, errs.New(errs.InvalidArgument, op, "latitude bounds (%d) and longitude bounds (%d) differ in length", len(lat), len(lon))
	}
	n := len(lat)
	for n > 0 && math.IsNaN(lat[n-1]) {
		n--
	}
	if n > 2 && PointFromDegrees(lat[0], lon[0]).Equal(PointFromDegrees(lat[n-1], lon[n-1])) {
		n--
	}
	var p Polygon
	switch {
	case n == 2:
		p = Polygon{
			PointFromDegrees(lat[0], lon[0]).Check(),
			PointFromDegrees(lat[0], lon[1]).Check(),
			PointFromDegrees(lat[1], lon[1]).Check(),
			PointFromDegrees(lat[1], lon[0]).Check(),
		}
	case n < 2:
		return nil, errs.New(errs.InvalidArgument, op, "need at least 2 vertices, got %d", n)
	default:
		p = make(Polygon, n)
		for i := 0; i < n; i++ {
			p[i] = PointFromDegrees(lat[i], lon[i]).Check()
		}
	}
	if !p.Check() {
		return nil, errs.New(errs.InvalidArgument, op, "invalid polygon from input latitude bounds and longitude bounds")
	}
	return p, nil
}

// Segment returns the edge of p that starts at point i.
func (p Polygon) Segment(i int) (Line, error) {
	if i < 0 || i >= len(p) {
		return Line{}, errs.New(errs.InvalidArgument, "sphere.Polygon.Segment", "index (%d) out of range [0,%d)", i, len(p))
	}
	return LineFromPoints(p[i], p[(i+1)%len(p)])
}

// segment is Segment for an index known to be valid. An edge that cannot
// be defined is returned as a NaN line, which relates to nothing.
func (p Polygon) segment(i int) Line {
	l, err := p.Segment(i)
	if err != nil {
		nan := math.NaN()
		return Line{Phi: nan, Theta: nan, Psi: nan, Length: nan}
	}
	return l
}

// Transform returns p with every point rotated by e.
func (p Polygon) Transform(e Euler) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = e.Apply(pt)
	}
	return out
}

// Equal reports whether p and p2 have the same points in the same cyclic
// order, in either direction.
func (p Polygon) Equal(p2 Polygon) bool {
	return p.equal(p2, false) || p.equal(p2, true)
}

func (p Polygon) equal(p2 Polygon, reverse bool) bool {
	n := len(p)
	if n != len(p2) {
		return false
	}
	for shift := 0; shift < n; shift++ {
		match := true
		for i := 0; i < n && match; i++ {
			k := i
			if reverse {
				k = n - i - 1
			}
			k = (k + shift) % n
			match = p[i].Equal(p2[k])
		}
		if match {
			return true
		}
	}
	return false
}

// Centre returns the unit vector pointing at the centroid of p. Each edge
// contributes the normal of its great circle weighted by the edge length.
// The result is the zero vector if the contributions cancel out, in which
// case the caller should fall back to CentrePoint.
func (p Polygon) Centre() r3.Vec {
	var c, mean r3.Vec
	for i := range p {
		a := p[i].Vector()
		b := p[(i+1)%len(p)].Vector()
		mean = r3.Add(mean, a)
		n := r3.Cross(a, b)
		nn := r3.Norm(n)
		if nn == 0 {
			continue
		}
		angle := math.Atan2(nn, r3.Dot(a, b))
		c = r3.Add(c, r3.Scale(angle/nn, n))
	}
	norm := r3.Norm(c)
	// The sum scales with the enclosed area, so the cutoff is far below
	// Epsilon.
	if norm <= 1e-14 {
		return r3.Vec{}
	}
	// A clockwise ring gives the antipode of the centroid.
	if r3.Dot(c, mean) < 0 {
		norm = -norm
	}
	return r3.Scale(1/norm, c)
}

// CentrePoint returns the centroid of p as a point. If the centroid
// vector is degenerate the midpoint of the latitude/longitude bounding
// box is used instead.
func (p Polygon) CentrePoint() Point {
	c := p.Centre()
	if c != (r3.Vec{}) {
		return PointFromVector(c).Check()
	}
	minLat, maxLat, minLon, maxLon, _ := p.bounds()
	return Point{Lat: (minLat + maxLat) / 2, Lon: (minLon + maxLon) / 2}.Check()
}

// Check reports whether p is a usable polygon: its centre is defined, no
// two edges cross or overlap, and all points lie in the hemisphere around
// the centre.
func (p Polygon) Check() bool {
	c := p.Centre()
	if fpZero(c.X) && fpZero(c.Y) && fpZero(c.Z) {
		return false
	}
	segs := make([]Line, len(p))
	for i := range p {
		s, err := p.Segment(i)
		if err != nil {
			return false
		}
		segs[i] = s
	}
	for i := range segs {
		for k := i + 1; k < len(segs); k++ {
			r := segs[i].Relationship(segs[k])
			if r != LineConnect && r != LineAvoid {
				return false
			}
		}
	}
	cp := PointFromVector(c)
	e := ZXZ(-math.Pi/2-cp.Lon, -math.Pi/2+cp.Lat, 0)
	for _, pt := range p {
		if fpLe(e.Apply(pt).Lat, 0) {
			return false
		}
	}
	return true
}

// bounds returns the latitude/longitude bounding box of p. Longitudes are
// unwrapped along the ring so that a ring crossing the dateline has a
// contiguous range. pole is true if the ring encircles a pole, in which
// case the latitude range is extended to that pole.
func (p Polygon) bounds() (minLat, maxLat, minLon, maxLon float64, pole bool) {
	if len(p) == 0 {
		return
	}
	minLon, maxLon = p[0].Lon, p[0].Lon
	minLat, maxLat = p[0].Lat, p[0].Lat
	ref := p[0].Lon
	unwrap := func(lon float64) float64 {
		if lon < ref-math.Pi {
			lon += 2 * math.Pi
		} else if lon > ref+math.Pi {
			lon -= 2 * math.Pi
		}
		return lon
	}
	for _, pt := range p[1:] {
		if pt.Lat < minLat {
			minLat = pt.Lat
		} else if pt.Lat > maxLat {
			maxLat = pt.Lat
		}
		lon := unwrap(pt.Lon)
		if lon < minLon {
			minLon = lon
		} else if lon > maxLon {
			maxLon = lon
		}
		ref = lon
	}
	// Closing the ring may land on a different longitude.
	lon := unwrap(p[0].Lon)
	if lon < minLon {
		minLon = lon
	} else if lon > maxLon {
		maxLon = lon
	}
	if fpEq(maxLon, minLon+2*math.Pi) {
		pole = true
		if maxLat > 0 {
			maxLat = math.Pi / 2
		}
		if minLat < 0 {
			minLat = -math.Pi / 2
		}
	}
	return
}

func (p Polygon) boundsContainPoint(pt Point) bool {
	if len(p) == 0 {
		return false
	}
	minLat, maxLat, minLon, maxLon, _ := p.bounds()
	lon := pt.Lon
	if lon < minLon {
		lon += 2 * math.Pi
	} else if lon > maxLon {
		lon -= 2 * math.Pi
	}
	return fpLe(minLat, pt.Lat) && fpLe(pt.Lat, maxLat) && fpLe(minLon, lon) && fpLe(lon, maxLon)
}

// ContainsPoint reports whether pt is inside p or on its boundary.
func (p Polygon) ContainsPoint(pt Point) bool {
	if !p.boundsContainPoint(pt) {
		return false
	}
	for _, v := range p {
		if v.Equal(pt) {
			return true
		}
	}
	for i := range p {
		if p.segment(i).ContainsPoint(pt) {
			return true
		}
	}

	// Move pt to (0,0) and count the edges that cross the equator between
	// longitudes 0 and π.
	tmp := p.Transform(ZXZ(math.Pi/2-pt.Lon, -pt.Lat, -math.Pi/2))
	for counter := 0; ; counter++ {
		if counter > maxRotations {
			return false
		}
		onEquator := false
		for _, v := range tmp {
			if fpZero(v.Lat) {
				if fpEq(math.Cos(v.Lon), -1) {
					return false
				}
				onEquator = true
				break
			}
		}
		if !onEquator {
			break
		}
		// Rotating around the x axis keeps pt at (0,0).
		r := rand.New(rand.NewSource(int64(counter)))
		tmp = tmp.Transform(Euler{
			PhiAxis: AxisX, ThetaAxis: AxisX, PsiAxis: AxisX,
			Phi: r.Float64() * 2 * math.Pi,
		})
	}
	crossings := 0
	for i := range tmp {
		sl := tmp.segment(i)
		b, e := sl.Begin(), sl.End()
		desc := fpGt(b.Lat, 0) && fpLt(e.Lat, 0)
		asc := fpLt(b.Lat, 0) && fpGt(e.Lat, 0)
		if !desc && !asc {
			continue
		}
		node := math.Pi
		if asc {
			node = 2 * math.Pi
		}
		n := Point{Lon: node - sl.InverseEuler().Phi}.Check()
		if n.Lon < math.Pi {
			crossings++
		}
	}
	return crossings%2 == 1
}

func hav(x float64) float64 { return (1 - math.Cos(x)) / 2 }

// Area returns the surface area of p in m² on a spherical earth. The
// smaller of the two areas bounded by the ring is returned.
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	// Girard's theorem, following R. D. Miller, Graphics Gems IV, 1994.
	area := 0.0
	for i := 0; i < n; i++ {
		latA, lonA := p[i].Lat, p[i].Lon
		latC, lonC := p[(i+1)%n].Lat, p[(i+1)%n].Lon
		if lonC < lonA-math.Pi {
			lonC += 2 * math.Pi
		} else if lonC > lonA+math.Pi {
			lonC -= 2 * math.Pi
		}
		if lonA == lonC {
			continue
		}
		a := math.Pi/2 - latC
		c := math.Pi/2 - latA
		b := 2 * math.Asin(math.Sqrt(hav(a-c)+math.Sin(a)*math.Sin(c)*hav(lonC-lonA)))
		s := 0.5 * (a + b + c)
		e := 4 * math.Atan(math.Sqrt(math.Abs(math.Tan(s/2)*math.Tan((s-a)/2)*math.Tan((s-b)/2)*math.Tan((s-c)/2))))
		if lonC < lonA {
			e = -e
		}
		area += e
	}
	area = math.Abs(area)
	if area > 2*math.Pi {
		area = 4*math.Pi - area
	}
	return EarthRadius * EarthRadius * area
}

// PointDistance returns the smallest chord distance on the unit sphere
// from pt to the edges of p, or NaN if no edge has a defined distance.
func (p Polygon) PointDistance(pt Point) float64 {
	nearest := 10.0
	for i := range p {
		if d := p.segment(i).PointDistance(pt); d < nearest {
			nearest = d
		}
	}
	if nearest >= 10 {
		return math.NaN()
	}
	return nearest
}

// PointDistanceMeters is PointDistance scaled to the earth's radius.
func (p Polygon) PointDistanceMeters(pt Point) float64 {
	return EarthRadius * p.PointDistance(pt)
}
