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

	"github.com/ctessum/geom"
	"github.com/spatialmodel/satbin/errs"
)

// Reference selects the polygon whose area an overlapping fraction is
// relative to.
type Reference int

// These are the possible references.
const (
	// ReferenceSmallest uses whichever polygon has the smaller area.
	ReferenceSmallest Reference = iota
	ReferenceA
	ReferenceB
)

// OverlappingFraction returns the area of the intersection of a and b
// divided by the area of the reference polygon. Areas are computed in
// the Plate Carrée plane (longitude and latitude in degrees taken as x and
// y), with both rings unwrapped to a common longitude range. The fraction
// is 0 for polygons that do not overlap. An InvalidArgument error is
// returned if either polygon fails Check or encircles a pole.
func OverlappingFraction(a, b Polygon, ref Reference) (float64, error) {
	const op = "sphere.OverlappingFraction"
	if err := checkPair(op, a, b); err != nil {
		return math.NaN(), err
	}
	rel := PolygonPolygonRelationship(a, b, true)
	if rel == PolyAvoid {
		return 0, nil
	}
	pa, err := planar(a, a[0].Lon*rad2deg)
	if err != nil {
		return math.NaN(), errs.Wrap(errs.InvalidArgument, op, err)
	}
	pb, err := planar(b, pa[0][0].X)
	if err != nil {
		return math.NaN(), errs.Wrap(errs.InvalidArgument, op, err)
	}
	areaA, areaB := pa.Area(), pb.Area()

	var inter float64
	switch rel {
	case PolyContains:
		inter = areaB
	case PolyContained:
		inter = areaA
	default:
		inter = pa.Intersection(pb).Area()
	}

	var den float64
	switch ref {
	case ReferenceA:
		den = areaA
	case ReferenceB:
		den = areaB
	default:
		den = math.Min(areaA, areaB)
	}
	if den == 0 {
		// Degenerate reference areas count as fully covered.
		return 1, nil
	}
	return inter / den, nil
}

// planar returns p as a closed ring in the Plate Carrée plane, in
// degrees. Consecutive longitudes are kept within 180° of each other and
// the first longitude is brought within 180° of refLon.
func planar(p Polygon, refLon float64) (geom.Polygon, error) {
	if _, _, _, _, pole := p.bounds(); pole {
		return nil, errs.New(errs.InvalidArgument, "sphere.planar", "polygon encircles a pole")
	}
	ring := make([]geom.Point, 0, len(p)+1)
	prev := refLon
	for _, pt := range p {
		lat, lon := pt.Degrees()
		for lon-prev > 180 {
			lon -= 360
		}
		for prev-lon > 180 {
			lon += 360
		}
		ring = append(ring, geom.Point{X: lon, Y: lat})
		prev = lon
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}, nil
}
