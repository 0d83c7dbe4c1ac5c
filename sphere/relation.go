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

import "github.com/spatialmodel/satbin/errs"

// PolygonLineRelationship describes how a line relates to a polygon.
type PolygonLineRelationship int

// These are the possible polygon/line relationships.
const (
	PolyLineAvoid PolygonLineRelationship = iota
	PolyLineContains
	PolyLineOverlap
)

func (r PolygonLineRelationship) String() string {
	switch r {
	case PolyLineAvoid:
		return "avoid"
	case PolyLineContains:
		return "contains"
	case PolyLineOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// PolygonRelationship describes how polygon b relates to polygon a.
type PolygonRelationship int

// These are the possible polygon/polygon relationships. PolyContains
// means a contains b, PolyContained means b contains a.
const (
	PolyAvoid PolygonRelationship = iota
	PolyContains
	PolyOverlap
	PolyContained
)

func (r PolygonRelationship) String() string {
	switch r {
	case PolyAvoid:
		return "avoid"
	case PolyContains:
		return "contains"
	case PolyOverlap:
		return "overlap"
	case PolyContained:
		return "contained"
	default:
		return "unknown"
	}
}

func lineBit(r LineRelationship) int { return 1 << uint(r) }

// LineRelationship returns how l relates to p.
func (p Polygon) LineRelationship(l Line) PolygonLineRelationship {
	var (
		avoid     = lineBit(LineAvoid)
		contained = lineBit(LineContainLine)
		connect   = lineBit(LineConnect)
	)
	begin, end := l.Begin(), l.End()
	p1 := p.ContainsPoint(begin)
	p2 := p.ContainsPoint(end)
	res := 0
	for i := range p {
		seg := p.segment(i)
		rel := seg.Relationship(l)
		switch rel {
		case LineEqual:
			rel = LineContainLine
		case LineOverlap:
			return PolyLineOverlap
		case LineCross:
			bal := seg.ContainsPoint(begin)
			eal := seg.ContainsPoint(end)
			if (bal && p2) || (eal && p1) {
				rel = LineContainLine
			} else {
				return PolyLineOverlap
			}
		}
		res |= lineBit(rel)
	}
	switch {
	case res&contained != 0 && res&^(contained|avoid|connect) == 0:
		return PolyLineContains
	case p1 && p2 && res&^(avoid|connect) == 0:
		return PolyLineContains
	case !p1 && !p2 && res&^avoid == 0:
		return PolyLineAvoid
	}
	return PolyLineOverlap
}

// PolygonPolygonRelationship returns how b relates to a. If all edges
// of b avoid a and recheck is true, the test is repeated with the roles
// of a and b swapped to tell apart the case where b encloses a. This is
// only a tie-break for polygons whose edges never meet; results for
// polygons sharing boundary points are approximate.
func PolygonPolygonRelationship(a, b Polygon, recheck bool) PolygonRelationship {
	var (
		avoid    = 1 << uint(PolyLineAvoid)
		contains = 1 << uint(PolyLineContains)
	)
	res := 0
	for i := range b {
		rel := a.LineRelationship(b.segment(i))
		if rel == PolyLineOverlap {
			return PolyOverlap
		}
		res |= 1 << uint(rel)
	}
	switch res {
	case avoid:
		if recheck && PolygonPolygonRelationship(b, a, false) == PolyContains {
			return PolyContained
		}
		return PolyAvoid
	case contains:
		return PolyContains
	}
	return PolyOverlap
}

// PolygonsHaveAreaOverlap reports whether a and b share any area. An
// InvalidArgument error is returned if either polygon fails Check.
func PolygonsHaveAreaOverlap(a, b Polygon) (bool, error) {
	if err := checkPair("sphere.PolygonsHaveAreaOverlap", a, b); err != nil {
		return false, err
	}
	return PolygonPolygonRelationship(a, b, true) != PolyAvoid, nil
}

func checkPair(op string, a, b Polygon) error {
	if !a.Check() || !b.Check() {
		return errs.New(errs.InvalidArgument, op, "a line segment overlaps or polygon too large for polygon overlap fraction")
	}
	return nil
}
