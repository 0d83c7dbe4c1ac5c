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
	"testing"

	"github.com/spatialmodel/satbin/errs"
)

func mustPolygon(t *testing.T, lat, lon []float64) Polygon {
	t.Helper()
	p, err := PolygonFromLatLonBounds(lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPolygonFromLatLonBounds(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	if len(sq) != 4 {
		t.Fatalf("rectangle has %d points", len(sq))
	}
	closed := mustPolygon(t, []float64{0, 0, 1, 1, 0, math.NaN()}, []float64{0, 1, 1, 0, 0, math.NaN()})
	if !closed.Equal(sq) {
		t.Errorf("closing and NaN vertices should be dropped: %+v", closed)
	}

	tests := []struct {
		name     string
		lat, lon []float64
	}{
		{name: "length mismatch", lat: []float64{0, 1}, lon: []float64{0}},
		{name: "single vertex", lat: []float64{0}, lon: []float64{0}},
		{name: "bowtie", lat: []float64{0, 1, 0, 1}, lon: []float64{0, 1, 1, 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := PolygonFromLatLonBounds(test.lat, test.lon)
			if errs.KindOf(err) != errs.InvalidArgument {
				t.Errorf("want invalid argument, got %v", err)
			}
		})
	}
}

func TestPolygonContainsPoint(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	reversed := Polygon{sq[3], sq[2], sq[1], sq[0]}
	tri := mustPolygon(t, []float64{0, 0, 2}, []float64{0, 2, 0})
	dateline := mustPolygon(t, []float64{-1, 1}, []float64{179, -179})
	tests := []struct {
		name     string
		p        Polygon
		lat, lon float64
		want     bool
	}{
		{name: "interior", p: sq, lat: 0.3, lon: 0.6, want: true},
		{name: "centre", p: sq, lat: 0.5, lon: 0.5, want: true},
		{name: "vertex", p: sq, lat: 0, lon: 0, want: true},
		{name: "edge", p: sq, lat: 0, lon: 0.5, want: true},
		{name: "north", p: sq, lat: 1.5, lon: 0.5, want: false},
		{name: "south", p: sq, lat: -0.2, lon: 0.4, want: false},
		{name: "clockwise", p: reversed, lat: 0.3, lon: 0.6, want: true},
		{name: "triangle outside", p: tri, lat: 1.5, lon: 1.5, want: false},
		{name: "triangle inside", p: tri, lat: 0.4, lon: 0.5, want: true},
		{name: "dateline inside", p: dateline, lat: 0.2, lon: 179.7, want: true},
		{name: "dateline outside", p: dateline, lat: 0.2, lon: 178, want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.ContainsPoint(PointFromDegrees(test.lat, test.lon).Check()); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestPolygonCentreArea(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	lat, lon := sq.CentrePoint().Degrees()
	if different(lat, 0.5, 1e-3) || different(lon, 0.5, 1e-3) {
		t.Errorf("centre: %g, %g", lat, lon)
	}
	reversed := Polygon{sq[3], sq[2], sq[1], sq[0]}
	rlat, rlon := reversed.CentrePoint().Degrees()
	if different(rlat, lat, 1e-12) || different(rlon, lon, 1e-12) {
		t.Errorf("clockwise centre: %g, %g", rlat, rlon)
	}
	const wantArea = 1.2364e10
	if a := sq.Area(); different(a, wantArea, wantArea*0.01) {
		t.Errorf("area: %g", a)
	}
	if a := reversed.Area(); different(a, sq.Area(), 1) {
		t.Errorf("clockwise area: %g", a)
	}
}

func TestPolygonEqual(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	shifted := Polygon{sq[2], sq[3], sq[0], sq[1]}
	reversed := Polygon{sq[1], sq[0], sq[3], sq[2]}
	other := mustPolygon(t, []float64{0, 2}, []float64{0, 2})
	if !sq.Equal(shifted) {
		t.Error("shifted ring should be equal")
	}
	if !sq.Equal(reversed) {
		t.Error("reversed ring should be equal")
	}
	if sq.Equal(other) || sq.Equal(sq[:3]) {
		t.Error("different polygons should not be equal")
	}
}

func TestPolygonLineRelationship(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	tests := []struct {
		name string
		l    Line
		want PolygonLineRelationship
	}{
		{name: "inside", l: mustLine(t, 0.2, 0.2, 0.7, 0.8), want: PolyLineContains},
		{name: "through", l: mustLine(t, 0.5, -1, 0.5, 2), want: PolyLineOverlap},
		{name: "far", l: mustLine(t, 5, 5, 6, 6), want: PolyLineAvoid},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := sq.LineRelationship(test.l); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestPolygonPolygonRelationship(t *testing.T) {
	big := mustPolygon(t, []float64{0, 4}, []float64{0, 4})
	small := mustPolygon(t, []float64{1, 2}, []float64{1, 2})
	far := mustPolygon(t, []float64{10, 11}, []float64{10, 11})
	a := mustPolygon(t, []float64{0, 2}, []float64{0, 2})
	b := mustPolygon(t, []float64{1, 3}, []float64{1, 3})
	tests := []struct {
		name string
		a, b Polygon
		want PolygonRelationship
	}{
		{name: "contains", a: big, b: small, want: PolyContains},
		{name: "contained", a: small, b: big, want: PolyContained},
		{name: "avoid", a: big, b: far, want: PolyAvoid},
		{name: "overlap", a: a, b: b, want: PolyOverlap},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := PolygonPolygonRelationship(test.a, test.b, true); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
	if got := PolygonPolygonRelationship(small, big, false); got != PolyAvoid {
		t.Errorf("without recheck: got %v", got)
	}
	ok, err := PolygonsHaveAreaOverlap(a, b)
	if err != nil || !ok {
		t.Errorf("area overlap: %v, %v", ok, err)
	}
	ok, err = PolygonsHaveAreaOverlap(big, far)
	if err != nil || ok {
		t.Errorf("no area overlap: %v, %v", ok, err)
	}
	bowtie := Polygon{
		PointFromDegrees(0, 0), PointFromDegrees(1, 1),
		PointFromDegrees(0, 1), PointFromDegrees(1, 0),
	}
	if _, err := PolygonsHaveAreaOverlap(bowtie, a); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("invalid polygon: %v", err)
	}
}

func TestOverlappingFraction(t *testing.T) {
	big := mustPolygon(t, []float64{0, 4}, []float64{0, 4})
	small := mustPolygon(t, []float64{1, 2}, []float64{1, 2})
	far := mustPolygon(t, []float64{10, 11}, []float64{10, 11})
	a := mustPolygon(t, []float64{0, 2}, []float64{0, 2})
	b := mustPolygon(t, []float64{1, 3}, []float64{1, 3})
	tests := []struct {
		name string
		a, b Polygon
		ref  Reference
		want float64
	}{
		{name: "overlap", a: a, b: b, want: 0.25},
		{name: "contains smallest", a: big, b: small, want: 1},
		{name: "contains reference a", a: big, b: small, ref: ReferenceA, want: 1.0 / 16},
		{name: "contained reference b", a: small, b: big, ref: ReferenceB, want: 1.0 / 16},
		{name: "avoid", a: big, b: far, want: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := OverlappingFraction(test.a, test.b, test.ref)
			if err != nil {
				t.Fatal(err)
			}
			if different(got, test.want, 1e-9) {
				t.Errorf("got %g, want %g", got, test.want)
			}
		})
	}
}

func TestPolygonPointDistance(t *testing.T) {
	sq := mustPolygon(t, []float64{0, 1}, []float64{0, 1})
	if d := sq.PointDistance(sq[2]); different(d, 0, 1e-12) {
		t.Errorf("vertex distance: %g", d)
	}
	if d := sq.PointDistanceMeters(PointFromDegrees(0.5, 3)); d <= 0 {
		t.Errorf("outside distance: %g", d)
	}
	if d := (Polygon{}).PointDistance(Point{}); !math.IsNaN(d) {
		t.Errorf("empty polygon: %g", d)
	}
}
