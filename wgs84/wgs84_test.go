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

package wgs84

import (
	"math"
	"testing"

	"github.com/ctessum/unit"
)

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func TestGeodeticRoundTrip(t *testing.T) {
	points := [][2]float64{{0, 0}, {45, 10}, {-60, -120}, {89, 30}, {10, 179.9}}
	for _, p := range points {
		lat, lon := CartesianToGeodetic(GeodeticToCartesian(p[0], p[1]))
		if different(lat, p[0], 1e-6) || different(lon, p[1], 1e-6) {
			t.Errorf("%v: got %g, %g", p, lat, lon)
		}
	}
	x, y, z := GeodeticToCartesian(0, 0)
	if different(x, SemiMajorAxis, 1e-6) || y != 0 || z != 0 {
		t.Errorf("equator: %g %g %g", x, y, z)
	}
	if lat, _ := CartesianToGeodetic(0, 0, -SemiMinorAxis); lat != -90 {
		t.Errorf("south pole: %g", lat)
	}
}

func TestCartesianToGeodeticConverges(t *testing.T) {
	for _, lat := range []float64{45, -60, 89, 10} {
		got, _ := CartesianToGeodetic(GeodeticToCartesian(lat, 20))
		if different(got, lat, 1e-9) {
			t.Errorf("%g: got %.12f", lat, got)
		}
	}
}

func TestGravity(t *testing.T) {
	if g := NormalGravity(0); different(g, EquatorGravity, 1e-12) {
		t.Errorf("equator: %g", g)
	}
	if g := NormalGravity(90); different(g, PolarGravity, 1e-6) {
		t.Errorf("pole: %g", g)
	}
	if g := Gravity(45, 0); g != NormalGravity(45) {
		t.Errorf("surface: %g", g)
	}
	if Gravity(45, 10e3) >= Gravity(45, 0) {
		t.Error("gravity should decrease with height")
	}
}

func TestCurvatureRadius(t *testing.T) {
	if r := CurvatureRadius(0); different(r, 6356752, 1e-6) {
		t.Errorf("equator: %g", r)
	}
	if r := CurvatureRadius(90); different(r, 6378137, 1e-6) {
		t.Errorf("pole: %g", r)
	}
}

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name                   string
		latA, lonA, latB, lonB float64
		want                   float64
	}{
		{name: "equator degree", lonB: 1, want: 111319.491},
		{name: "meridian degree", latB: 1, want: 110574.389},
		{name: "london paris", latA: 52.2, lonA: 0.1, latB: 48.9, lonB: 2.3, want: 398785.041},
		{name: "same point", latA: 10, lonA: 10, latB: 10, lonB: 10, want: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := PointDistance(test.latA, test.lonA, test.latB, test.lonB)
			if different(d, test.want, 1e-3) {
				t.Errorf("got %.4f, want %.4f", d, test.want)
			}
			r := PointDistance(test.latB, test.lonB, test.latA, test.lonA)
			if different(r, d, 1e-6) {
				t.Errorf("not symmetric: %g != %g", r, d)
			}
		})
	}
	d := Distance(0, 0, 0, 1)
	if err := d.Check(unit.Meter); err != nil {
		t.Error(err)
	}
	if different(d.Value(), 111319.491, 1e-3) {
		t.Errorf("distance: %v", d)
	}
}
