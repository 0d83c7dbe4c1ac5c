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

package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(InvalidArgument, "grid.Spec.Validate", "need at least %d edges", 2)
	if err.Error() != "grid.Spec.Validate: need at least 2 edges" {
		t.Errorf("message: %q", err.Error())
	}
	if KindOf(err) != InvalidArgument {
		t.Errorf("kind: %v", KindOf(err))
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, InvalidArgument) {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
	if KindOf(errors.New("plain")) != Unknown {
		t.Error("plain error should have Unknown kind")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(InvalidVariable, "op", nil) != nil {
		t.Error("wrapping nil should give nil")
	}
	inner := New(DegenerateGeometry, "sphere.LineFromPoints", "antipodal points")
	err := Wrap(InvalidArgument, "sphere.PolygonFromLatLonBounds", inner)
	if KindOf(err) != DegenerateGeometry {
		t.Errorf("kind: %v", KindOf(err))
	}
	err = Wrap(InvalidVariable, "satbin.ReadNetCDF", errors.New("bad"))
	if KindOf(err) != InvalidVariable {
		t.Errorf("kind: %v", KindOf(err))
	}
	if err.Error() != "satbin.ReadNetCDF: bad" {
		t.Errorf("message: %q", err.Error())
	}
}
