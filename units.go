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

package satbin

import (
	"math"
	"strings"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/satbin/errs"
)

// Radian is the dimension of plane angles.
var Radian = unit.Dimensions{unit.AngleDim: 1}

// These are the units used for the grid variables.
const (
	UnitLatitude  = "degree_north"
	UnitLongitude = "degree_east"
)

var (
	degree = unit.New(math.Pi/180, Radian)

	// angleUnits holds the size of each supported angle unit.
	angleUnits = map[string]*unit.Unit{
		"rad":           unit.New(1, Radian),
		"radian":        unit.New(1, Radian),
		"radians":       unit.New(1, Radian),
		"deg":           degree,
		"degree":        degree,
		"degrees":       degree,
		"degree_north":  degree,
		"degree_east":   degree,
		"degrees_north": degree,
		"degrees_east":  degree,
		"arcmin":        unit.New(math.Pi/10800, Radian),
		"arcsec":        unit.New(math.Pi/648000, Radian),
	}
)

// angleUnit returns the size in radians of the named angle unit.
func angleUnit(name string) (float64, error) {
	const op = "satbin.angleUnit"
	u, ok := angleUnits[strings.TrimSpace(name)]
	if !ok {
		return math.NaN(), errs.New(errs.InvalidVariable, op, "unit '%s' is not a supported angle unit", name)
	}
	if err := u.Check(Radian); err != nil {
		return math.NaN(), errs.Wrap(errs.InvalidVariable, op, err)
	}
	return u.Value(), nil
}

// ConvertAngle converts values in place from one angle unit to another.
func ConvertAngle(values []float64, from, to string) error {
	f, err := angleUnit(from)
	if err != nil {
		return err
	}
	t, err := angleUnit(to)
	if err != nil {
		return err
	}
	if f == t {
		return nil
	}
	s := f / t
	for i := range values {
		values[i] *= s
	}
	return nil
}

// degrees returns the values of v converted to degrees. The values of v
// are not changed.
func degrees(v *Variable) ([]float64, error) {
	if v.Data == nil {
		return nil, errs.New(errs.InvalidVariable, "satbin.degrees", "variable '%s' is not numeric", v.Name)
	}
	out := append([]float64(nil), v.Data.Elements...)
	if err := ConvertAngle(out, v.Unit, "degree"); err != nil {
		return nil, errs.Wrap(errs.InvalidVariable, "satbin.degrees", err)
	}
	return out, nil
}
