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

	"github.com/sirupsen/logrus"
)

// angleEpsilon is the smallest length of an averaged angle vector,
// relative to the sum of the weights, for which the angle is defined.
const angleEpsilon = 1e-12

// toVectors converts the angles of v to [cos, sin] pairs along a new
// trailing dimension of length 2. If norm is not nil each pair is scaled
// by the matching norm, and pairs with a NaN angle or a zero norm become
// [0, 0] with their norm set to zero.
func toVectors(v *Variable, norm []float64) error {
	if err := ConvertAngle(v.Data.Elements, v.Unit, "rad"); err != nil {
		return err
	}
	if err := v.AddDimension(len(v.Dimensions), Independent, 2); err != nil {
		return err
	}
	d := v.Data.Elements
	for i := 0; i < len(d); i += 2 {
		a, n := d[i], 1.0
		if norm != nil {
			n = norm[i/2]
			if n == 0 || math.IsNaN(a) {
				d[i], d[i+1] = 0, 0
				norm[i/2] = 0
				continue
			}
		}
		d[i], d[i+1] = n*math.Cos(a), n*math.Sin(a)
	}
	return nil
}

// fromVectors converts the [cos, sin] pairs along the trailing dimension
// of v back to angles in the unit of v, removes that dimension and
// returns the length of each vector.
func fromVectors(v *Variable) ([]float64, error) {
	d := v.Data.Elements
	norm := make([]float64, len(d)/2)
	for i := 0; i < len(d); i += 2 {
		x, y := d[i], d[i+1]
		norm[i/2] = math.Hypot(x, y)
		d[i] = math.Atan2(y, x)
	}
	if err := v.RemoveDimension(len(v.Dimensions)-1, 0); err != nil {
		return nil, err
	}
	if err := ConvertAngle(v.Data.Elements, "rad", v.Unit); err != nil {
		return nil, err
	}
	return norm, nil
}

// undefinedAngle reports whether an averaged angle vector of the given
// length, built from weights summing to weight, has no direction.
func undefinedAngle(norm, weight float64) bool {
	return weight == 0 || norm <= angleEpsilon*weight
}

// addCount adds an Int32 variable named name holding values, or, if a
// variable with that name exists and is not being removed, keeps that
// variable. The policy of the variable becomes target.
func addCount(p *Product, policy *[]Policy, target Policy, name string, dims []DimensionType, shape []int, values []float64) error {
	k := p.VariableIndex(name)
	if k >= 0 && (*policy)[k] != Remove {
		(*policy)[k] = target
		return nil
	}
	v, err := NewVariable(name, Int32, dims, shape)
	if err != nil {
		return err
	}
	copy(v.Data.Elements, values)
	v.round()
	return putVariable(p, policy, target, k, v)
}

// addWeight adds or replaces a Float32 variable named name holding
// values. The policy of the variable becomes target.
func addWeight(p *Product, policy *[]Policy, target Policy, name string, dims []DimensionType, shape []int, values []float32) error {
	v, err := NewVariable(name, Float32, dims, shape)
	if err != nil {
		return err
	}
	for i, w := range values {
		v.Data.Elements[i] = float64(w)
	}
	return putVariable(p, policy, target, p.VariableIndex(name), v)
}

// putVariable stores v at position k of p, or appends it if k < 0.
func putVariable(p *Product, policy *[]Policy, target Policy, k int, v *Variable) error {
	if k < 0 {
		if err := p.AddVariable(v); err != nil {
			return err
		}
		*policy = append(*policy, target)
		return nil
	}
	p.Variables[k] = v
	(*policy)[k] = target
	return nil
}

// removeMarked removes the variables with the Remove policy, last first.
func removeMarked(p *Product, policy []Policy, log logrus.FieldLogger) {
	for k := len(p.Variables) - 1; k >= 0; k-- {
		if policy[k] == Remove {
			log.WithField("variable", p.Variables[k].Name).Debug("satbin removing variable")
			p.removeIndex(k)
		}
	}
}
