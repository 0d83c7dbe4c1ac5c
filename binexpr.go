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
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/satbin/errs"
)

// BinWithVariable bins the samples of p so that samples with the same
// combination of values of the named variables share a bin. Bins are
// numbered in order of first appearance and NaN values are equal to each
// other. The named variables must be one-dimensional and depend on time;
// they are kept even if Bin would otherwise remove them.
func (o *Options) BinWithVariable(p *Product, names ...string) error {
	const op = "satbin.BinWithVariable"
	vars, err := binVariables(op, p, names)
	if err != nil {
		return err
	}
	binIndex, first := variableBinIndex(vars)

	var keep []*Variable
	for _, v := range vars {
		if TimeBinningPolicy(v, o.PropagateUncertaintyCorrelated) != Remove {
			continue
		}
		c := v.Copy()
		if err := c.RearrangeDimension(0, first); err != nil {
			return errs.Wrap(errs.InvalidArgument, op, err)
		}
		keep = append(keep, c)
	}

	if err := o.Bin(p, len(first), binIndex); err != nil {
		return err
	}
	for _, c := range keep {
		if err := p.AddVariable(c); err != nil {
			return errs.Wrap(errs.InvalidArgument, op, err)
		}
	}
	return nil
}

// BinIndexFromVariables returns a bin index per sample of p such that
// samples with the same combination of values of the named variables
// share a bin, together with the number of bins. It follows the same
// rules as BinWithVariable but leaves p unchanged.
func BinIndexFromVariables(p *Product, names ...string) (binIndex []int, numBins int, err error) {
	vars, err := binVariables("satbin.BinIndexFromVariables", p, names)
	if err != nil {
		return nil, 0, err
	}
	binIndex, first := variableBinIndex(vars)
	return binIndex, len(first), nil
}

func binVariables(op string, p *Product, names []string) ([]*Variable, error) {
	if len(names) == 0 {
		return nil, errs.New(errs.InvalidArgument, op, "binning requires at least one variable")
	}
	vars := make([]*Variable, len(names))
	for k, name := range names {
		v, err := p.Variable(name)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, op, err)
		}
		if len(v.Dimensions) != 1 || v.Dimensions[0] != Time {
			return nil, errs.New(errs.InvalidArgument, op, "variable '%s' should be one dimensional and depend on time to be used for binning", name)
		}
		vars[k] = v
	}
	return vars, nil
}

// variableBinIndex numbers the distinct value combinations of vars in
// order of first appearance. first holds the first sample of each bin.
func variableBinIndex(vars []*Variable) (binIndex, first []int) {
	n := vars[0].Shape[0]
	binIndex = make([]int, n)
	for i := 0; i < n; i++ {
		j := 0
		for ; j < len(first); j++ {
			if sameSample(vars, first[j], i) {
				break
			}
		}
		if j == len(first) {
			first = append(first, i)
		}
		binIndex[i] = j
	}
	return binIndex, first
}

// sameSample reports whether samples i and j have the same value in all
// vars.
func sameSample(vars []*Variable, i, j int) bool {
	for _, v := range vars {
		if v.DataType == String {
			if v.Strings[i] != v.Strings[j] {
				return false
			}
			continue
		}
		a, b := v.Data.Elements[i], v.Data.Elements[j]
		if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
			return false
		}
	}
	return true
}

var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"floor": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("satbin: got %d arguments for function 'floor', but needs 1", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("satbin: argument of function 'floor' is not a number")
		}
		return math.Floor(x), nil
	},
	"mod": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("satbin: got %d arguments for function 'mod', but needs 2", len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("satbin: arguments of function 'mod' are not numbers")
		}
		return math.Mod(x, y), nil
	},
}

// BinIndexFromExpression evaluates expr for each sample of p and returns
// a bin index per sample together with the number of bins. The
// expression may refer to numeric variables of p that have the single
// dimension time, and may use the functions floor(x) and mod(x, y).
// Results are rounded down, and distinct results are numbered in order of
// first appearance. For example "floor(datetime / 86400)" bins samples by
// day if datetime is in seconds.
func BinIndexFromExpression(p *Product, expr string) (binIndex []int, numBins int, err error) {
	const op = "satbin.BinIndexFromExpression"
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFunctions)
	if err != nil {
		return nil, 0, errs.Wrap(errs.InvalidArgument, op, err)
	}
	var vars []*Variable
	for _, name := range e.Vars() {
		v, err := p.timeVariable(name)
		if err != nil {
			return nil, 0, errs.Wrap(errs.InvalidArgument, op, err)
		}
		vars = append(vars, v)
	}

	n := p.Dimension[Time]
	binIndex = make([]int, n)
	bins := make(map[float64]int)
	params := make(map[string]interface{}, len(vars))
	for i := 0; i < n; i++ {
		for _, v := range vars {
			params[v.Name] = v.Data.Elements[i]
		}
		r, err := e.Evaluate(params)
		if err != nil {
			return nil, 0, errs.Wrap(errs.InvalidArgument, op, err)
		}
		x, ok := r.(float64)
		if !ok {
			return nil, 0, errs.New(errs.InvalidArgument, op, "expression '%s' does not give a number for sample %d", expr, i)
		}
		x = math.Floor(x)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, 0, errs.New(errs.InvalidArgument, op, "expression '%s' is not finite for sample %d", expr, i)
		}
		b, ok := bins[x]
		if !ok {
			b = len(bins)
			bins[x] = b
		}
		binIndex[i] = b
	}
	return binIndex, len(bins), nil
}
