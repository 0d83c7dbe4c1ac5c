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
	"github.com/spatialmodel/satbin/errs"
)

// Bin bins p along the time dimension using the zero Options.
func Bin(p *Product, numBins int, binIndex []int) error {
	return defaultOptions.Bin(p, numBins, binIndex)
}

// BinFull bins all samples of p into one time bin using the zero Options.
func BinFull(p *Product) error { return defaultOptions.BinFull(p) }

// BinWithVariable bins the samples of p that share values of the named
// variables, using the zero Options.
func BinWithVariable(p *Product, names ...string) error {
	return defaultOptions.BinWithVariable(p, names...)
}

// BinFull bins all samples of p into a single time bin. A product with an
// empty time dimension is left unchanged.
func (o *Options) BinFull(p *Product) error {
	n := p.Dimension[Time]
	if n == 0 {
		return nil
	}
	return o.Bin(p, 1, make([]int, n))
}

// Bin averages the samples of p into numBins time bins; sample i goes to
// bin binIndex[i]. Each variable is reduced according to
// TimeBinningPolicy. Elements of multi-dimensional variables are averaged
// independently.
//
// Existing <name>_weight or weight variables (preferred), or <name>_count
// or count variables, weigh the samples of each variable; count and weight
// variables themselves are summed. Only non-NaN samples contribute to a
// bin. If a variable has NaN samples and no variable specific count or
// weight, a <name>_count variable is added holding the number of samples
// used per element. Angle variables always get a <name>_weight variable
// holding the length of the averaged unit vector. Reduced variables are
// converted to Float64, and empty bins are NaN (0 for counts and weights).
// A count variable holding the number of samples per bin is added if p
// has none.
func (o *Options) Bin(p *Product, numBins int, binIndex []int) error {
	const op = "satbin.Bin"
	log := o.log()
	n := p.Dimension[Time]
	if err := checkBinIndex(op, n, numBins, binIndex); err != nil {
		return err
	}

	policy := make([]Policy, len(p.Variables), 2*len(p.Variables)+1)
	for k, v := range p.Variables {
		policy[k] = TimeBinningPolicy(v, o.PropagateUncertaintyCorrelated)
		log.WithFields(logrus.Fields{
			"variable": v.Name,
			"policy":   policy[k],
		}).Debug("satbin time binning policy")
	}

	// For each bin, the first sample in it. All samples of a bin are
	// summed into that position.
	index := make([]int, numBins)
	binCount := make([]int, numBins)
	for i, b := range binIndex {
		if binCount[b] == 0 {
			index[b] = i
		}
		binCount[b]++
	}

	// Pre-process.
	for k := 0; k < len(p.Variables); k++ {
		v := p.Variables[k]
		pol := policy[k]
		switch pol {
		case Skip, Remove, Weight:
			continue
		}
		if err := v.ConvertDataType(Float64); err != nil {
			return errs.Wrap(errs.InvalidVariable, op, err)
		}
		switch pol {
		case Angle:
			w := variableFor(p, v, policy, "_weight")
			if w == nil {
				ones := make([]float32, v.NumElements())
				for i := range ones {
					ones[i] = 1
				}
				if err := addWeight(p, &policy, Weight, v.Name+"_weight", v.Dimensions, v.Shape, ones); err != nil {
					return errs.Wrap(errs.InvalidArgument, op, err)
				}
				w = variableFor(p, v, policy, "_weight")
			}
			if err := toVectors(v, w.Data.Elements); err != nil {
				return errs.Wrap(errs.InvalidVariable, op, err)
			}
		case Average, Uncertainty:
			if w, ok := weightFor(p, v, policy); ok {
				mulElements(v.Data.Elements, w)
			} else if c, ok := countFor(p, v, policy); ok {
				mulElements(v.Data.Elements, c)
			}
			if pol == Uncertainty {
				for i, x := range v.Data.Elements {
					v.Data.Elements[i] = x * x
				}
			}
		}
	}

	// Sum samples into the first sample of each bin. Count and weight
	// variables are summed afterwards so the sums above see the values
	// of the samples.
	for k := 0; k < len(p.Variables); k++ {
		v := p.Variables[k]
		switch policy[k] {
		case Skip, Remove, Weight:
			continue
		case TimeMin, TimeMax:
			reduceTime(v, policy[k], binIndex, index, func(int) bool { return true })
		case Angle:
			sumBins(v, binIndex, index)
		case Average, Uncertainty:
			if err := sumAverage(p, &policy, v, binIndex, index); err != nil {
				return errs.Wrap(errs.InvalidArgument, op, err)
			}
		}
	}
	for k, v := range p.Variables {
		if policy[k] == Weight {
			sumBins(v, binIndex, index)
		}
	}

	for k, v := range p.Variables {
		switch policy[k] {
		case Skip, Remove:
			continue
		}
		if err := rearrangeTime(v, numBins, index); err != nil {
			return errs.Wrap(errs.InvalidVariable, op, err)
		}
		numSub := v.NumElements() / max(numBins, 1)
		for b := 0; b < numBins; b++ {
			if binCount[b] > 0 {
				continue
			}
			fill := math.NaN()
			if v.DataType == Int32 || v.DataType == Float32 {
				fill = 0
			}
			for j := b * numSub; j < (b+1)*numSub; j++ {
				v.Data.Elements[j] = fill
			}
		}
	}

	p.Dimension[Time] = numBins

	count := make([]float64, numBins)
	for i, c := range binCount {
		count[i] = float64(c)
	}
	if err := addCount(p, &policy, Skip, "count", []DimensionType{Time}, []int{numBins}, count); err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}

	// Post-process.
	for k := 0; k < len(p.Variables); k++ {
		v := p.Variables[k]
		pol := policy[k]
		switch pol {
		case Angle:
			norm, err := fromVectors(v)
			if err != nil {
				return errs.Wrap(errs.InvalidVariable, op, err)
			}
			w := variableFor(p, v, policy, "_weight")
			if w == nil {
				return errs.New(errs.InvalidVariable, op, "weight variable for '%s' is missing", v.Name)
			}
			for i, n := range norm {
				if undefinedAngle(n, w.Data.Elements[i]) {
					v.Data.Elements[i] = math.NaN()
				}
				if w.Data.Elements[i] != 0 {
					w.Data.Elements[i] = float64(float32(n))
				}
			}
		case Average, Uncertainty:
			d := v.Data.Elements
			if pol == Uncertainty {
				for i, x := range d {
					d[i] = math.Sqrt(x)
				}
			}
			div, ok := weightFor(p, v, policy)
			if !ok {
				div, ok = countFor(p, v, policy)
			}
			if !ok {
				continue
			}
			for i := range d {
				if div[i] == 0 {
					d[i] = math.NaN()
				} else {
					d[i] /= div[i]
				}
			}
		}
	}

	removeMarked(p, policy, log)
	return nil
}

// sumAverage sums the samples of an Average or Uncertainty variable into
// the first sample of each bin, skipping NaN samples. If NaN samples are
// found, their count or weight is set to zero and stored as a variable
// specific count or weight variable.
func sumAverage(p *Product, policy *[]Policy, v *Variable, binIndex, index []int) error {
	w, useWeight := weightFor(p, v, *policy)
	var c []float64
	if !useWeight {
		var ok bool
		if c, ok = countFor(p, v, *policy); !ok {
			c = make([]float64, v.NumElements())
			for i := range c {
				c[i] = 1
			}
		}
	}
	storeCount, storeWeight := false, false
	drop := func(e int) {
		if useWeight {
			if w[e] != 0 {
				w[e] = 0
				storeWeight = true
			}
		} else if c[e] != 0 {
			c[e] = 0
			storeCount = true
		}
	}

	d := v.Data.Elements
	numSub := subElements(v)
	for i, b := range binIndex {
		t := index[b]
		for j := 0; j < numSub; j++ {
			e := i*numSub + j
			if !math.IsNaN(d[e]) {
				if t != i {
					d[t*numSub+j] += d[e]
				}
				continue
			}
			drop(e)
			if t == i {
				d[e] = 0
			}
		}
	}

	if storeCount {
		if cv := variableFor(p, v, *policy, "_count"); cv != nil {
			copy(cv.Data.Elements, c)
		} else if err := addCount(p, policy, Weight, v.Name+"_count", v.Dimensions, v.Shape, c); err != nil {
			return err
		}
	}
	if storeWeight {
		w32 := make([]float32, len(w))
		for i, x := range w {
			w32[i] = float32(x)
		}
		if err := addWeight(p, policy, Weight, v.Name+"_weight", v.Dimensions, v.Shape, w32); err != nil {
			return err
		}
	}
	return nil
}

// sumBins adds all samples of each bin into the first sample of the bin.
func sumBins(v *Variable, binIndex, index []int) {
	d := v.Data.Elements
	numSub := subElements(v)
	for i, b := range binIndex {
		t := index[b]
		if t == i {
			continue
		}
		for j := 0; j < numSub; j++ {
			d[t*numSub+j] += d[i*numSub+j]
			if v.DataType == Float32 {
				d[t*numSub+j] = float64(float32(d[t*numSub+j]))
			}
		}
	}
}

// subElements returns the number of elements per sample of v.
func subElements(v *Variable) int {
	n := 1
	for _, l := range v.Shape[1:] {
		n *= l
	}
	return n
}

func mulElements(d, f []float64) {
	for i := range d {
		d[i] *= f[i]
	}
}

// variableFor returns the <v.Name><suffix> variable if it exists, is not
// being removed and has the same dimensions as v. A variable with that
// name but other dimensions is marked for removal.
func variableFor(p *Product, v *Variable, policy []Policy, suffix string) *Variable {
	k := p.VariableIndex(v.Name + suffix)
	if k < 0 || policy[k] == Remove {
		return nil
	}
	w := p.Variables[k]
	if !w.sameDimensions(v) {
		policy[k] = Remove
		return nil
	}
	return w
}

// expand repeats each value of w for every element of v that it covers.
// The dimensions of w must be the leading dimensions of v.
func expand(w, v *Variable) []float64 {
	out := make([]float64, v.NumElements())
	if len(w.Data.Elements) == 0 {
		return out
	}
	numSub := len(out) / len(w.Data.Elements)
	for i, x := range w.Data.Elements {
		for j := 0; j < numSub; j++ {
			out[i*numSub+j] = x
		}
	}
	return out
}

// countFor returns, for each element of v, the count from the
// <name>_count variable or else the global count variable.
func countFor(p *Product, v *Variable, policy []Policy) ([]float64, bool) {
	if !timeFirst(v) {
		return nil, false
	}
	c := variableFor(p, v, policy, "_count")
	if c == nil {
		k := p.VariableIndex("count")
		if k < 0 || policy[k] == Remove {
			return nil, false
		}
		c = p.Variables[k]
		if len(c.Shape) == 0 || c.Shape[0] != v.Shape[0] {
			return nil, false
		}
	}
	return expand(c, v), true
}

// weightFor returns, for each element of v, the weight from the
// <name>_weight variable or else the global weight variable if its
// dimensions lead those of v. One-dimensional variables are never
// weighted.
func weightFor(p *Product, v *Variable, policy []Policy) ([]float64, bool) {
	if len(v.Dimensions) <= 1 || v.Dimensions[0] != Time {
		return nil, false
	}
	w := variableFor(p, v, policy, "_weight")
	if w == nil {
		k := p.VariableIndex("weight")
		if k < 0 || policy[k] == Remove {
			return nil, false
		}
		w = p.Variables[k]
		if len(w.Dimensions) > len(v.Dimensions) {
			return nil, false
		}
		for i := range w.Dimensions {
			if w.Dimensions[i] != v.Dimensions[i] || w.Shape[i] != v.Shape[i] {
				return nil, false
			}
		}
	}
	return expand(w, v), true
}
