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
	"github.com/spatialmodel/satbin/grid"
)

// BinSpatial bins p onto a latitude/longitude grid using the zero Options.
func BinSpatial(p *Product, numTimeBins int, timeBinIndex []int, latEdges, lonEdges []float64) error {
	return defaultOptions.BinSpatial(p, numTimeBins, timeBinIndex, latEdges, lonEdges)
}

// BinSpatialFull bins all samples of p into a single time bin on a
// latitude/longitude grid using the zero Options.
func BinSpatialFull(p *Product, latEdges, lonEdges []float64) error {
	return defaultOptions.BinSpatialFull(p, latEdges, lonEdges)
}

// BinSpatialFull bins all samples of p into a single time bin on the grid
// with the given edges. A product with an empty time dimension is left
// unchanged.
func (o *Options) BinSpatialFull(p *Product, latEdges, lonEdges []float64) error {
	n := p.Dimension[Time]
	if n == 0 {
		return nil
	}
	return o.BinSpatial(p, 1, make([]int, n), latEdges, lonEdges)
}

// BinSpatial bins the samples of p into numTimeBins time bins and into the
// cells of the grid with the given latitude and longitude edges (in
// degrees). Sample i goes to time bin timeBinIndex[i].
//
// If p has latitude_bounds and longitude_bounds variables with dimensions
// [time, independent] each sample footprint is spread over the cells it
// overlaps, weighted by the fraction of the cell it covers. Otherwise each
// sample goes to the cell holding its latitude and longitude variables,
// with weight 1.
//
// Each variable is reduced according to SpatialBinningPolicy. Reduced
// variables get dimensions [time, latitude, longitude, ...], with NaN for
// cells without samples. A count variable holds the number of samples
// in each time bin and a weight variable the sum of the sample weights in
// each cell. Variables that had NaN samples, and all angle variables, get
// a <name>_weight variable too. Finally latitude_bounds and
// longitude_bounds are set to the edges of the grid.
//
// p must not have latitude or longitude dimensions. Errors found while
// checking the arguments leave p unchanged. The binning itself is not
// transactional: an error while reducing variables can leave p partially
// transformed.
func (o *Options) BinSpatial(p *Product, numTimeBins int, timeBinIndex []int, latEdges, lonEdges []float64) error {
	const op = "satbin.BinSpatial"
	log := o.log()

	if p.Dimension[Latitude] > 0 || p.Dimension[Longitude] > 0 {
		return errs.New(errs.InvalidArgument, op, "spatial binning cannot be performed on products that already have a latitude and/or longitude dimension")
	}
	numTime := p.Dimension[Time]
	if err := checkBinIndex(op, numTime, numTimeBins, timeBinIndex); err != nil {
		return err
	}
	s := &grid.Spec{
		LatitudeEdges:  append([]float64(nil), latEdges...),
		LongitudeEdges: append([]float64(nil), lonEdges...),
	}
	if err := s.Validate(); err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}
	cells, area, err := matchCells(p, s)
	if err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}

	nLat, nLon, nCells := s.NumLatitudeCells(), s.NumLongitudeCells(), s.NumCells()
	policy := make([]Policy, len(p.Variables), 2*len(p.Variables)+2)
	for k, v := range p.Variables {
		policy[k] = SpatialBinningPolicy(v)
		extra := 2
		if policy[k] == Angle {
			extra = 3
		}
		switch policy[k] {
		case Average, Uncertainty, Angle:
			if len(v.Dimensions)+extra > MaxDimensions {
				return errs.New(errs.InvalidArgument, op, "too many dimensions (%d) for variable %s to perform spatial binning", len(v.Dimensions), v.Name)
			}
		}
		log.WithFields(logrus.Fields{
			"variable": v.Name,
			"policy":   policy[k],
		}).Debug("satbin spatial binning policy")
	}

	// For each time bin, the first sample that contributes to it.
	timeIndex := make([]int, numTimeBins)
	binCount := make([]int, numTimeBins)
	matched := 0
	for i, c := range cells {
		if len(c) == 0 {
			continue
		}
		b := timeBinIndex[i]
		if binCount[b] == 0 {
			timeIndex[b] = i
		}
		binCount[b]++
		matched++
	}
	log.WithFields(logrus.Fields{
		"samples":   numTime,
		"matched":   matched,
		"time_bins": numTimeBins,
		"cells":     nCells,
		"area":      area,
	}).Debug("satbin matched samples to grid cells")

	// Pre-process.
	for k, v := range p.Variables {
		switch policy[k] {
		case Skip, Remove:
			continue
		}
		if err := v.ConvertDataType(Float64); err != nil {
			return errs.Wrap(errs.InvalidVariable, op, err)
		}
		switch policy[k] {
		case Angle:
			if err := toVectors(v, nil); err != nil {
				return errs.Wrap(errs.InvalidVariable, op, err)
			}
		case Uncertainty:
			for i, x := range v.Data.Elements {
				v.Data.Elements[i] = x * x
			}
		}
	}

	p.Dimension[Time] = numTimeBins
	p.Dimension[Latitude] = nLat
	p.Dimension[Longitude] = nLon

	count := make([]float64, numTimeBins)
	for i, c := range binCount {
		count[i] = float64(c)
	}
	if err := addCount(p, &policy, Skip, "count", []DimensionType{Time}, []int{numTimeBins}, count); err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}

	weight := make([]float32, numTimeBins*nCells)
	for i, c := range cells {
		offset := timeBinIndex[i] * nCells
		for _, a := range c {
			w := 1.0
			if area {
				w = a.Weight
			}
			weight[offset+a.Cell] = float32(float64(weight[offset+a.Cell]) + w)
		}
	}
	if err := addWeight(p, &policy, Skip, "weight", []DimensionType{Time, Latitude, Longitude}, []int{numTimeBins, nLat, nLon}, weight); err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}

	for k := 0; k < len(p.Variables); k++ {
		v := p.Variables[k]
		switch policy[k] {
		case Skip, Remove:
			continue
		case TimeMin, TimeMax, TimeAverage:
			reduceTime(v, policy[k], timeBinIndex, timeIndex, func(i int) bool { return len(cells[i]) > 0 })
			if err := resampleTime(v, numTimeBins, timeIndex, binCount, policy[k] == TimeAverage); err != nil {
				return errs.Wrap(errs.InvalidVariable, op, err)
			}
			continue
		}

		nv, w, storeWeight, err := spreadVariable(v, policy[k], s, numTimeBins, timeBinIndex, cells, area)
		if err != nil {
			return errs.Wrap(errs.InvalidVariable, op, err)
		}
		p.Variables[k] = nv
		if storeWeight {
			if err := addWeight(p, &policy, Skip, nv.Name+"_weight", nv.Dimensions, nv.Shape, w[:nv.NumElements()]); err != nil {
				return errs.Wrap(errs.InvalidArgument, op, err)
			}
		}
	}

	removeMarked(p, policy, log)

	if err := addGridBounds(p, s); err != nil {
		return errs.Wrap(errs.InvalidArgument, op, err)
	}
	return nil
}

// checkBinIndex checks that there is one bin index per sample and that
// all indices are in [0, numBins).
func checkBinIndex(op string, numSamples, numBins int, binIndex []int) error {
	if len(binIndex) != numSamples {
		return errs.New(errs.InvalidArgument, op, "number of bin indices (%d) does not match time dimension length (%d)", len(binIndex), numSamples)
	}
	for i, b := range binIndex {
		if b < 0 || b >= numBins {
			return errs.New(errs.InvalidArgument, op, "bin index[%d] (%d) should be in the range [0..%d)", i, b, numBins)
		}
	}
	return nil
}

// matchCells finds the grid cells of each sample of p, from the sample
// footprints if p has them and from the sample centres otherwise. area is
// true if footprints were used.
func matchCells(p *Product, s *grid.Spec) (cells [][]grid.Assignment, area bool, err error) {
	latB, lonB := p.boundsVariable("latitude_bounds"), p.boundsVariable("longitude_bounds")
	if latB != nil && lonB != nil {
		lat, err := degrees(latB)
		if err != nil {
			return nil, false, err
		}
		lon, err := degrees(lonB)
		if err != nil {
			return nil, false, err
		}
		if latB.Shape[1] != lonB.Shape[1] {
			return nil, false, errs.New(errs.InvalidVariable, "satbin.matchCells", "latitude_bounds and longitude_bounds variables should have the same length for the independent dimension")
		}
		cells, err = s.MatchBounds(lat, lon, latB.Shape[1])
		return cells, true, err
	}
	latV, err := p.timeVariable("latitude")
	if err != nil {
		return nil, false, err
	}
	lonV, err := p.timeVariable("longitude")
	if err != nil {
		return nil, false, err
	}
	lat, err := degrees(latV)
	if err != nil {
		return nil, false, err
	}
	lon, err := degrees(lonV)
	if err != nil {
		return nil, false, err
	}
	cells, err = s.MatchPoints(lat, lon)
	return cells, false, err
}

// boundsVariable returns the named numeric variable if it has dimensions
// [time, independent], and nil otherwise.
func (p *Product) boundsVariable(name string) *Variable {
	v, err := p.Variable(name)
	if err != nil || v.Data == nil || len(v.Dimensions) != 2 || v.Dimensions[0] != Time || v.Dimensions[1] != Independent {
		return nil
	}
	return v
}

// timeVariable returns the named numeric variable, which must have the
// single dimension time.
func (p *Product) timeVariable(name string) (*Variable, error) {
	v, err := p.Variable(name)
	if err != nil {
		return nil, err
	}
	if v.Data == nil || len(v.Dimensions) != 1 || v.Dimensions[0] != Time {
		return nil, errs.New(errs.InvalidVariable, "satbin.Product.timeVariable", "variable '%s' should be numeric and have the single dimension time", name)
	}
	return v, nil
}

// spreadVariable distributes the samples of v over [time, latitude,
// longitude] cells. It returns the reduced variable, the sum of the
// sample weights per element and whether those weights should be kept
// as a separate variable.
func spreadVariable(v *Variable, pol Policy, s *grid.Spec, numTimeBins int, timeBinIndex []int, cells [][]grid.Assignment, area bool) (*Variable, []float32, bool, error) {
	nCells := s.NumCells()
	dims := append([]DimensionType{Time, Latitude, Longitude}, v.Dimensions[1:]...)
	shape := append([]int{numTimeBins, s.NumLatitudeCells(), s.NumLongitudeCells()}, v.Shape[1:]...)
	nv, err := NewVariable(v.Name, Float64, dims, shape)
	if err != nil {
		return nil, nil, false, err
	}
	nv.Description = v.Description
	nv.Unit = v.Unit
	nv.EnumNames = v.EnumNames

	numSub := 1
	for _, l := range v.Shape[1:] {
		numSub *= l
	}
	in, out := v.Data.Elements, nv.Data.Elements
	w := make([]float32, len(out))
	storeWeight := false
	for i, c := range cells {
		offset := timeBinIndex[i] * nCells
		for _, a := range c {
			target := offset + a.Cell
			sw, mult := 1.0, 1.0
			if area {
				sw = a.Weight
				mult = sw
				if pol == Uncertainty {
					mult *= sw
				}
			}
			if pol == Angle {
				// One weight per [cos, sin] pair.
				for j := 0; j < numSub; j += 2 {
					x := in[i*numSub+j]
					if math.IsNaN(x) {
						continue
					}
					wi := (target*numSub + j) / 2
					w[wi] = float32(float64(w[wi]) + sw)
					out[target*numSub+j] += mult * x
					out[target*numSub+j+1] += mult * in[i*numSub+j+1]
				}
				continue
			}
			for j := 0; j < numSub; j++ {
				x := in[i*numSub+j]
				if math.IsNaN(x) {
					storeWeight = true
					continue
				}
				wi := target*numSub + j
				w[wi] = float32(float64(w[wi]) + sw)
				out[wi] += mult * x
			}
		}
	}

	if pol == Angle {
		norm, err := fromVectors(nv)
		if err != nil {
			return nil, nil, false, err
		}
		d := nv.Data.Elements
		for i, n := range norm {
			if undefinedAngle(n, float64(w[i])) {
				d[i] = math.NaN()
			}
			if w[i] != 0 {
				w[i] = float32(n)
			}
		}
		return nv, w, true, nil
	}
	if pol == Uncertainty {
		for i, x := range out {
			out[i] = math.Sqrt(x)
		}
	}
	for i := range out {
		if w[i] == 0 {
			out[i] = math.NaN()
		} else {
			out[i] /= float64(w[i])
		}
	}
	return nv, w, storeWeight, nil
}

// reduceTime combines, for each time bin, the samples for which use is
// true into the position of the first sample of the bin.
func reduceTime(v *Variable, pol Policy, binIndex, firstIndex []int, use func(i int) bool) {
	d := v.Data.Elements
	for i := range binIndex {
		if !use(i) {
			continue
		}
		t := firstIndex[binIndex[i]]
		switch pol {
		case TimeMin:
			if d[i] < d[t] || (math.IsNaN(d[t]) && !math.IsNaN(d[i])) {
				d[t] = d[i]
			}
		case TimeMax:
			if d[i] > d[t] || (math.IsNaN(d[t]) && !math.IsNaN(d[i])) {
				d[t] = d[i]
			}
		default:
			if t != i {
				d[t] += d[i]
			}
		}
	}
}

// resampleTime reduces the time dimension of v to the values at
// firstIndex, sets empty bins to NaN and, if average is true, divides
// each bin by its number of samples.
func resampleTime(v *Variable, numBins int, firstIndex, binCount []int, average bool) error {
	if err := rearrangeTime(v, numBins, firstIndex); err != nil {
		return err
	}
	numSub := v.NumElements() / max(numBins, 1)
	d := v.Data.Elements
	for b := 0; b < numBins; b++ {
		for j := b * numSub; j < (b+1)*numSub; j++ {
			switch {
			case binCount[b] == 0:
				d[j] = math.NaN()
			case average:
				d[j] /= float64(binCount[b])
			}
		}
	}
	return nil
}

// rearrangeTime resamples the time dimension of v to the given sample
// indices. A variable with an empty time dimension gets zero values.
func rearrangeTime(v *Variable, numBins int, index []int) error {
	if v.Shape[0] > 0 {
		return v.RearrangeDimension(0, index)
	}
	nv, err := NewVariable(v.Name, v.DataType, v.Dimensions, append([]int{numBins}, v.Shape[1:]...))
	if err != nil {
		return err
	}
	v.Shape, v.Data, v.Strings = nv.Shape, nv.Data, nv.Strings
	return nil
}

// addGridBounds adds latitude_bounds and longitude_bounds variables
// holding the edges of each grid row and column.
func addGridBounds(p *Product, s *grid.Spec) error {
	add := func(name, unit string, t DimensionType, edges []float64) error {
		n := len(edges) - 1
		b := make([]float64, 0, 2*n)
		for i := 0; i < n; i++ {
			b = append(b, edges[i], edges[i+1])
		}
		v, err := NewFloat64Variable(name, unit, []DimensionType{t, Independent}, []int{n, 2}, b)
		if err != nil {
			return err
		}
		return p.AddVariable(v)
	}
	if err := add("latitude_bounds", UnitLatitude, Latitude, s.LatitudeEdges); err != nil {
		return err
	}
	return add("longitude_bounds", UnitLongitude, Longitude, s.LongitudeEdges)
}
