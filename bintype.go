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

import "strings"

// Policy is the way a variable is reduced when samples are binned.
type Policy int

// These are the binning policies.
const (
	// Skip leaves the variable untouched.
	Skip Policy = iota
	// Remove deletes the variable after binning.
	Remove
	// Average takes the weighted mean of the samples.
	Average
	// Uncertainty combines the samples in quadrature.
	Uncertainty
	// Weight sums the samples. It applies to count and weight variables.
	Weight
	// Angle averages the samples as unit vectors.
	Angle
	// TimeMin takes the smallest sample of each time bin.
	TimeMin
	// TimeMax takes the largest sample of each time bin.
	TimeMax
	// TimeAverage takes the plain mean of each time bin.
	TimeAverage
)

var policyNames = [...]string{"skip", "remove", "average", "uncertainty", "weight", "angle", "time_min", "time_max", "time_average"}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return "unknown"
	}
	return policyNames[p]
}

// timeNotFirst reports whether a dimension other than the first has the
// time type.
func timeNotFirst(v *Variable) bool {
	for _, d := range v.Dimensions[min(1, len(v.Dimensions)):] {
		if d == Time {
			return true
		}
	}
	return false
}

func timeFirst(v *Variable) bool {
	return len(v.Dimensions) > 0 && v.Dimensions[0] == Time
}

// notReducible reports whether the values of v cannot be averaged.
func notReducible(v *Variable) bool {
	return len(v.EnumNames) > 0 || v.DataType == String || v.Unit == ""
}

// isAreaBounds reports whether v is a latitude_bounds or longitude_bounds
// variable that describes a footprint rather than a lower and upper bound.
func isAreaBounds(v *Variable) bool {
	if v.Name != "latitude_bounds" && v.Name != "longitude_bounds" {
		return false
	}
	last := len(v.Dimensions) - 1
	return last >= 0 && v.Dimensions[last] == Independent && v.Shape[last] > 2
}

func isAngle(name string) bool {
	for _, s := range []string{"latitude", "longitude", "angle", "direction"} {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// timeBound returns TimeMin or TimeMax for the one-dimensional
// datetime_start and datetime_stop variables.
func timeBound(v *Variable) (Policy, bool) {
	if len(v.Dimensions) == 1 {
		switch v.Name {
		case "datetime_start":
			return TimeMin, true
		case "datetime_stop":
			return TimeMax, true
		}
	}
	return Skip, false
}

// SpatialBinningPolicy returns how BinSpatial reduces v. Latitude and
// longitude variables are always removed because the grid defines them
// anew, as are count and weight variables.
func SpatialBinningPolicy(v *Variable) Policy {
	if timeNotFirst(v) {
		return Remove
	}
	if strings.Contains(v.Name, "latitude") || strings.Contains(v.Name, "longitude") {
		return Remove
	}
	if strings.HasSuffix(v.Name, "count") || strings.HasSuffix(v.Name, "weight") {
		return Remove
	}
	if v.Name == "datetime" || v.Name == "datetime_length" {
		if len(v.Dimensions) != 1 || v.Dimensions[0] != Time {
			return Remove
		}
		return TimeAverage
	}
	if !timeFirst(v) {
		return Skip
	}
	if notReducible(v) {
		return Remove
	}
	if strings.Contains(v.Name, "_uncertainty") {
		if strings.Contains(v.Name, "_uncertainty_random") {
			return Uncertainty
		}
		return Average
	}
	if strings.Contains(v.Name, "_avk") {
		return Remove
	}
	if isAreaBounds(v) {
		return Remove
	}
	if isAngle(v.Name) {
		return Angle
	}
	if p, ok := timeBound(v); ok {
		return p
	}
	return Average
}

// TimeBinningPolicy returns how Bin reduces v. Count variables (int32)
// and weight variables (float) that depend on time and have no unit are
// summed; invalid ones are removed. Total uncertainties are averaged if
// correlated is true and combined in quadrature otherwise.
func TimeBinningPolicy(v *Variable, correlated bool) Policy {
	if timeNotFirst(v) {
		return Remove
	}
	if strings.HasSuffix(v.Name, "count") {
		if !timeFirst(v) || v.DataType != Int32 || v.Unit != "" {
			return Remove
		}
		if v.Name == "count" && len(v.Dimensions) != 1 {
			return Remove
		}
		return Weight
	}
	if strings.HasSuffix(v.Name, "weight") {
		if !timeFirst(v) || v.DataType != Float32 || v.Unit != "" {
			return Remove
		}
		return Weight
	}
	if !timeFirst(v) {
		return Skip
	}
	if notReducible(v) {
		return Remove
	}
	if strings.Contains(v.Name, "_uncertainty") {
		switch {
		case strings.Contains(v.Name, "_uncertainty_systematic"):
			return Average
		case strings.Contains(v.Name, "_uncertainty_random"):
			return Uncertainty
		case correlated:
			return Average
		}
		return Uncertainty
	}
	if strings.Contains(v.Name, "_avk") {
		return Remove
	}
	if isAreaBounds(v) {
		return Remove
	}
	if isAngle(v.Name) {
		return Angle
	}
	if p, ok := timeBound(v); ok {
		return p
	}
	return Average
}
