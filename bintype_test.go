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

import "testing"

func policyVariable(name string, dt DataType, unit string, dims ...DimensionType) *Variable {
	shape := make([]int, len(dims))
	for i := range shape {
		shape[i] = 2
	}
	v, err := NewVariable(name, dt, dims, shape)
	if err != nil {
		panic(err)
	}
	v.Unit = unit
	return v
}

func TestSpatialBinningPolicy(t *testing.T) {
	enum := policyVariable("cloud_type", Int8, "1", Time)
	enum.EnumNames = []string{"clear", "cloudy"}
	tests := []struct {
		v    *Variable
		want Policy
	}{
		{v: policyVariable("NO2_column_number_density_uncertainty_random", Float64, "mol/m2", Time), want: Uncertainty},
		{v: policyVariable("NO2_column_number_density_uncertainty_systematic", Float64, "mol/m2", Time), want: Average},
		{v: policyVariable("NO2_column_number_density_uncertainty", Float64, "mol/m2", Time), want: Average},
		{v: policyVariable("surface_pressure", Float32, "hPa", Time), want: Average},
		{v: policyVariable("sensor_name", String, "", Time), want: Remove},
		{v: policyVariable("latitude", Float64, "degree_north", Time), want: Remove},
		{v: policyVariable("tropopause_longitude", Float64, "degree_east", Time), want: Remove},
		{v: policyVariable("count", Int32, "", Time), want: Remove},
		{v: policyVariable("O3_weight", Float32, "", Time), want: Remove},
		{v: policyVariable("datetime", Float64, "s", Time), want: TimeAverage},
		{v: policyVariable("datetime_length", Float64, "s", Time, Vertical), want: Remove},
		{v: policyVariable("datetime_start", Float64, "s", Time), want: TimeMin},
		{v: policyVariable("datetime_stop", Float64, "s", Time), want: TimeMax},
		{v: policyVariable("pressure", Float64, "hPa", Vertical), want: Skip},
		{v: policyVariable("pressure", Float64, "hPa", Vertical, Time), want: Remove},
		{v: policyVariable("O3_avk", Float64, "1", Time, Vertical, Vertical), want: Remove},
		{v: policyVariable("solar_zenith_angle", Float64, "deg", Time), want: Angle},
		{v: policyVariable("wind_direction", Float64, "deg", Time), want: Angle},
		{v: policyVariable("cloud_fraction", Float64, "", Time), want: Remove},
		{v: enum, want: Remove},
	}
	for _, test := range tests {
		t.Run(test.v.Name, func(t *testing.T) {
			if got := SpatialBinningPolicy(test.v); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestTimeBinningPolicy(t *testing.T) {
	tests := []struct {
		v          *Variable
		correlated bool
		want       Policy
	}{
		{v: policyVariable("count", Int32, "", Time), want: Weight},
		{v: policyVariable("count", Int32, "", Time, Vertical), want: Remove},
		{v: policyVariable("O3_count", Int32, "", Time, Vertical), want: Weight},
		{v: policyVariable("O3_count", Float64, "", Time), want: Remove},
		{v: policyVariable("O3_count", Int32, "1", Time), want: Remove},
		{v: policyVariable("weight", Float32, "", Time), want: Weight},
		{v: policyVariable("O3_weight", Float32, "", Vertical), want: Remove},
		{v: policyVariable("O3_weight", Float64, "", Time), want: Remove},
		{v: policyVariable("O3_uncertainty_random", Float64, "DU", Time), want: Uncertainty},
		{v: policyVariable("O3_uncertainty_systematic", Float64, "DU", Time), want: Average},
		{v: policyVariable("O3_uncertainty", Float64, "DU", Time), want: Uncertainty},
		{v: policyVariable("O3_uncertainty", Float64, "DU", Time), correlated: true, want: Average},
		{v: policyVariable("latitude", Float64, "degree_north", Time), want: Angle},
		{v: policyVariable("datetime_start", Float64, "s", Time), want: TimeMin},
		{v: policyVariable("datetime", Float64, "s", Time), want: Average},
		{v: policyVariable("altitude", Float64, "m", Vertical), want: Skip},
		{v: policyVariable("sensor_name", String, "", Time), want: Remove},
		{v: policyVariable("O3_avk", Float64, "1", Time, Vertical, Vertical), want: Remove},
	}
	for _, test := range tests {
		t.Run(test.v.Name, func(t *testing.T) {
			if got := TimeBinningPolicy(test.v, test.correlated); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}
