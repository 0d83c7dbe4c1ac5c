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
	"testing"

	"github.com/ctessum/sparse"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spatialmodel/satbin/errs"
)

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// variableOpts compare variables, treating NaN as equal to NaN.
var variableOpts = cmp.Options{
	cmpopts.IgnoreUnexported(sparse.DenseArray{}),
	cmpopts.EquateNaNs(),
	cmpopts.EquateEmpty(),
}

func mustVariable(t *testing.T, name, unit string, dims []DimensionType, shape []int, values ...float64) *Variable {
	t.Helper()
	v, err := NewFloat64Variable(name, unit, dims, shape, values)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNewVariable(t *testing.T) {
	v, err := NewVariable("x", Int16, []DimensionType{Time, Vertical}, []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if v.NumElements() != 6 || len(v.Data.Elements) != 6 || v.Strings != nil {
		t.Errorf("got %+v", v)
	}
	s, err := NewVariable("s", String, []DimensionType{Time}, []int{4})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Strings) != 4 || s.Data != nil {
		t.Errorf("string variable: %+v", s)
	}
	scalar, err := NewVariable("c", Float64, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if scalar.NumElements() != 1 || len(scalar.Data.Elements) != 1 {
		t.Errorf("scalar: %+v", scalar)
	}

	tests := []struct {
		name  string
		dt    DataType
		dims  []DimensionType
		shape []int
	}{
		{name: "mismatch", dt: Float64, dims: []DimensionType{Time}, shape: []int{1, 2}},
		{name: "negative", dt: Float64, dims: []DimensionType{Time}, shape: []int{-1}},
		{name: "type", dt: DataType(42), dims: []DimensionType{Time}, shape: []int{1}},
		{name: "too many", dt: Float64, dims: make([]DimensionType, 9), shape: make([]int, 9)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewVariable("x", test.dt, test.dims, test.shape)
			if errs.KindOf(err) != errs.InvalidArgument {
				t.Errorf("want invalid argument, got %v", err)
			}
		})
	}
	if _, err := NewFloat64Variable("x", "", []DimensionType{Time}, []int{2}, []float64{1}); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("wrong number of values: %v", err)
	}
}

func TestConvertDataType(t *testing.T) {
	v := mustVariable(t, "x", "", []DimensionType{Time}, []int{5}, 1.7, -1.7, 300, math.NaN(), -200)
	c := v.Copy()
	if err := c.ConvertDataType(Int8); err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, -1, 127, 0, -128}; !cmp.Equal(c.Data.Elements, want) {
		t.Errorf("int8: got %v, want %v", c.Data.Elements, want)
	}
	if !math.IsNaN(v.Data.Elements[3]) {
		t.Error("Copy shares data with the original")
	}
	c = v.Copy()
	if err := c.ConvertDataType(Int32); err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, -1, 300, 0, -200}; !cmp.Equal(c.Data.Elements, want) {
		t.Errorf("int32: got %v, want %v", c.Data.Elements, want)
	}
	f := mustVariable(t, "f", "", []DimensionType{Time}, []int{1}, 0.1)
	if err := f.ConvertDataType(Float32); err != nil {
		t.Fatal(err)
	}
	if f.Data.Elements[0] != float64(float32(0.1)) || f.DataType != Float32 {
		t.Errorf("float32: %v", f.Data.Elements)
	}
	if err := f.ConvertDataType(String); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("to string: %v", err)
	}
}

func TestRearrangeDimension(t *testing.T) {
	v := mustVariable(t, "x", "K", []DimensionType{Time, Vertical}, []int{2, 3}, 0, 1, 2, 3, 4, 5)
	if err := v.RearrangeDimension(1, []int{2, 0}); err != nil {
		t.Fatal(err)
	}
	want := mustVariable(t, "x", "K", []DimensionType{Time, Vertical}, []int{2, 2}, 2, 0, 5, 3)
	if diff := cmp.Diff(want, v, variableOpts); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if err := v.RearrangeDimension(0, []int{1, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if want := []float64{5, 3, 5, 3, 2, 0}; !cmp.Equal(v.Data.Elements, want) {
		t.Errorf("time: got %v, want %v", v.Data.Elements, want)
	}
	if err := v.RearrangeDimension(0, []int{3}); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("index out of range: %v", err)
	}
	if err := v.RearrangeDimension(2, []int{0}); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("dimension out of range: %v", err)
	}

	s, _ := NewVariable("s", String, []DimensionType{Time}, []int{3})
	copy(s.Strings, []string{"a", "b", "c"})
	if err := s.RearrangeDimension(0, []int{2, 0}); err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(s.Strings, []string{"c", "a"}) {
		t.Errorf("strings: %v", s.Strings)
	}
}

func TestAddRemoveDimension(t *testing.T) {
	v := mustVariable(t, "x", "K", []DimensionType{Vertical}, []int{2}, 1, 2)
	if err := v.AddDimension(0, Time, 2); err != nil {
		t.Fatal(err)
	}
	want := mustVariable(t, "x", "K", []DimensionType{Time, Vertical}, []int{2, 2}, 1, 2, 1, 2)
	if diff := cmp.Diff(want, v, variableOpts); diff != "" {
		t.Errorf("leading (-want +got):\n%s", diff)
	}
	if err := v.AddDimension(2, Independent, 3); err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, 1, 1, 2, 2, 2, 1, 1, 1, 2, 2, 2}; !cmp.Equal(v.Data.Elements, want) {
		t.Errorf("trailing: got %v", v.Data.Elements)
	}
	if err := v.RemoveDimension(1, 1); err != nil {
		t.Fatal(err)
	}
	want = mustVariable(t, "x", "K", []DimensionType{Time, Independent}, []int{2, 3}, 2, 2, 2, 2, 2, 2)
	if diff := cmp.Diff(want, v, variableOpts); diff != "" {
		t.Errorf("remove (-want +got):\n%s", diff)
	}
	if err := v.RemoveDimension(0, 2); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("keep out of range: %v", err)
	}
	if err := v.AddDimension(0, Time, 0); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("zero length: %v", err)
	}
}

func TestProduct(t *testing.T) {
	p := NewProduct()
	if err := p.AddVariable(mustVariable(t, "a", "K", []DimensionType{Time}, []int{3}, 1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if p.Dimension[Time] != 3 {
		t.Errorf("time dimension %d", p.Dimension[Time])
	}
	if err := p.AddVariable(mustVariable(t, "a", "K", []DimensionType{Time}, []int{3}, 1, 2, 3)); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("duplicate: %v", err)
	}
	if err := p.AddVariable(mustVariable(t, "b", "K", []DimensionType{Time}, []int{2}, 1, 2)); errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("dimension mismatch: %v", err)
	}
	if err := p.AddVariable(mustVariable(t, "c", "", []DimensionType{Time, Independent}, []int{3, 4}, make([]float64, 12)...)); err != nil {
		t.Fatal(err)
	}
	if err := p.AddVariable(mustVariable(t, "d", "", []DimensionType{Independent}, []int{2}, 0, 0)); err != nil {
		t.Errorf("independent dimensions can differ: %v", err)
	}
	if !p.HasVariable("c") || p.VariableIndex("c") != 1 {
		t.Error("variable c not found")
	}
	if _, err := p.Variable("z"); errs.KindOf(err) != errs.InvalidVariable {
		t.Errorf("missing variable: %v", err)
	}
	if err := p.ReplaceVariable(mustVariable(t, "a", "K", []DimensionType{Time}, []int{3}, 4, 5, 6)); err != nil {
		t.Fatal(err)
	}
	a, _ := p.Variable("a")
	if a.Data.Elements[0] != 4 {
		t.Errorf("replace: %v", a.Data.Elements)
	}
	if err := p.RemoveVariable("a"); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveVariable("a"); errs.KindOf(err) != errs.InvalidVariable {
		t.Errorf("remove twice: %v", err)
	}
	if len(p.Variables) != 2 || p.Variables[0].Name != "c" || p.Variables[1].Name != "d" {
		t.Errorf("remaining variables: %v, %v", p.Variables[0].Name, p.Variables[1].Name)
	}
}

func TestConvertAngle(t *testing.T) {
	tests := []struct {
		from, to string
		in, want float64
	}{
		{from: "degree", to: "rad", in: 180, want: math.Pi},
		{from: "rad", to: "degrees_north", in: math.Pi / 2, want: 90},
		{from: "arcmin", to: "deg", in: 90, want: 1.5},
		{from: "arcsec", to: "arcmin", in: 120, want: 2},
		{from: "degree_east", to: "degree", in: -12.5, want: -12.5},
	}
	for _, test := range tests {
		t.Run(test.from+" to "+test.to, func(t *testing.T) {
			v := []float64{test.in}
			if err := ConvertAngle(v, test.from, test.to); err != nil {
				t.Fatal(err)
			}
			if different(v[0], test.want, 1e-12) {
				t.Errorf("got %g, want %g", v[0], test.want)
			}
		})
	}
	for _, u := range []string{"", "K", "m"} {
		if err := ConvertAngle([]float64{1}, u, "rad"); errs.KindOf(err) != errs.InvalidVariable {
			t.Errorf("unit %q: %v", u, err)
		}
	}
}
