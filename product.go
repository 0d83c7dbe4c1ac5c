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

// Package satbin aggregates geolocated satellite samples onto regular
// latitude/longitude grids and into time bins.
//
// A Product is a set of named Variables that share dimensions. The
// binning functions in this package transform a Product in place:
// BinSpatial and BinSpatialFull grid each time bin, and Bin, BinFull and
// BinWithVariable average samples along the time dimension only.
package satbin

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/satbin/errs"
)

// DimensionType identifies what a variable dimension represents.
type DimensionType int

// These are the dimension types. All dimensions of a Product with the
// same type except Independent have the same length.
const (
	Independent DimensionType = iota
	Time
	Latitude
	Longitude
	Vertical
	Spectral
)

var dimensionNames = [...]string{"independent", "time", "latitude", "longitude", "vertical", "spectral"}

func (d DimensionType) String() string {
	if d < 0 || int(d) >= len(dimensionNames) {
		return fmt.Sprintf("DimensionType(%d)", int(d))
	}
	return dimensionNames[d]
}

// MaxDimensions is the largest number of dimensions a variable can have.
const MaxDimensions = 8

// DataType is the storage type of a variable.
type DataType int

// These are the supported data types.
const (
	Int8 DataType = iota
	Int16
	Int32
	Float32
	Float64
	String
)

var dataTypeNames = [...]string{"int8", "int16", "int32", "float", "double", "string"}

func (t DataType) String() string {
	if t < 0 || int(t) >= len(dataTypeNames) {
		return fmt.Sprintf("DataType(%d)", int(t))
	}
	return dataTypeNames[t]
}

// Variable is a named, typed multi-dimensional array.
type Variable struct {
	Name        string
	Description string

	// Unit is the unit of the values. Variables without a unit have an
	// empty Unit.
	Unit string

	DataType   DataType
	Dimensions []DimensionType
	Shape      []int

	// EnumNames holds the names of the values of enumeration variables.
	EnumNames []string

	// Data holds the values of numeric variables in row-major order.
	// Integer values are stored exactly. Data.Shape equals Shape.
	Data *sparse.DenseArray

	// Strings holds the values of String variables in row-major order.
	Strings []string
}

// NewVariable returns a zero-filled variable.
func NewVariable(name string, dataType DataType, dims []DimensionType, shape []int) (*Variable, error) {
	const op = "satbin.NewVariable"
	if len(dims) != len(shape) {
		return nil, errs.New(errs.InvalidArgument, op, "variable '%s' has %d dimension types but %d dimension lengths", name, len(dims), len(shape))
	}
	if len(dims) > MaxDimensions {
		return nil, errs.New(errs.InvalidArgument, op, "number of dimensions (%d) for variable '%s' exceeds the maximum (%d)", len(dims), name, MaxDimensions)
	}
	if dataType < Int8 || dataType > String {
		return nil, errs.New(errs.InvalidArgument, op, "invalid data type (%d) for variable '%s'", int(dataType), name)
	}
	n := 1
	for i, l := range shape {
		if l < 0 {
			return nil, errs.New(errs.InvalidArgument, op, "dimension %d of variable '%s' has negative length (%d)", i, name, l)
		}
		n *= l
	}
	v := &Variable{
		Name:       name,
		DataType:   dataType,
		Dimensions: append([]DimensionType(nil), dims...),
		Shape:      append([]int(nil), shape...),
	}
	if dataType == String {
		v.Strings = make([]string, n)
	} else {
		v.Data = sparse.ZerosDense(append([]int(nil), shape...)...)
	}
	return v, nil
}

// NewFloat64Variable returns a Float64 variable holding values.
func NewFloat64Variable(name, unit string, dims []DimensionType, shape []int, values []float64) (*Variable, error) {
	v, err := NewVariable(name, Float64, dims, shape)
	if err != nil {
		return nil, err
	}
	if len(values) != len(v.Data.Elements) {
		return nil, errs.New(errs.InvalidArgument, "satbin.NewFloat64Variable", "variable '%s' needs %d values, not %d", name, len(v.Data.Elements), len(values))
	}
	copy(v.Data.Elements, values)
	v.Unit = unit
	return v, nil
}

// NumElements returns the number of values in v.
func (v *Variable) NumElements() int {
	n := 1
	for _, l := range v.Shape {
		n *= l
	}
	return n
}

// Copy returns a deep copy of v.
func (v *Variable) Copy() *Variable {
	c := *v
	c.Dimensions = append([]DimensionType(nil), v.Dimensions...)
	c.Shape = append([]int(nil), v.Shape...)
	c.EnumNames = append([]string(nil), v.EnumNames...)
	if v.Data != nil {
		c.Data = sparse.ZerosDense(append([]int(nil), v.Shape...)...)
		copy(c.Data.Elements, v.Data.Elements)
	}
	if v.Strings != nil {
		c.Strings = append([]string(nil), v.Strings...)
	}
	return &c
}

// hasDimension reports whether any dimension of v has type t.
func (v *Variable) hasDimension(t DimensionType) bool {
	for _, d := range v.Dimensions {
		if d == t {
			return true
		}
	}
	return false
}

// sameDimensions reports whether v and w have the same dimension types and
// lengths.
func (v *Variable) sameDimensions(w *Variable) bool {
	if len(v.Dimensions) != len(w.Dimensions) {
		return false
	}
	for i := range v.Dimensions {
		if v.Dimensions[i] != w.Dimensions[i] || v.Shape[i] != w.Shape[i] {
			return false
		}
	}
	return true
}

// ConvertDataType changes the storage type of v. Conversion to an integer
// type truncates towards zero and conversion to Float32 rounds to single
// precision. String variables cannot be converted to or from.
func (v *Variable) ConvertDataType(t DataType) error {
	if t == v.DataType {
		return nil
	}
	if t == String || v.DataType == String {
		return errs.New(errs.InvalidArgument, "satbin.Variable.ConvertDataType", "cannot convert variable '%s' from %v to %v", v.Name, v.DataType, t)
	}
	v.DataType = t
	v.round()
	return nil
}

// round brings the values of v to the precision of its data type.
func (v *Variable) round() {
	if v.Data == nil {
		return
	}
	e := v.Data.Elements
	switch v.DataType {
	case Float32:
		for i, x := range e {
			e[i] = float64(float32(x))
		}
	case Int8, Int16, Int32:
		var lo, hi float64
		switch v.DataType {
		case Int8:
			lo, hi = math.MinInt8, math.MaxInt8
		case Int16:
			lo, hi = math.MinInt16, math.MaxInt16
		default:
			lo, hi = math.MinInt32, math.MaxInt32
		}
		for i, x := range e {
			switch {
			case math.IsNaN(x):
				e[i] = 0
			case x < lo:
				e[i] = lo
			case x > hi:
				e[i] = hi
			default:
				e[i] = math.Trunc(x)
			}
		}
	}
}

// blocks returns the number of elements before and after dimension dim,
// in row-major order.
func (v *Variable) blocks(dim int) (outer, inner int) {
	outer, inner = 1, 1
	for i, l := range v.Shape {
		switch {
		case i < dim:
			outer *= l
		case i > dim:
			inner *= l
		}
	}
	return outer, inner
}

// reshape moves the values of v to a new shape, taking for each output
// element the input element at src(outer, k, inner), where k runs over
// the new length of dimension dim.
func (v *Variable) reshape(dim, length int, src func(k int) int) {
	outer, inner := v.blocks(dim)
	oldLength := v.Shape[dim]
	shape := append([]int(nil), v.Shape...)
	shape[dim] = length
	n := outer * length * inner
	if v.DataType == String {
		s := make([]string, n)
		for o := 0; o < outer; o++ {
			for k := 0; k < length; k++ {
				copy(s[(o*length+k)*inner:(o*length+k+1)*inner], v.Strings[(o*oldLength+src(k))*inner:])
			}
		}
		v.Strings = s
	} else {
		d := sparse.ZerosDense(append([]int(nil), shape...)...)
		for o := 0; o < outer; o++ {
			for k := 0; k < length; k++ {
				copy(d.Elements[(o*length+k)*inner:(o*length+k+1)*inner], v.Data.Elements[(o*oldLength+src(k))*inner:])
			}
		}
		v.Data = d
	}
	v.Shape = shape
}

// RearrangeDimension replaces dimension dim of v by len(index) entries,
// where entry k is a copy of entry index[k] of the original dimension.
func (v *Variable) RearrangeDimension(dim int, index []int) error {
	const op = "satbin.Variable.RearrangeDimension"
	if dim < 0 || dim >= len(v.Shape) {
		return errs.New(errs.InvalidArgument, op, "dimension index (%d) out of range for variable '%s'", dim, v.Name)
	}
	for i, k := range index {
		if k < 0 || k >= v.Shape[dim] {
			return errs.New(errs.InvalidArgument, op, "index[%d] (%d) should be in the range [0..%d)", i, k, v.Shape[dim])
		}
	}
	v.reshape(dim, len(index), func(k int) int { return index[k] })
	return nil
}

// AddDimension inserts a dimension of the given type and length at
// position dim. The values of v are repeated along the new dimension.
func (v *Variable) AddDimension(dim int, t DimensionType, length int) error {
	const op = "satbin.Variable.AddDimension"
	if dim < 0 || dim > len(v.Shape) {
		return errs.New(errs.InvalidArgument, op, "dimension index (%d) out of range for variable '%s'", dim, v.Name)
	}
	if len(v.Shape) >= MaxDimensions {
		return errs.New(errs.InvalidArgument, op, "variable '%s' already has the maximum number of dimensions (%d)", v.Name, MaxDimensions)
	}
	if length < 1 {
		return errs.New(errs.InvalidArgument, op, "invalid dimension length (%d)", length)
	}
	v.Dimensions = append(v.Dimensions[:dim:dim], append([]DimensionType{t}, v.Dimensions[dim:]...)...)
	v.Shape = append(v.Shape[:dim:dim], append([]int{1}, v.Shape[dim:]...)...)
	v.reshape(dim, length, func(int) int { return 0 })
	return nil
}

// RemoveDimension removes dimension dim from v, keeping the values at
// position keep along that dimension.
func (v *Variable) RemoveDimension(dim, keep int) error {
	const op = "satbin.Variable.RemoveDimension"
	if dim < 0 || dim >= len(v.Shape) {
		return errs.New(errs.InvalidArgument, op, "dimension index (%d) out of range for variable '%s'", dim, v.Name)
	}
	if keep < 0 || keep >= v.Shape[dim] {
		return errs.New(errs.InvalidArgument, op, "index (%d) should be in the range [0..%d)", keep, v.Shape[dim])
	}
	v.reshape(dim, 1, func(int) int { return keep })
	v.Dimensions = append(v.Dimensions[:dim:dim], v.Dimensions[dim+1:]...)
	v.Shape = append(v.Shape[:dim:dim], v.Shape[dim+1:]...)
	if v.Data != nil {
		v.Data.Shape = append([]int(nil), v.Shape...)
		v.Data.Fix()
	}
	return nil
}

// Product is a set of variables with shared dimensions.
type Product struct {
	// Dimension holds the length of each dimension type in use.
	// Independent dimensions are not tracked.
	Dimension map[DimensionType]int

	Variables []*Variable

	SourceProduct string
	History       string
}

// NewProduct returns an empty product.
func NewProduct() *Product {
	return &Product{Dimension: make(map[DimensionType]int)}
}

// VariableIndex returns the position of the variable with the given name,
// or -1 if there is none.
func (p *Product) VariableIndex(name string) int {
	for i, v := range p.Variables {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// HasVariable reports whether p has a variable with the given name.
func (p *Product) HasVariable(name string) bool { return p.VariableIndex(name) >= 0 }

// Variable returns the variable with the given name.
func (p *Product) Variable(name string) (*Variable, error) {
	i := p.VariableIndex(name)
	if i < 0 {
		return nil, errs.New(errs.InvalidVariable, "satbin.Product.Variable", "variable '%s' does not exist", name)
	}
	return p.Variables[i], nil
}

// checkDimensions returns an error if a dimension of v conflicts with the
// dimension lengths of p.
func (p *Product) checkDimensions(op string, v *Variable) error {
	if len(v.Dimensions) != len(v.Shape) {
		return errs.New(errs.InvalidVariable, op, "variable '%s' has %d dimension types but %d dimension lengths", v.Name, len(v.Dimensions), len(v.Shape))
	}
	for i, t := range v.Dimensions {
		if t == Independent {
			continue
		}
		if l, ok := p.Dimension[t]; ok && l > 0 && l != v.Shape[i] {
			return errs.New(errs.InvalidArgument, op, "dimension %d (%v) of variable '%s' has length %d; expected %d", i, t, v.Name, v.Shape[i], l)
		}
	}
	return nil
}

func (p *Product) setDimensions(v *Variable) {
	if p.Dimension == nil {
		p.Dimension = make(map[DimensionType]int)
	}
	for i, t := range v.Dimensions {
		if t != Independent {
			p.Dimension[t] = v.Shape[i]
		}
	}
}

// AddVariable appends v to p. The name of v must be new and its
// dimension lengths must agree with those already in p.
func (p *Product) AddVariable(v *Variable) error {
	const op = "satbin.Product.AddVariable"
	if p.HasVariable(v.Name) {
		return errs.New(errs.InvalidArgument, op, "variable '%s' already exists", v.Name)
	}
	if err := p.checkDimensions(op, v); err != nil {
		return err
	}
	p.setDimensions(v)
	p.Variables = append(p.Variables, v)
	return nil
}

// ReplaceVariable replaces the variable with the same name as v.
func (p *Product) ReplaceVariable(v *Variable) error {
	const op = "satbin.Product.ReplaceVariable"
	i := p.VariableIndex(v.Name)
	if i < 0 {
		return errs.New(errs.InvalidVariable, op, "variable '%s' does not exist", v.Name)
	}
	if err := p.checkDimensions(op, v); err != nil {
		return err
	}
	p.setDimensions(v)
	p.Variables[i] = v
	return nil
}

// RemoveVariable removes the variable with the given name.
func (p *Product) RemoveVariable(name string) error {
	i := p.VariableIndex(name)
	if i < 0 {
		return errs.New(errs.InvalidVariable, "satbin.Product.RemoveVariable", "variable '%s' does not exist", name)
	}
	p.removeIndex(i)
	return nil
}

func (p *Product) removeIndex(i int) {
	copy(p.Variables[i:], p.Variables[i+1:])
	p.Variables[len(p.Variables)-1] = nil
	p.Variables = p.Variables[:len(p.Variables)-1]
}
