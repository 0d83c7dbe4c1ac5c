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
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/satbin/errs"
)

// Conventions is written as the Conventions attribute of netCDF files.
const Conventions = "HARP-1.0"

// dimensionName returns the netCDF name of a dimension of type t.
func dimensionName(t DimensionType, length int) string {
	if t == Independent {
		return fmt.Sprintf("independent_%d", length)
	}
	return t.String()
}

func dimensionType(name string) DimensionType {
	for t, n := range dimensionNames {
		if n == name && DimensionType(t) != Independent {
			return DimensionType(t)
		}
	}
	return Independent
}

// maxStringLength returns the length of the longest value of v, and at
// least 1.
func maxStringLength(v *Variable) int {
	n := 1
	for _, s := range v.Strings {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

// header builds the netCDF header for p.
func header(p *Product) (*cdf.Header, map[string][]string, error) {
	lengths := make(map[string]int)
	varDims := make(map[string][]string)
	for _, v := range p.Variables {
		var dims []string
		for i, t := range v.Dimensions {
			if v.Shape[i] == 0 {
				return nil, nil, fmt.Errorf("variable '%s' has an empty %v dimension", v.Name, t)
			}
			name := dimensionName(t, v.Shape[i])
			if l, ok := lengths[name]; ok && l != v.Shape[i] {
				return nil, nil, fmt.Errorf("dimension %s of variable '%s' has length %d; expected %d", name, v.Name, v.Shape[i], l)
			}
			lengths[name] = v.Shape[i]
			dims = append(dims, name)
		}
		if v.DataType == String {
			n := maxStringLength(v)
			name := fmt.Sprintf("string_%d", n)
			lengths[name] = n
			dims = append(dims, name)
		}
		varDims[v.Name] = dims
	}
	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(lengths))
	for n := range lengths {
		names = append(names, n)
	}
	sort.Strings(names)
	l := make([]int, len(names))
	for i, n := range names {
		l[i] = lengths[n]
	}

	h := cdf.NewHeader(names, l)
	h.AddAttribute("", "Conventions", Conventions)
	if p.SourceProduct != "" {
		h.AddAttribute("", "source_product", p.SourceProduct)
	}
	if p.History != "" {
		h.AddAttribute("", "history", p.History)
	}
	for _, v := range p.Variables {
		h.AddVariable(v.Name, varDims[v.Name], zeroValue(v.DataType))
		if v.Description != "" {
			h.AddAttribute(v.Name, "description", v.Description)
		}
		if v.Unit != "" {
			h.AddAttribute(v.Name, "units", v.Unit)
		}
		if len(v.EnumNames) > 0 && v.DataType != String {
			flags := make([]float64, len(v.EnumNames))
			for i := range flags {
				flags[i] = float64(i)
			}
			h.AddAttribute(v.Name, "flag_values", typedValues(v.DataType, flags))
			h.AddAttribute(v.Name, "flag_meanings", strings.Join(v.EnumNames, " "))
		}
	}
	h.Define()
	return h, varDims, nil
}

func zeroValue(t DataType) interface{} {
	if t == String {
		return ""
	}
	return typedValues(t, []float64{0})
}

// typedValues converts values to a slice of the netCDF type for t.
func typedValues(t DataType, values []float64) interface{} {
	switch t {
	case Int8:
		out := make([]uint8, len(values))
		for i, x := range values {
			out[i] = uint8(int8(x))
		}
		return out
	case Int16:
		out := make([]int16, len(values))
		for i, x := range values {
			out[i] = int16(x)
		}
		return out
	case Int32:
		out := make([]int32, len(values))
		for i, x := range values {
			out[i] = int32(x)
		}
		return out
	case Float32:
		out := make([]float32, len(values))
		for i, x := range values {
			out[i] = float32(x)
		}
		return out
	default:
		return append([]float64(nil), values...)
	}
}

// WriteNetCDF writes p to w as a netCDF file.
func WriteNetCDF(w *os.File, p *Product) error {
	h, varDims, err := header(p)
	if err != nil {
		return errs.Wrap(errs.InvalidVariable, "satbin.WriteNetCDF", err)
	}
	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("satbin: writing netcdf header: %w", err)
	}
	for _, v := range p.Variables {
		var (
			data  interface{}
			count int
		)
		if v.DataType == String {
			n := h.Lengths(v.Name)[len(varDims[v.Name])-1]
			b := make([]byte, len(v.Strings)*n)
			for i, s := range v.Strings {
				copy(b[i*n:(i+1)*n], s)
			}
			data, count = b, len(b)
		} else {
			data, count = typedValues(v.DataType, v.Data.Elements), len(v.Data.Elements)
		}
		// Fixed-size variables span exactly their data; the writer reports
		// io.EOF once the last element is written.
		n, err := f.Writer(v.Name, nil, nil).Write(data)
		if err == io.EOF && n == count {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("satbin: writing variable %s to netcdf file: %w", v.Name, err)
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("satbin: writing netcdf file: %w", err)
	}
	return nil
}

// ReadNetCDF reads a product from a netCDF file. Dimensions named time,
// latitude, longitude, vertical and spectral get their matching type and
// all others are independent. CHAR variables are read as String
// variables, with the last dimension holding the characters.
func ReadNetCDF(rw cdf.ReaderWriterAt) (*Product, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("satbin: reading netcdf file: %w", err)
	}
	p := NewProduct()
	if s, ok := f.Header.GetAttribute("", "source_product").(string); ok {
		p.SourceProduct = s
	}
	if s, ok := f.Header.GetAttribute("", "history").(string); ok {
		p.History = s
	}
	for _, name := range f.Header.Variables() {
		v, err := readVariable(f, name)
		if err != nil {
			return nil, err
		}
		if err := p.AddVariable(v); err != nil {
			return nil, errs.Wrap(errs.InvalidVariable, "satbin.ReadNetCDF", err)
		}
	}
	return p, nil
}

func readVariable(f *cdf.File, name string) (*Variable, error) {
	const op = "satbin.ReadNetCDF"
	dimNames := f.Header.Dimensions(name)
	shape := append([]int(nil), f.Header.Lengths(name)...)
	n := 1
	for _, l := range shape {
		n *= l
	}
	if f.Header.IsRecordVariable(name) {
		return nil, errs.New(errs.InvalidVariable, op, "variable '%s' uses a record dimension", name)
	}

	var t DataType
	switch f.Header.ZeroValue(name, 0).(type) {
	case []uint8:
		t = Int8
	case string:
		t = String
	case []int16:
		t = Int16
	case []int32:
		t = Int32
	case []float32:
		t = Float32
	case []float64:
		t = Float64
	default:
		return nil, errs.New(errs.InvalidVariable, op, "variable '%s' has an unsupported type", name)
	}
	if t == String && len(shape) == 0 {
		return nil, errs.New(errs.InvalidVariable, op, "string variable '%s' has no character dimension", name)
	}

	dimCount := len(shape)
	if t == String {
		dimCount--
	}
	dims := make([]DimensionType, dimCount)
	for i := range dims {
		dims[i] = dimensionType(dimNames[i])
	}
	v, err := NewVariable(name, t, dims, shape[:dimCount])
	if err != nil {
		return nil, errs.Wrap(errs.InvalidVariable, op, err)
	}

	r := f.Reader(name, nil, nil)
	var buf interface{}
	if t == String {
		buf = make([]byte, n)
	} else {
		buf = f.Header.ZeroValue(name, n)
	}
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("satbin: reading netcdf variable %s: %w", name, err)
	}
	switch b := buf.(type) {
	case []byte:
		if t == String {
			width := shape[len(shape)-1]
			for i := range v.Strings {
				v.Strings[i] = strings.TrimRight(string(b[i*width:(i+1)*width]), "\x00")
			}
		} else {
			for i, x := range b {
				v.Data.Elements[i] = float64(int8(x))
			}
		}
	case []int16:
		for i, x := range b {
			v.Data.Elements[i] = float64(x)
		}
	case []int32:
		for i, x := range b {
			v.Data.Elements[i] = float64(x)
		}
	case []float32:
		for i, x := range b {
			v.Data.Elements[i] = float64(x)
		}
	case []float64:
		copy(v.Data.Elements, b)
	}

	if s, ok := f.Header.GetAttribute(name, "units").(string); ok {
		v.Unit = s
	}
	if s, ok := f.Header.GetAttribute(name, "description").(string); ok {
		v.Description = s
	}
	if s, ok := f.Header.GetAttribute(name, "flag_meanings").(string); ok && s != "" {
		v.EnumNames = strings.Fields(s)
	}
	return v, nil
}
