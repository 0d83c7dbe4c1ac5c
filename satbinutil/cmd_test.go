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

package satbinutil

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/satbin"
	"github.com/spatialmodel/satbin/internal/hash"
)

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// writeTestProduct writes a product with four samples to a netCDF file
// in dir and returns the file name.
func writeTestProduct(t *testing.T, dir string) string {
	t.Helper()
	p := satbin.NewProduct()
	p.SourceProduct = "test_product.nc"
	shape := []int{4}
	dims := []satbin.DimensionType{satbin.Time}
	for _, v := range []struct {
		name, unit string
		values     []float64
	}{
		{name: "datetime", unit: "s", values: []float64{0, 3600, 90000, 100000}},
		{name: "latitude", unit: satbin.UnitLatitude, values: []float64{-0.5, -0.5, 0.5, 0.5}},
		{name: "longitude", unit: satbin.UnitLongitude, values: []float64{-0.5, -0.5, 0.5, 0.5}},
		{name: "orbit", values: []float64{1, 2, 1, 2}},
		{name: "value", unit: "mol/m2", values: []float64{1, 3, 5, 7}},
	} {
		x, err := satbin.NewFloat64Variable(v.name, v.unit, dims, shape, v.values)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.AddVariable(x); err != nil {
			t.Fatal(err)
		}
	}
	name := filepath.Join(dir, "product.nc")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := satbin.WriteNetCDF(f, p); err != nil {
		t.Fatal(err)
	}
	return name
}

func readTestProduct(t *testing.T, name string) *satbin.Product {
	t.Helper()
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p, err := satbin.ReadNetCDF(f)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func values(t *testing.T, p *satbin.Product, name string) []float64 {
	t.Helper()
	v, err := p.Variable(name)
	if err != nil {
		t.Fatal(err)
	}
	return v.Data.Elements
}

func TestVersion(t *testing.T) {
	Cfg.Set("config", "")
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "SatBin v" + satbin.Version + "\n"; b.String() != want {
		t.Errorf("got %q, want %q", b.String(), want)
	}
}

func TestBinTimeCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeTestProduct(t, dir)
	tests := []struct {
		name, expr string
		vars       []string
		value      []float64
		count      []float64
	}{
		{name: "expression", expr: "floor(datetime / 86400)", value: []float64{2, 6}, count: []float64{2, 2}},
		{name: "variables", vars: []string{"orbit"}, value: []float64{3, 5}, count: []float64{2, 2}},
		{name: "full", value: []float64{4}, count: []float64{4}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := filepath.Join(dir, test.name+".nc")
			Cfg.Set("config", "")
			Cfg.Set("InputFile", in)
			Cfg.Set("OutputFile", out)
			Cfg.Set("binexpr", test.expr)
			Cfg.Set("binvars", test.vars)
			defer func() {
				Cfg.Set("binexpr", "")
				Cfg.Set("binvars", []string{})
			}()
			if err := Root.PersistentPreRunE(nil, nil); err != nil {
				t.Fatal(err)
			}
			if err := binTimeCmd.RunE(nil, nil); err != nil {
				t.Fatal(err)
			}
			p := readTestProduct(t, out)
			if diff := cmp.Diff(test.value, values(t, p, "value")); diff != "" {
				t.Errorf("value (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.count, values(t, p, "count")); diff != "" {
				t.Errorf("count (-want +got):\n%s", diff)
			}
			if p.SourceProduct != "test_product.nc" || !strings.Contains(p.History, "satbin bin time") {
				t.Errorf("source %q, history %q", p.SourceProduct, p.History)
			}
		})
	}
}

func TestBinSpatialCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeTestProduct(t, dir)
	out := filepath.Join(dir, "spatial.nc")
	Cfg.Set("config", "")
	Cfg.Set("InputFile", in)
	Cfg.Set("OutputFile", out)
	Cfg.Set("binexpr", "")
	Cfg.Set("binvars", []string{})
	Cfg.Set("Grid.File", "")
	Cfg.Set("Grid.LatitudeEdges", []string{"-1", "0", "1"})
	Cfg.Set("Grid.LongitudeEdges", []string{"-1", "0", "1"})
	defer func() {
		Cfg.Set("Grid.LatitudeEdges", []string{})
		Cfg.Set("Grid.LongitudeEdges", []string{})
	}()
	if err := Root.PersistentPreRunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := binSpatialCmd.RunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	p := readTestProduct(t, out)
	if p.Dimension[satbin.Latitude] != 2 || p.Dimension[satbin.Longitude] != 2 {
		t.Errorf("dimensions: %v", p.Dimension)
	}
	nan := math.NaN()
	want := []float64{2, nan, nan, 6}
	if diff := cmp.Diff(want, values(t, p, "value"), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("value (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 0, 0, 2}, values(t, p, "weight")); diff != "" {
		t.Errorf("weight (-want +got):\n%s", diff)
	}
	g, err := GridSpec(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := "satbin bin spatial grid=" + hash.Hash(g); !strings.Contains(p.History, want) {
		t.Errorf("history %q should contain %q", p.History, want)
	}
}

func TestBinMissingInput(t *testing.T) {
	Cfg.Set("InputFile", "")
	Cfg.Set("OutputFile", filepath.Join(t.TempDir(), "out.nc"))
	if err := binTimeCmd.RunE(nil, nil); err == nil {
		t.Error("expected an error for a missing input file")
	}
	Cfg.Set("InputFile", "product.nc")
	Cfg.Set("OutputFile", filepath.Join(t.TempDir(), "missing", "out.nc"))
	if err := binTimeCmd.RunE(nil, nil); err == nil || !strings.Contains(err.Error(), "doesn't exist") {
		t.Errorf("missing output directory: %v", err)
	}
}

func TestGridSpec(t *testing.T) {
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "grid.toml")
	if err := os.WriteFile(gridFile, []byte("LatitudeEdges = [0.0, 10.0]\nLongitudeEdges = [0.0, 5.0, 10.0]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgFile, []byte("[Grid]\nLatitudeEdges = [-10.0, 0.0, 10.0]\nLongitudeEdges = [20.0, 30.0]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	regular := func(v *viper.Viper) {
		v.Set("Grid.LatitudeMin", -90.0)
		v.Set("Grid.LatitudeMax", 90.0)
		v.Set("Grid.LatitudeCells", 2)
		v.Set("Grid.LongitudeMin", -180.0)
		v.Set("Grid.LongitudeMax", 180.0)
		v.Set("Grid.LongitudeCells", 4)
	}
	tests := []struct {
		name     string
		set      func(v *viper.Viper)
		lat, lon []float64
	}{
		{
			name: "regular",
			set:  regular,
			lat:  []float64{-90, 0, 90},
			lon:  []float64{-180, -90, 0, 90, 180},
		},
		{
			name: "flag edges",
			set: func(v *viper.Viper) {
				v.Set("Grid.LatitudeEdges", []string{"1", "2"})
				v.Set("Grid.LongitudeEdges", []string{"3", "4.5"})
			},
			lat: []float64{1, 2},
			lon: []float64{3, 4.5},
		},
		{
			name: "environment edges",
			set: func(v *viper.Viper) {
				v.Set("Grid.LatitudeEdges", "-1 0 1")
				v.Set("Grid.LongitudeEdges", "[2,3]")
			},
			lat: []float64{-1, 0, 1},
			lon: []float64{2, 3},
		},
		{
			name: "grid file",
			set:  func(v *viper.Viper) { v.Set("Grid.File", gridFile) },
			lat:  []float64{0, 10},
			lon:  []float64{0, 5, 10},
		},
		{
			name: "config file",
			set: func(v *viper.Viper) {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					t.Fatal(err)
				}
			},
			lat: []float64{-10, 0, 10},
			lon: []float64{20, 30},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := viper.New()
			test.set(v)
			g, err := GridSpec(v)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.lat, g.LatitudeEdges); diff != "" {
				t.Errorf("latitude edges (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.lon, g.LongitudeEdges); diff != "" {
				t.Errorf("longitude edges (-want +got):\n%s", diff)
			}
		})
	}

	v := viper.New()
	v.Set("Grid.LatitudeEdges", []string{"1", "0"})
	v.Set("Grid.LongitudeEdges", []string{"0", "1"})
	if _, err := GridSpec(v); err == nil || !strings.Contains(err.Error(), "parsing grid configuration") {
		t.Errorf("decreasing edges: %v", err)
	}
	v.Set("Grid.LatitudeEdges", []string{"a", "b"})
	if _, err := GridSpec(v); err == nil || !strings.Contains(err.Error(), "Grid.LatitudeEdges") {
		t.Errorf("non-numeric edges: %v", err)
	}
}

func TestGridCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "grid.geojson")
	Cfg.Set("config", "")
	Cfg.Set("OutputFile", out)
	Cfg.Set("proj", "+proj=longlat")
	Cfg.Set("Grid.File", "")
	Cfg.Set("Grid.LatitudeEdges", []string{"-1", "0", "1"})
	Cfg.Set("Grid.LongitudeEdges", []string{"10", "20"})
	defer func() {
		Cfg.Set("Grid.LatitudeEdges", []string{})
		Cfg.Set("Grid.LongitudeEdges", []string{})
	}()
	if err := gridCmd.RunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Features []struct {
			Properties map[string]float64 `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	p := fc.Features[1].Properties
	if p["latitude"] != 0.5 || p["longitude"] != 15 || p["row"] != 1 {
		t.Errorf("properties: %v", p)
	}

	shp := filepath.Join(dir, "grid.shp")
	Cfg.Set("OutputFile", shp)
	if err := gridCmd.RunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(shp); err != nil {
		t.Error(err)
	}
}

func TestDistanceCmd(t *testing.T) {
	var b bytes.Buffer
	distanceCmd.SetOutput(&b)
	defer distanceCmd.SetOutput(nil)
	if err := distanceCmd.RunE(distanceCmd, []string{"0", "0", "0", "1"}); err != nil {
		t.Fatal(err)
	}
	s := strings.TrimSpace(b.String())
	if !strings.HasSuffix(s, " m") {
		t.Fatalf("missing unit: %q", s)
	}
	d, err := strconv.ParseFloat(strings.TrimSuffix(s, " m"), 64)
	if err != nil {
		t.Fatal(err)
	}
	if different(d, 111319.4908, 1e-3) {
		t.Errorf("got %g m", d)
	}
	if err := distanceCmd.RunE(distanceCmd, []string{"0", "x", "0", "1"}); err == nil {
		t.Error("expected an error for an invalid coordinate")
	}
}
