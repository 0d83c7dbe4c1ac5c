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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/satbin"
	"github.com/spatialmodel/satbin/grid"
	"github.com/spatialmodel/satbin/internal/hash"
)

// BinTime reads the product in inputFile, bins it in time and writes the
// result to outputFile. Time bins are given by the expression binExpr if
// it is not empty, by the variables binVars otherwise, and if both are
// empty all samples are combined into one bin.
func BinTime(inputFile, outputFile, binExpr string, binVars []string, o *satbin.Options) error {
	p, err := readProduct(inputFile)
	if err != nil {
		return err
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"file":    inputFile,
		"samples": p.Dimension[satbin.Time],
	}).Info("binning in time")

	switch {
	case binExpr != "":
		var (
			binIndex []int
			numBins  int
		)
		if binIndex, numBins, err = satbin.BinIndexFromExpression(p, binExpr); err != nil {
			return err
		}
		err = o.Bin(p, numBins, binIndex)
	case len(binVars) > 0:
		err = o.BinWithVariable(p, binVars...)
	default:
		err = o.BinFull(p)
	}
	if err != nil {
		return err
	}
	return writeProduct(outputFile, p, "bin time")
}

// BinSpatial reads the product in inputFile, bins it onto grid g and
// writes the result to outputFile. Separate time bins are kept if binExpr
// or binVars is set, as in BinTime. A fingerprint of g is added to the
// history of the output.
func BinSpatial(inputFile, outputFile string, g *grid.Spec, binExpr string, binVars []string, o *satbin.Options) error {
	p, err := readProduct(inputFile)
	if err != nil {
		return err
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"file":    inputFile,
		"samples": p.Dimension[satbin.Time],
		"cells":   g.NumCells(),
	}).Info("binning onto grid")

	var (
		binIndex []int
		numBins  int
	)
	switch {
	case binExpr != "":
		binIndex, numBins, err = satbin.BinIndexFromExpression(p, binExpr)
	case len(binVars) > 0:
		binIndex, numBins, err = satbin.BinIndexFromVariables(p, binVars...)
	default:
		err = o.BinSpatialFull(p, g.LatitudeEdges, g.LongitudeEdges)
		if err != nil {
			return err
		}
		return writeProduct(outputFile, p, "bin spatial grid="+hash.Hash(g))
	}
	if err != nil {
		return err
	}
	if err := o.BinSpatial(p, numBins, binIndex, g.LatitudeEdges, g.LongitudeEdges); err != nil {
		return err
	}
	return writeProduct(outputFile, p, "bin spatial grid="+hash.Hash(g))
}

func readProduct(filename string) (*satbin.Product, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("satbin: opening input file: %v", err)
	}
	defer f.Close()
	return satbin.ReadNetCDF(f)
}

// writeProduct writes p to filename, adding step to the history of p.
func writeProduct(filename string, p *satbin.Product, step string) error {
	if p.History == "" {
		p.History = "satbin " + step
	} else {
		p.History += "\nsatbin " + step
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("satbin: creating output file: %v", err)
	}
	if err := satbin.WriteNetCDF(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
