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

package sphere

import "math"

// Epsilon is the tolerance used for all floating point comparisons in this
// package.
const Epsilon = 1e-10

// EarthRadius is the radius of the spherical earth in meters.
const EarthRadius = 6371.0e3

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

func fpZero(a float64) bool { return math.Abs(a) <= Epsilon }
func fpEq(a, b float64) bool { return math.Abs(a-b) <= Epsilon }
func fpNe(a, b float64) bool { return math.Abs(a-b) > Epsilon }
func fpLt(a, b float64) bool { return b-a > Epsilon }
func fpLe(a, b float64) bool { return a-b <= Epsilon }
func fpGt(a, b float64) bool { return a-b > Epsilon }
func fpGe(a, b float64) bool { return b-a <= Epsilon }
