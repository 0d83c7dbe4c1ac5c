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

package grid

import "math"

// Wrap maps x into the range [min, max).
func Wrap(x, min, max float64) float64 {
	r := max - min
	y := x - r*math.Floor((x-min)/r)
	if y >= max {
		// rounding of tiny negative offsets
		return min
	}
	return y
}
