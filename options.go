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

import "github.com/sirupsen/logrus"

// Options configures the binning functions. The zero value is ready to
// use and is what the package-level functions use.
type Options struct {
	// Log receives debug records about policy decisions and the number
	// of matched samples. If nil, logrus.StandardLogger() is used.
	Log logrus.FieldLogger

	// PropagateUncertaintyCorrelated selects how total uncertainty
	// variables (names containing "_uncertainty" but neither
	// "_uncertainty_random" nor "_uncertainty_systematic") are combined
	// by Bin: averaged as fully correlated errors if true, combined in
	// quadrature as independent errors if false.
	PropagateUncertaintyCorrelated bool
}

var defaultOptions Options

func (o *Options) log() logrus.FieldLogger {
	if o == nil || o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}
