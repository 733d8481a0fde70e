// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package rank

import (
	"errors"
)

// All validation errors are raised before the first pixel is touched.
// Once the sliding pass has started, a filter call cannot fail.
var (
	ErrInvalidShift        = errors.New("shifted center outside footprint")
	ErrEmptyFootprint      = errors.New("footprint contains no active cells")
	ErrShapeMismatch       = errors.New("array dimensions do not match")
	ErrUnsupportedBitDepth = errors.New("bit depth not supported, must be 8 or 16")
)
