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
	"fmt"
)

// Supported histogram sizes, from the image bit depth
const (
	MaxBin8  int32 = 1 << 8
	MaxBin16 int32 = 1 << 16
)

// A single-channel integer image. Pixels are stored row-major as 16-bit values,
// 8-bit sources occupy the range [0,255]. MaxBin is the number of distinct
// intensity levels, and sizes every histogram operating on this image.
type Image struct {
	Data   []uint16   // Pixel data, row-major. Index is y*Width+x
	Width  int32      // Line width in pixels
	MaxBin int32      // Histogram size, 256 for 8-bit sources and 65536 for 16-bit
}

// Creates an image of the given dimensions and bit depth. Data is allocated if nil,
// else it must have width*height entries
func NewImage(data []uint16, width, height, maxBin int32) (*Image, error) {
	if maxBin!=MaxBin8 && maxBin!=MaxBin16 {
		return nil, fmt.Errorf("%d histogram bins: %w", maxBin, ErrUnsupportedBitDepth)
	}
	if data==nil {
		data=make([]uint16, width*height)
	} else if int32(len(data))!=width*height {
		return nil, fmt.Errorf("%d pixels for %dx%d image: %w", len(data), width, height, ErrShapeMismatch)
	}
	return &Image{Data: data, Width: width, MaxBin: maxBin}, nil
}

// Returns the image height in pixels
func (img *Image) Height() int32 {
	if img.Width==0 { return 0 }
	return int32(len(img.Data))/img.Width
}

// Creates an image of the same dimensions and bit depth, with zeroed data
func (img *Image) NewOfSameShape() *Image {
	return &Image{
		Data:   make([]uint16, len(img.Data)),
		Width:  img.Width,
		MaxBin: img.MaxBin,
	}
}

// Validates that the optional mask and output image agree with the input dimensions
// and bit depth. A nil mask or output is acceptable and stands for "all pixels active"
// and "allocate fresh", respectively
func (img *Image) validateShapes(out *Image, mask []bool) error {
	if img.MaxBin!=MaxBin8 && img.MaxBin!=MaxBin16 {
		return fmt.Errorf("%d histogram bins: %w", img.MaxBin, ErrUnsupportedBitDepth)
	}
	if mask!=nil && len(mask)!=len(img.Data) {
		return fmt.Errorf("mask has %d entries for %d pixels: %w", len(mask), len(img.Data), ErrShapeMismatch)
	}
	if out!=nil {
		if len(out.Data)!=len(img.Data) || out.Width!=img.Width {
			return fmt.Errorf("output is %dx%d for %dx%d input: %w",
				out.Width, out.Height(), img.Width, img.Height(), ErrShapeMismatch)
		}
		if out.MaxBin!=img.MaxBin {
			return fmt.Errorf("output has %d bins for input with %d: %w", out.MaxBin, img.MaxBin, ErrShapeMismatch)
		}
	}
	return nil
}
