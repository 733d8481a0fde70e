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


package imgio

import (
	"bufio"
	"fmt"
	"image"
	_ "image/png"      // register PNG decoding
	"io"
	"os"

	_ "golang.org/x/image/tiff" // register TIFF decoding

	"github.com/mlnoga/rankfilt/internal/rank"
)

// Reads a grayscale image from the named PNG or TIFF file. 8-bit sources yield
// a 256-bin image, 16-bit sources a 65536-bin image
func LoadFromFile(fileName string) (*rank.Image, error) {
	file, err:=os.Open(fileName)
	if err!=nil { return nil, err }
	defer file.Close()
	return Load(bufio.NewReader(file))
}

// Reads a grayscale image from the given reader. The source must decode to a
// single-channel 8 or 16-bit image; color images are rejected rather than
// silently converted
func Load(r io.Reader) (*rank.Image, error) {
	src, _, err:=image.Decode(r)
	if err!=nil { return nil, err }

	switch t:=src.(type) {
	case *image.Gray:
		bounds:=t.Bounds()
		width, height:=int32(bounds.Dx()), int32(bounds.Dy())
		data:=make([]uint16, width*height)
		for y:=0; y<int(height); y++ {
			for x:=0; x<int(width); x++ {
				data[y*int(width)+x]=uint16(t.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return rank.NewImage(data, width, height, rank.MaxBin8)

	case *image.Gray16:
		bounds:=t.Bounds()
		width, height:=int32(bounds.Dx()), int32(bounds.Dy())
		data:=make([]uint16, width*height)
		for y:=0; y<int(height); y++ {
			for x:=0; x<int(width); x++ {
				data[y*int(width)+x]=t.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
			}
		}
		return rank.NewImage(data, width, height, rank.MaxBin16)

	default:
		return nil, fmt.Errorf("%T source: %w", src, rank.ErrUnsupportedBitDepth)
	}
}

// Reads a region of interest mask from the named file. Any decodable image
// works; a pixel is active where its luminance is nonzero. Dimensions must be
// validated against the filter input by the caller
func LoadMaskFromFile(fileName string) ([]bool, error) {
	file, err:=os.Open(fileName)
	if err!=nil { return nil, err }
	defer file.Close()

	src, _, err:=image.Decode(bufio.NewReader(file))
	if err!=nil { return nil, err }

	bounds:=src.Bounds()
	width, height:=bounds.Dx(), bounds.Dy()
	mask:=make([]bool, width*height)
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			r, g, b, _:=src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mask[y*width+x]=r|g|b!=0
		}
	}
	return mask, nil
}
