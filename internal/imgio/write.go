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
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/mlnoga/rankfilt/internal/rank"
)

// Converts a rank image into the matching Golang image type: Gray for 256 bins,
// Gray16 for 65536
func ToGoImage(img *rank.Image) image.Image {
	width, height:=int(img.Width), int(img.Height())
	if img.MaxBin==rank.MaxBin8 {
		out:=image.NewGray(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
		for y:=0; y<height; y++ {
			yoffset:=y*width
			for x:=0; x<width; x++ {
				out.SetGray(x, y, color.Gray{uint8(img.Data[yoffset+x])})
			}
		}
		return out
	}
	out:=image.NewGray16(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y:=0; y<height; y++ {
		yoffset:=y*width
		for x:=0; x<width; x++ {
			out.SetGray16(x, y, color.Gray16{img.Data[yoffset+x]})
		}
	}
	return out
}

// Writes a rank image to the named file, choosing the format from the extension:
// .png, or .tif/.tiff for uncompressed TIFF. Bit depth follows the image
func WriteToFile(img *rank.Image, fileName string) error {
	file, err:=os.Create(fileName)
	if err!=nil { return err }
	defer file.Close()

	writer:=bufio.NewWriter(file)
	defer writer.Flush()

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return WritePNG(img, writer)
	case ".tif", ".tiff":
		return WriteTIFF(img, writer)
	}
	return fmt.Errorf("unknown image file suffix %s", filepath.Ext(fileName))
}

// Writes a rank image as PNG, 8 or 16-bit grayscale following the image bit depth
func WritePNG(img *rank.Image, writer io.Writer) error {
	return png.Encode(writer, ToGoImage(img))
}

// Writes a rank image as uncompressed grayscale TIFF, 8 or 16-bit following the
// image bit depth
func WriteTIFF(img *rank.Image, writer io.Writer) error {
	return tiff.Encode(writer, ToGoImage(img), &tiff.Options{Compression: tiff.Uncompressed, Predictor: false})
}
