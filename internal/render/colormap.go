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


package render

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mlnoga/rankfilt/internal/rank"
)

// Endpoints of the false color gradient, blended in HCL space for perceptually
// even steps. Dark blue for empty neighborhoods through to yellow for full ones
var gradientLow  =colorful.Hcl(265, 0.50, 0.15)
var gradientHigh =colorful.Hcl( 95, 0.75, 0.95)

// Renders a single-channel result as a false color RGBA image for preview
// purposes. Values are scaled by the largest value present, so population maps
// with small counts still use the full gradient. A uniform image renders as the
// low gradient endpoint
func FalseColor(img *rank.Image) *image.RGBA {
	width, height:=int(img.Width), int(img.Height())

	max:=uint16(0)
	for _, d:=range img.Data {
		if d>max { max=d }
	}
	scale:=float64(0)
	if max>0 { scale=1.0/float64(max) }

	out:=image.NewRGBA(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y:=0; y<height; y++ {
		yoffset:=y*width
		for x:=0; x<width; x++ {
			t:=float64(img.Data[yoffset+x])*scale
			c:=gradientLow.BlendHcl(gradientHigh, t).Clamped()
			r, g, b:=c.RGB255()
			out.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return out
}
