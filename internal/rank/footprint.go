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

// A structuring element: a boolean spatial mask defining which cells around a
// center pixel belong to its neighborhood. Stored row-major like image data.
type Footprint struct {
	Mask  []bool     // Cell activation flags, row-major. Index is r*Width+c
	Width int32      // Footprint width in cells
}

// A neighbor position relative to the footprint center, in pixels
type Offset struct {
	Dr, Dc int32
}

// Creates a square footprint with side length 2*radius+1, all cells active
func NewSquareFootprint(radius int32) *Footprint {
	side:=2*radius+1
	mask:=make([]bool, side*side)
	for i:=range mask {
		mask[i]=true
	}
	return &Footprint{Mask: mask, Width: side}
}

// Creates a disk footprint of given radius inside a bounding box of side length
// 2*radius+1. A cell is active if its center lies within euclidean distance
// radius of the box center
func NewDiskFootprint(radius int32) *Footprint {
	side:=2*radius+1
	mask:=make([]bool, side*side)
	for r:=int32(0); r<side; r++ {
		for c:=int32(0); c<side; c++ {
			dr, dc:=r-radius, c-radius
			if dr*dr+dc*dc<=radius*radius {
				mask[r*side+c]=true
			}
		}
	}
	return &Footprint{Mask: mask, Width: side}
}

// Creates a footprint from a shape name, one of "square" or "disk"
func NewFootprintByShape(shape string, radius int32) (*Footprint, error) {
	switch shape {
	case "square":
		return NewSquareFootprint(radius), nil
	case "disk":
		return NewDiskFootprint(radius), nil
	}
	return nil, fmt.Errorf("unknown footprint shape %s, expected square or disk", shape)
}

// Returns the footprint height in cells
func (fp *Footprint) Height() int32 {
	if fp.Width==0 { return 0 }
	return int32(len(fp.Mask))/fp.Width
}

// Resolves the footprint into neighbor offsets relative to the shifted center.
// The default center is (height/2, width/2); shiftY is added to its row and
// shiftX to its column. Fails if the shifted center leaves the footprint bounds,
// or if no cell is active. Offsets are emitted in row-major scan order.
// Pure function of its inputs; validation happens before any image pixel is read
func (fp *Footprint) ResolveOffsets(shiftX, shiftY int32) ([]Offset, error) {
	fh, fw:=fp.Height(), fp.Width
	centerR, centerC:=fh/2+shiftY, fw/2+shiftX
	if centerR<0 || centerR>=fh || centerC<0 || centerC>=fw {
		return nil, fmt.Errorf("center (%d,%d) shifted by (%d,%d) in %dx%d footprint: %w",
			fh/2, fw/2, shiftY, shiftX, fh, fw, ErrInvalidShift)
	}
	offsets:=[]Offset{}
	for r:=int32(0); r<fh; r++ {
		for c:=int32(0); c<fw; c++ {
			if fp.Mask[r*fw+c] {
				offsets=append(offsets, Offset{Dr: r-centerR, Dc: c-centerC})
			}
		}
	}
	if len(offsets)==0 {
		return nil, fmt.Errorf("%dx%d footprint: %w", fh, fw, ErrEmptyFootprint)
	}
	return offsets, nil
}

// Neighbor offsets resolved against a shifted center, with the edge subsets
// needed to slide a window east by one pixel: westEdge holds the cells without
// an active western neighbor, eastEdge the cells without an active eastern
// neighbor. For any footprint shape, stepping from column x to x+1 removes
// exactly the westEdge cells evaluated at x, and adds exactly the eastEdge
// cells evaluated at x+1. Cost per step is the edge length, not the area
type resolvedFootprint struct {
	all      []Offset
	westEdge []Offset
	eastEdge []Offset
}

// Resolves the footprint including the east/west edge subsets used by the
// incremental histogram update
func (fp *Footprint) resolve(shiftX, shiftY int32) (*resolvedFootprint, error) {
	all, err:=fp.ResolveOffsets(shiftX, shiftY)
	if err!=nil { return nil, err }

	members:=make(map[Offset]bool, len(all))
	for _, o:=range all {
		members[o]=true
	}
	res:=&resolvedFootprint{all: all}
	for _, o:=range all {
		if !members[Offset{Dr: o.Dr, Dc: o.Dc-1}] {
			res.westEdge=append(res.westEdge, o)
		}
		if !members[Offset{Dr: o.Dr, Dc: o.Dc+1}] {
			res.eastEdge=append(res.eastEdge, o)
		}
	}
	return res, nil
}
