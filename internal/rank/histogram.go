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

// Sliding neighbor histogram for one image row. After startRow(y) and x calls
// to step(), bins holds the multiset of intensities of all in-bounds, mask-true
// neighbors of pixel (y,x) under the resolved footprint. Cost per step is
// proportional to the footprint's east/west edge length, not its area.
//
// Out-of-bounds neighbors are absent, not zero. Mask-false neighbors are absent
// as well; masking of the center pixel is the caller's concern, the histogram
// slides over inactive centers without emitting
type slidingHistogram struct {
	bins   []int32      // One count per intensity level, maxBin entries
	img    *Image       // Read-only input image
	mask   []bool       // Optional neighbor gate, nil means all pixels contribute
	fp     *resolvedFootprint
	height int32        // Cached image height
	y, x   int32        // Current center position
}

// Adds the neighbor at (y+dr, x+dc) to the histogram, if it exists
func (h *slidingHistogram) add(dr, dc int32) {
	r, c:=h.y+dr, h.x+dc
	if r<0 || r>=h.height || c<0 || c>=h.img.Width { return }
	i:=r*h.img.Width+c
	if h.mask!=nil && !h.mask[i] { return }
	h.bins[h.img.Data[i]]++
}

// Removes the neighbor at (y+dr, x+dc) from the histogram, if it exists.
// Mirror image of add: a neighbor skipped on entry is skipped on exit, so
// counts can never go negative
func (h *slidingHistogram) remove(dr, dc int32) {
	r, c:=h.y+dr, h.x+dc
	if r<0 || r>=h.height || c<0 || c>=h.img.Width { return }
	i:=r*h.img.Width+c
	if h.mask!=nil && !h.mask[i] { return }
	h.bins[h.img.Data[i]]--
}

// Positions the histogram at (y,0), rebuilding it from the full offset list
func (h *slidingHistogram) startRow(y int32) {
	for i:=range h.bins {
		h.bins[i]=0
	}
	h.height=h.img.Height()
	h.y, h.x=y, 0
	for _, o:=range h.fp.all {
		h.add(o.Dr, o.Dc)
	}
}

// Advances the histogram one pixel east. The west-edge neighbors of the old
// window fall out, the east-edge neighbors of the new window come in; interior
// cells remain covered and are not touched
func (h *slidingHistogram) step() {
	for _, o:=range h.fp.westEdge {
		h.remove(o.Dr, o.Dc)
	}
	h.x++
	for _, o:=range h.fp.eastEdge {
		h.add(o.Dr, o.Dc)
	}
}

// Builds the neighbor histogram at (y,x) by brute-force rescan of the full
// offset list, costing the footprint area per pixel. Reference oracle for the
// incremental engine
func naiveHistogram(img *Image, mask []bool, offsets []Offset, y, x int32, bins []int32) {
	for i:=range bins {
		bins[i]=0
	}
	for _, o:=range offsets {
		r, c:=y+o.Dr, x+o.Dc
		if r<0 || r>=img.Height() || c<0 || c>=img.Width { continue }
		i:=r*img.Width+c
		if mask!=nil && !mask[i] { continue }
		bins[img.Data[i]]++
	}
}
