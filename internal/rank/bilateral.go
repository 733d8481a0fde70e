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
	"runtime"

	"github.com/mlnoga/rankfilt/internal"
)

// Reduces a neighbor histogram restricted to the interval [lo,hi] to one output
// value for the center pixel with intensity g
type kernel func(bins []int32, g uint16, lo, hi int32) uint16

// Population-weighted average intensity over [lo,hi], truncated to the integer
// output. An empty interval population degrades to the center's own intensity
func kernelMean(bins []int32, g uint16, lo, hi int32) uint16 {
	sum, pop:=int64(0), int64(0)
	for v:=lo; v<=hi; v++ {
		n:=int64(bins[v])
		pop+=n
		sum+=n*int64(v)
	}
	if pop==0 { return g }
	return uint16(sum/pop)
}

// Number of neighbors with intensity in [lo,hi]. Zero is a valid result.
// Saturates at 65535 for footprints larger than the output can represent
func kernelPop(bins []int32, g uint16, lo, hi int32) uint16 {
	pop:=int64(0)
	for v:=lo; v<=hi; v++ {
		pop+=int64(bins[v])
	}
	if pop>65535 { pop=65535 }
	return uint16(pop)
}

// Applies a flat-kernel bilateral mean filter: every active pixel is replaced by
// the mean intensity of its neighbors under the footprint whose intensity lies in
// [g-s0, g+s1] around the center intensity g. Edge-preserving, as neighbors across
// a strong edge fall outside the interval and are ignored.
//
// out may be nil, in which case a fresh zeroed image is allocated. mask may be nil,
// meaning all pixels are active; inactive pixels neither contribute to any
// neighborhood nor get written, their prior content in out is preserved.
// shiftX and shiftY relocate the footprint center and must keep it inside the
// footprint bounds. Returns out
func BilateralMean(img *Image, fp *Footprint, out *Image, mask []bool, shiftX, shiftY, s0, s1 int32) (*Image, error) {
	return applyBilateral(img, fp, out, mask, shiftX, shiftY, s0, s1, kernelMean)
}

// Counts, for every active pixel, the neighbors under the footprint whose
// intensity lies in [g-s0, g+s1] around the center intensity g. Parameters
// behave as in BilateralMean. Returns out.
//
// Counts always use the full 16-bit range of the output pixels, even for 8-bit
// inputs; writing such a result through an 8-bit file format truncates counts
// above 255
func BilateralPop(img *Image, fp *Footprint, out *Image, mask []bool, shiftX, shiftY, s0, s1 int32) (*Image, error) {
	return applyBilateral(img, fp, out, mask, shiftX, shiftY, s0, s1, kernelPop)
}

// Validates all inputs, then runs the sliding histogram pass over disjoint row
// ranges in parallel. Workers share only the read-only image, footprint and mask;
// each owns a pooled histogram buffer and writes exclusively to its own rows
func applyBilateral(img *Image, fp *Footprint, out *Image, mask []bool, shiftX, shiftY, s0, s1 int32, k kernel) (*Image, error) {
	res, err:=fp.resolve(shiftX, shiftY)
	if err!=nil { return nil, err }
	if err:=img.validateShapes(out, mask); err!=nil { return nil, err }
	if out==nil {
		out=img.NewOfSameShape()
	}

	height:=img.Height()
	maxThreads:=int32(runtime.GOMAXPROCS(0))
	if maxThreads>height { maxThreads=height }
	if maxThreads<1 { maxThreads=1 }

	limiter:=make(chan bool, maxThreads)
	rowsPerWorker:=(height+maxThreads-1)/maxThreads
	for rowLo:=int32(0); rowLo<height; rowLo+=rowsPerWorker {
		rowHi:=rowLo+rowsPerWorker
		if rowHi>height { rowHi=height }
		limiter <- true
		go func(rowLo, rowHi int32) {
			defer func() { <-limiter }()
			filterRows(img, out, mask, res, s0, s1, rowLo, rowHi, k)
		}(rowLo, rowHi)
	}
	for i:=int32(0); i<maxThreads; i++ {  // wait for goroutines to finish
		limiter <- true
	}
	return out, nil
}

// Filters the rows [rowLo, rowHi) of the image into out. One histogram buffer
// per call, reused across all pixels of the range, never reallocated per pixel
func filterRows(img, out *Image, mask []bool, res *resolvedFootprint, s0, s1, rowLo, rowHi int32, k kernel) {
	bins:=internal.GetArrayOfInt32FromPool(int(img.MaxBin))
	defer internal.PutArrayOfInt32IntoPool(bins)

	h:=slidingHistogram{bins: bins, img: img, mask: mask, fp: res}
	for y:=rowLo; y<rowHi; y++ {
		h.startRow(y)
		for x:=int32(0); x<img.Width; x++ {
			if x>0 {
				h.step()
			}
			i:=y*img.Width+x
			if mask!=nil && !mask[i] { continue }  // skip processing, not a zero-radius histogram
			g:=img.Data[i]
			lo:=int32(g)-s0
			if lo<0 { lo=0 }
			hi:=int32(g)+s1
			if hi>img.MaxBin-1 { hi=img.MaxBin-1 }
			out.Data[i]=k(h.bins, g, lo, hi)
		}
	}
}
