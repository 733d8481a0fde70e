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
	"testing"

	"github.com/valyala/fastrand"
)

// 5x5 image with a 3x3 block of 255 inside a 0 border
func blockImage(t *testing.T) *Image {
	data:=[]uint16{
		0,   0,   0,   0, 0,
		0, 255, 255, 255, 0,
		0, 255, 255, 255, 0,
		0, 255, 255, 255, 0,
		0,   0,   0,   0, 0,
	}
	img, err:=NewImage(data, 5, 5, MaxBin8)
	if err!=nil { t.Fatalf("image: %s", err.Error()) }
	return img
}

func TestBilateralPopReference(t *testing.T) {
	img:=blockImage(t)
	out, err:=BilateralPop(img, NewSquareFootprint(1), nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("pop: %s", err.Error()) }

	want:=[]uint16{
		3, 4, 3, 4, 3,
		4, 4, 6, 4, 4,
		3, 6, 9, 6, 3,
		4, 4, 6, 4, 4,
		3, 4, 3, 4, 3,
	}
	for i, w:=range want {
		if out.Data[i]!=w { t.Errorf("out[%d]=%d; want %d", i, out.Data[i], w) }
	}
}

func TestBilateralMeanEdgePreserving(t *testing.T) {
	img:=blockImage(t)
	out, err:=BilateralMean(img, NewSquareFootprint(1), nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("mean: %s", err.Error()) }

	// all qualifying neighbors share the center's own value, so the block and the
	// border must both survive unchanged
	for i, g:=range img.Data {
		if out.Data[i]!=g { t.Errorf("out[%d]=%d; want %d", i, out.Data[i], g) }
	}
}

func TestBilateralMeanFlatImage(t *testing.T) {
	data:=make([]uint16, 7*6)
	for i:=range data {
		data[i]=42
	}
	img, _:=NewImage(data, 7, 6, MaxBin8)
	out, err:=BilateralMean(img, NewDiskFootprint(2), nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("mean: %s", err.Error()) }
	for i:=range out.Data {
		if out.Data[i]!=42 { t.Errorf("out[%d]=%d; want 42", i, out.Data[i]) }
	}
}

func TestBilateralDegenerateInterval(t *testing.T) {
	rng:=&fastrand.RNG{}
	img:=randomImage(t, 6, 5, rng)
	single:=&Footprint{Mask: []bool{true}, Width: 1}

	mean, err:=BilateralMean(img, single, nil, nil, 0, 0, 0, 0)
	if err!=nil { t.Fatalf("mean: %s", err.Error()) }
	pop, err:=BilateralPop(img, single, nil, nil, 0, 0, 0, 0)
	if err!=nil { t.Fatalf("pop: %s", err.Error()) }

	for i, g:=range img.Data {
		if mean.Data[i]!=g { t.Errorf("mean[%d]=%d; want own intensity %d", i, mean.Data[i], g) }
		if pop.Data[i]!=1 { t.Errorf("pop[%d]=%d; want 1", i, pop.Data[i]) }
	}
}

func TestBilateralPopMonotonicInInterval(t *testing.T) {
	rng:=&fastrand.RNG{}
	img:=randomImage(t, 10, 8, rng)
	fp:=NewDiskFootprint(2)

	prev, err:=BilateralPop(img, fp, nil, nil, 0, 0, 0, 0)
	if err!=nil { t.Fatalf("pop: %s", err.Error()) }
	for s:=int32(8); s<=64; s*=2 {
		next, err:=BilateralPop(img, fp, nil, nil, 0, 0, s, s)
		if err!=nil { t.Fatalf("pop s=%d: %s", s, err.Error()) }
		for i:=range next.Data {
			if next.Data[i]<prev.Data[i] { t.Errorf("pop[%d] dropped from %d to %d as interval grew to %d", i, prev.Data[i], next.Data[i], s) }
		}
		prev=next
	}
}

func TestBilateralMaskExcludesNeighbors(t *testing.T) {
	img:=blockImage(t)
	fp:=NewSquareFootprint(1)

	// masking out the image center removes it from all surrounding neighborhoods
	mask:=make([]bool, len(img.Data))
	for i:=range mask {
		mask[i]=true
	}
	mask[2*5+2]=false

	full, err:=BilateralPop(img, fp, nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("pop: %s", err.Error()) }
	masked, err:=BilateralPop(img, fp, nil, mask, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("masked pop: %s", err.Error()) }

	for y:=int32(1); y<=3; y++ {
		for x:=int32(1); x<=3; x++ {
			i:=y*5+x
			if i==2*5+2 { continue }  // center itself is skipped, not computed
			if masked.Data[i]!=full.Data[i]-1 {
				t.Errorf("masked pop[%d]=%d; want %d", i, masked.Data[i], full.Data[i]-1)
			}
		}
	}
	// pixels outside the 3x3 around the masked cell are unaffected
	if masked.Data[0]!=full.Data[0] { t.Errorf("masked pop[0]=%d; want %d", masked.Data[0], full.Data[0]) }
}

func TestBilateralMaskSkipsCenters(t *testing.T) {
	img:=blockImage(t)
	fp:=NewSquareFootprint(1)

	mask:=make([]bool, len(img.Data))
	for i:=range mask {
		mask[i]=true
	}
	mask[0]=false
	mask[12]=false

	// pre-filled output must survive at inactive pixels
	out:=img.NewOfSameShape()
	out.Data[0]=7777
	out.Data[12]=7777

	res, err:=BilateralPop(img, fp, out, mask, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("pop: %s", err.Error()) }
	if res!=out { t.Errorf("result is not the supplied output image") }
	if out.Data[0]!=7777 { t.Errorf("out[0]=%d; want preserved 7777", out.Data[0]) }
	if out.Data[12]!=7777 { t.Errorf("out[12]=%d; want preserved 7777", out.Data[12]) }
}

func TestBilateralDeterministic(t *testing.T) {
	rng:=&fastrand.RNG{}
	img:=randomImage(t, 9, 7, rng)
	fp:=NewDiskFootprint(2)

	a, err:=BilateralMean(img, fp, nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("mean: %s", err.Error()) }
	b, err:=BilateralMean(img, fp, nil, nil, 0, 0, 10, 10)
	if err!=nil { t.Fatalf("mean: %s", err.Error()) }
	for i:=range a.Data {
		if a.Data[i]!=b.Data[i] { t.Errorf("out[%d] differs between identical calls: %d vs %d", i, a.Data[i], b.Data[i]) }
	}
}

func TestBilateralInvalidShiftRejected(t *testing.T) {
	img:=blockImage(t)
	out:=img.NewOfSameShape()
	out.Data[3]=1234

	_, err:=BilateralMean(img, NewSquareFootprint(1), out, nil, 7, 0, 10, 10)
	if !errors.Is(err, ErrInvalidShift) { t.Errorf("err=%v; want ErrInvalidShift", err) }
	if out.Data[3]!=1234 { t.Errorf("out[3]=%d; output touched before validation", out.Data[3]) }
}

func TestBilateralShapeMismatchRejected(t *testing.T) {
	img:=blockImage(t)

	badMask:=make([]bool, 7)
	_, err:=BilateralMean(img, NewSquareFootprint(1), nil, badMask, 0, 0, 10, 10)
	if !errors.Is(err, ErrShapeMismatch) { t.Errorf("mask: err=%v; want ErrShapeMismatch", err) }

	badOut, _:=NewImage(nil, 3, 3, MaxBin8)
	_, err=BilateralMean(img, NewSquareFootprint(1), badOut, nil, 0, 0, 10, 10)
	if !errors.Is(err, ErrShapeMismatch) { t.Errorf("out: err=%v; want ErrShapeMismatch", err) }
}

func TestBilateralUnsupportedBitDepthRejected(t *testing.T) {
	img:=&Image{Data: make([]uint16, 25), Width: 5, MaxBin: 1024}
	_, err:=BilateralMean(img, NewSquareFootprint(1), nil, nil, 0, 0, 10, 10)
	if !errors.Is(err, ErrUnsupportedBitDepth) { t.Errorf("err=%v; want ErrUnsupportedBitDepth", err) }
}

func TestBilateralMeanMatchesNaive(t *testing.T) {
	rng:=&fastrand.RNG{}
	for i:=0; i<5; i++ {
		img:=randomImage(t, 11, 9, rng)
		fp:=randomFootprint(1+int32(rng.Uint32n(5)), 1+int32(rng.Uint32n(5)), rng)
		mask:=randomMask(int32(len(img.Data)), 80, rng)
		s0, s1:=int32(rng.Uint32n(40)), int32(rng.Uint32n(40))

		out, err:=BilateralMean(img, fp, nil, mask, 0, 0, s0, s1)
		if err!=nil { t.Fatalf("mean: %s", err.Error()) }

		offsets, err:=fp.ResolveOffsets(0, 0)
		if err!=nil { t.Fatalf("resolve: %s", err.Error()) }
		bins:=make([]int32, img.MaxBin)
		for y:=int32(0); y<img.Height(); y++ {
			for x:=int32(0); x<img.Width; x++ {
				i:=y*img.Width+x
				if !mask[i] { continue }
				naiveHistogram(img, mask, offsets, y, x, bins)
				g:=img.Data[i]
				lo, hi:=int32(g)-s0, int32(g)+s1
				if lo<0 { lo=0 }
				if hi>img.MaxBin-1 { hi=img.MaxBin-1 }
				sum, pop:=int64(0), int64(0)
				for v:=lo; v<=hi; v++ {
					pop+=int64(bins[v])
					sum+=int64(bins[v])*int64(v)
				}
				want:=g
				if pop>0 { want=uint16(sum/pop) }
				if out.Data[i]!=want { t.Errorf("mean(%d,%d)=%d; want %d", y, x, out.Data[i], want) }
			}
		}
	}
}
