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


package stats

import (
	"math"

	"github.com/valyala/fastrand"
)

// Basic statistics of a single-channel integer image
type Stats struct {
	Min    uint16     // Smallest pixel value
	Max    uint16     // Largest pixel value
	Mean   float32    // Arithmetic mean of all pixel values
	Median uint16     // Sampled approximate median
	StdDev float32    // Sampled standard deviation around the median
}

// Number of pixels to subsample for the approximate location and scale estimators
const numSamples=16*1024

// Calculates min, max, mean and sampled median and standard deviation of the data
func CalcStats(data []uint16) *Stats {
	s:=&Stats{Min: 65535, Max: 0}
	sum:=int64(0)
	for _, d:=range data {
		if d<s.Min { s.Min=d }
		if d>s.Max { s.Max=d }
		sum+=int64(d)
	}
	s.Mean=float32(float64(sum)/float64(len(data)))
	s.Median=FastApproxMedian(data, numSamples)
	s.StdDev=FastApproxStdDev(data, float32(s.Median), numSamples)
	return s
}

// Calculates fast approximate median of the (presumably large) data by subsampling
// the given number of values and taking the median of that
func FastApproxMedian(data []uint16, numSamples int) uint16 {
	if numSamples>len(data) { numSamples=len(data) }
	samples:=make([]uint16, numSamples)
	max:=uint32(len(data))
	rng:=fastrand.RNG{}
	for i:=range samples {
		index:=rng.Uint32n(max)
		samples[i]=data[index]
	}
	median:=QSelectMedianUint16(samples)
	return median
}

// Calculates fast approximate standard deviation of the (presumably large) data
// around the given location by subsampling the given number of values
func FastApproxStdDev(data []uint16, location float32, numSamples int) float32 {
	if numSamples>len(data) { numSamples=len(data) }
	max:=uint32(len(data))
	rng:=fastrand.RNG{}
	sumSqDiff:=float32(0)
	for i:=0; i<numSamples; i++ {
		index:=rng.Uint32n(max)
		diff:=float32(data[index])-location
		sumSqDiff+=diff*diff
	}
	variance:=sumSqDiff/float32(numSamples)
	return float32(math.Sqrt(float64(variance)))
}

// Calculates the intensity histogram of the data into the given bins.
// Every pixel value must be below len(bins)
func Histogram(data []uint16, bins []int32) {
	for i:=range bins {
		bins[i]=0
	}
	for _, d:=range data {
		bins[d]++
	}
}
