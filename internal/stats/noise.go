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

	"gonum.org/v1/gonum/optimize" // for noise fitting. source via "go get gonum.org/v1/gonum"
)

// Returns the location and the value of the histogram peak
func GetPeak(bins []int32) (x int32, y int32) {
	maxIndex, maxValue:=-1, int32(math.MinInt32)
	for i, v:=range bins {
		if v>maxValue {
			maxIndex, maxValue=i, v
		}
	}
	return int32(maxIndex), maxValue
}

// Calculates the mode and the standard deviation of the given intensity histogram,
// by minimizing the distance between the histogram and a scaled normal distribution.
// Bin i holds the count of pixels with intensity i
func GetModeStdDevFromHistogram(bins []int32) (mode, stdDev float32, err error) {
	// Take an educated initial guess: the maximum value of the histogram
	peak, peakVal:=GetPeak(bins)

	// Now minimize the distance between the histogram and a normal distribution
	x0:=[]float64{float64(peakVal), float64(peak), 5.0}
	problem:=optimize.Problem{
		Func: func(x []float64) float64 {
			alpha, mu, sigma:=float32(x[0]), float32(x[1]), float32(x[2])
			scaler:=alpha/(sigma*float32(math.Sqrt(2*math.Pi)))
			sumSqDiff:=float32(0)

			for i, y:=range bins {
				xmusig:=(float32(i)-mu)/sigma
				yPredict:=scaler*float32(math.Exp(float64(-0.5*xmusig*xmusig)))

				diff:=float32(y)-yPredict
				sumSqDiff+=diff*diff
			}
			variance:=sumSqDiff/float32(len(bins))
			return math.Sqrt(float64(variance))
		},
	}
	result, err:=optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err!=nil {
		return -1, -1, err
	}

	return float32(result.X[1]), float32(math.Abs(result.X[2])), nil
}

// Derives a symmetric radiometric interval (s0,s1) from the background noise of
// the image, by fitting a normal distribution to the intensity histogram peak.
// The interval spans 1.5 standard deviations of the fitted noise on either side,
// so flat regions are averaged while structures above the noise floor survive
func AutoInterval(data []uint16, maxBin int32) (s0, s1 int32, err error) {
	bins:=make([]int32, maxBin)
	Histogram(data, bins)
	_, stdDev, err:=GetModeStdDevFromHistogram(bins)
	if err!=nil { return 0,0, err }
	s:=int32(stdDev*1.5+0.5)
	if s<1 { s=1 }
	if s>maxBin-1 { s=maxBin-1 }
	return s, s, nil
}
