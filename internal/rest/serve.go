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


package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/rankfilt/internal/imgio"
	"github.com/mlnoga/rankfilt/internal/rank"
	"github.com/mlnoga/rankfilt/internal/stats"
)

func Serve() {
	newRouter().Run() // listen and serve on 0.0.0.0:8080
}

func newRouter() *gin.Engine {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET ("/ping",  getPing)
			v1.POST("/mean",  postMean)
			v1.POST("/pop",   postPop)
			v1.POST("/stats", postStats)
		}
	}
	return r
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m,err:=json.MarshalIndent(args, "", "  ")
	if err!=nil { return err }
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

// Arguments for the bilateral filter endpoints. Input and output are server-side
// file names; radiometric bounds below zero request automatic selection from the
// background noise estimate. Optional numbers are pointers so an omitted field is
// distinct from an explicit zero, which is a valid degenerate interval
type filterArgs struct {
	File   string `json:"file"`
	Out    string `json:"out"`
	Mask   string `json:"mask"`
	Shape  string `json:"shape"`
	Radius *int32 `json:"radius"`
	ShiftX int32  `json:"shiftX"`
	ShiftY int32  `json:"shiftY"`
	S0     *int32 `json:"s0"`
	S1     *int32 `json:"s1"`
}

func int32Ptr(v int32) *int32 { return &v }

// Fills in the documented defaults for omitted arguments
func (args *filterArgs) applyDefaults() {
	if args.Shape=="" { args.Shape="disk" }
	if args.Radius==nil { args.Radius=int32Ptr(3) }
	if args.S0==nil { args.S0=int32Ptr(10) }
	if args.S1==nil { args.S1=int32Ptr(10) }
}

func postMean(c *gin.Context) {
	runFilter(c, rank.BilateralMean)
}

func postPop(c *gin.Context) {
	runFilter(c, rank.BilateralPop)
}

// Binds filter arguments from the request, applies the given bilateral operation
// and streams a text log back to the caller
func runFilter(c *gin.Context, op func(img *rank.Image, fp *rank.Footprint, out *rank.Image, mask []bool, shiftX, shiftY, s0, s1 int32) (*rank.Image, error)) {
	logWriter := c.Writer
	var args filterArgs
	if err:=c.ShouldBind(&args); err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error() } )
		return
	}
	args.applyDefaults()

	header := logWriter.Header()
	header.Set("Content-Type", "text/plain")
	logWriter.WriteHeader(http.StatusOK)

	if err:=printArgs(logWriter, "Arguments:\n", "\n", args); err!=nil {
		fmt.Fprintf(logWriter, "Error printing arguments: %s\n", err.Error())
		return
	}

	img, err:=imgio.LoadFromFile(args.File)
	if err!=nil {
		fmt.Fprintf(logWriter, "Error loading %s: %s\n", args.File, err.Error())
		return
	}
	fmt.Fprintf(logWriter, "Loaded %s: %dx%d pixels, %d histogram bins\n", args.File, img.Width, img.Height(), img.MaxBin)

	var mask []bool
	if args.Mask!="" {
		if mask, err=imgio.LoadMaskFromFile(args.Mask); err!=nil {
			fmt.Fprintf(logWriter, "Error loading mask %s: %s\n", args.Mask, err.Error())
			return
		}
	}

	fp, err:=rank.NewFootprintByShape(args.Shape, *args.Radius)
	if err!=nil {
		fmt.Fprintf(logWriter, "Error: %s\n", err.Error())
		return
	}

	s0, s1:=*args.S0, *args.S1
	if s0<0 || s1<0 {
		auto0, auto1, err:=stats.AutoInterval(img.Data, img.MaxBin)
		if err!=nil {
			fmt.Fprintf(logWriter, "Error estimating noise: %s\n", err.Error())
			return
		}
		if s0<0 { s0=auto0 }
		if s1<0 { s1=auto1 }
		fmt.Fprintf(logWriter, "Auto-selected radiometric interval s0=%d s1=%d\n", s0, s1)
	}

	start:=time.Now()
	res, err:=op(img, fp, nil, mask, args.ShiftX, args.ShiftY, s0, s1)
	if err!=nil {
		fmt.Fprintf(logWriter, "Error filtering: %s\n", err.Error())
		return
	}
	fmt.Fprintf(logWriter, "Filtered in %v\n", time.Since(start))

	if args.Out!="" {
		if err:=imgio.WriteToFile(res, args.Out); err!=nil {
			fmt.Fprintf(logWriter, "Error saving %s: %s\n", args.Out, err.Error())
			return
		}
		fmt.Fprintf(logWriter, "Saved %s\n", args.Out)
	}
	logWriter.(http.Flusher).Flush()
}

type postStatsArgs struct {
	File string `json:"file"`
}

// Reports basic image statistics for a server-side file
func postStats(c *gin.Context)  {
	var args postStatsArgs
	if err:=c.ShouldBind(&args); err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error() } )
		return
	}

	img, err:=imgio.LoadFromFile(args.File)
	if err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error() } )
		return
	}

	s:=stats.CalcStats(img.Data)
	c.JSON(http.StatusOK, gin.H{
		"width":  img.Width,
		"height": img.Height(),
		"maxBin": img.MaxBin,
		"min":    s.Min,
		"max":    s.Max,
		"mean":   s.Mean,
		"median": s.Median,
		"stdDev": s.StdDev,
	})
}
