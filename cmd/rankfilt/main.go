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

package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/pbnjay/memory"

	rf "github.com/mlnoga/rankfilt/internal"
	"github.com/mlnoga/rankfilt/internal/imgio"
	"github.com/mlnoga/rankfilt/internal/rank"
	"github.com/mlnoga/rankfilt/internal/render"
	"github.com/mlnoga/rankfilt/internal/rest"
	"github.com/mlnoga/rankfilt/internal/stats"
)

const version = "0.1.0"

var totalMiBs=memory.TotalMemory()/1024/1024

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out     = flag.String("out", "out.tiff", "save output to `file`, .png or .tif/.tiff")
var preview = flag.String("preview", "", "save false color preview of output as PNG to `file`")
var log     = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")
var maskFile= flag.String("mask", "", "restrict processing to nonzero pixels of the mask image in `file`")

var shape  = flag.String("shape", "disk", "footprint shape, one of disk or square")
var radius = flag.Int64("radius", 3, "footprint radius in pixels, giving a (2r+1)x(2r+1) bounding box")
var shiftX = flag.Int64("shiftX", 0, "shift of the footprint center in x, must stay inside the footprint")
var shiftY = flag.Int64("shiftY", 0, "shift of the footprint center in y, must stay inside the footprint")

var s0 = flag.Int64("s0", 10, "lower radiometric bound, neighbors in [g-s0, g+s1] qualify. -1: auto from noise estimate")
var s1 = flag.Int64("s1", 10, "upper radiometric bound, neighbors in [g-s0, g+s1] qualify. -1: auto from noise estimate")

var threads = flag.Int64("threads", int64(runtime.NumCPU()), "number of parallel row workers")

var chroot = flag.String("chroot", "", "serve: change filesystem root to `dir` before serving (requires root)")
var setuid = flag.Int64("setuid", -1, "serve: change user id before serving, -1=no change")

func main() {
	flag.Usage=func(){
		fmt.Printf(`Rankfilt Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (mean|pop|stats|serve|legal|version) [img.png|img.tiff]

Commands:
  mean    Bilateral mean filter: replace each pixel with the mean of footprint
          neighbors whose intensity lies in [g-s0, g+s1] around its own
  pop     Bilateral population: count the footprint neighbors whose intensity
          lies in [g-s0, g+s1] around each pixel's own
  stats   Show input image statistics
  serve   Serve the filters via a REST API on port 8080
  legal   Show license and attribution information
  version Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log=="%auto" {
		if *out!="" {
			*log=strings.TrimSuffix(*out, filepath.Ext(*out))+".log"
		} else {
			*log=""
		}
	}
	if *log!="" {
		err:=rf.LogAlsoToFile(*log)
		if err!=nil { rf.LogFatalf("Unable to open logfile '%s'\n", *log) }
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			rf.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			rf.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args:=flag.Args()
	if len(args)<1 {
		flag.Usage()
		return
	}

	switch args[0] {
	case "serve":
		rest.MakeSandbox(*chroot, int(*setuid))
		rest.Serve()

	case "stats":
		if len(args)<2 { rf.LogFatalf("Usage: %s stats img.png\n", os.Args[0]) }
		for _, fileName:=range args[1:] {
			cmdStats(fileName)
		}

	case "mean":
		if len(args)<2 { rf.LogFatalf("Usage: %s [-flags] mean img.png\n", os.Args[0]) }
		cmdFilter(args[1], rank.BilateralMean)

	case "pop":
		if len(args)<2 { rf.LogFatalf("Usage: %s [-flags] pop img.png\n", os.Args[0]) }
		cmdFilter(args[1], rank.BilateralPop)

	case "legal":
		rf.LogPrint(legal)

	case "version":
		rf.LogPrintf("Version %s\n", version)

	case "help", "?":
		flag.Usage()

	default:
		rf.LogPrintf("Unknown command '%s'\n\n", args[0])
		flag.Usage()
	}
	rf.LogSync()
}

// Loads the named image and prints its basic statistics
func cmdStats(fileName string) {
	img, err:=imgio.LoadFromFile(fileName)
	if err!=nil { rf.LogFatalf("Error loading %s: %s\n", fileName, err.Error()) }

	s:=stats.CalcStats(img.Data)
	rf.LogPrintf("%s: %dx%d pixels, %d histogram bins\n", fileName, img.Width, img.Height(), img.MaxBin)
	rf.LogPrintf("  min %d max %d mean %.2f median %d stdDev %.2f\n", s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}

// Loads the named image and applies the given bilateral operation with the
// settings from the global flags, saving the result and optional preview
func cmdFilter(fileName string, op func(img *rank.Image, fp *rank.Footprint, out *rank.Image, mask []bool, shiftX, shiftY, s0, s1 int32) (*rank.Image, error)) {
	rf.LogPrintf("Operating with %d MiB of physical memory\n", totalMiBs)

	img, err:=imgio.LoadFromFile(fileName)
	if err!=nil { rf.LogFatalf("Error loading %s: %s\n", fileName, err.Error()) }
	rf.LogPrintf("Loaded %s: %dx%d pixels, %d histogram bins\n", fileName, img.Width, img.Height(), img.MaxBin)

	var mask []bool
	if *maskFile!="" {
		if mask, err=imgio.LoadMaskFromFile(*maskFile); err!=nil {
			rf.LogFatalf("Error loading mask %s: %s\n", *maskFile, err.Error())
		}
	}

	fp, err:=rank.NewFootprintByShape(*shape, int32(*radius))
	if err!=nil { rf.LogFatalf("Error: %s\n", err.Error()) }

	theS0, theS1:=int32(*s0), int32(*s1)
	if theS0<0 || theS1<0 {
		auto0, auto1, err:=stats.AutoInterval(img.Data, img.MaxBin)
		if err!=nil { rf.LogFatalf("Error estimating noise: %s\n", err.Error()) }
		if theS0<0 { theS0=auto0 }
		if theS1<0 { theS1=auto1 }
		rf.LogPrintf("Auto-selected radiometric interval s0=%d s1=%d\n", theS0, theS1)
	}

	// Bound workers so concurrent histogram buffers stay within a tenth of
	// physical memory; matters for 16-bit inputs with 64Ki bins each
	maxThreads:=*threads
	histKiBs:=int64(img.MaxBin)*4/1024
	if budget:=int64(totalMiBs)*1024/10/histKiBs; maxThreads>budget {
		maxThreads=budget
		if maxThreads<1 { maxThreads=1 }
		rf.LogPrintf("Reducing workers to %d to bound histogram memory\n", maxThreads)
	}
	runtime.GOMAXPROCS(int(maxThreads))

	start:=time.Now()
	res, err:=op(img, fp, nil, mask, int32(*shiftX), int32(*shiftY), theS0, theS1)
	if err!=nil { rf.LogFatalf("Error filtering: %s\n", err.Error()) }
	rf.LogPrintf("Filtered %dx%d pixels in %v\n", img.Width, img.Height(), time.Since(start))

	if *out!="" {
		if err:=imgio.WriteToFile(res, *out); err!=nil {
			rf.LogFatalf("Error saving %s: %s\n", *out, err.Error())
		}
		rf.LogPrintf("Saved %s\n", *out)
	}

	if *preview!="" {
		file, err:=os.Create(*preview)
		if err!=nil { rf.LogFatalf("Error creating %s: %s\n", *preview, err.Error()) }
		defer file.Close()
		if err:=png.Encode(file, render.FalseColor(res)); err!=nil {
			rf.LogFatalf("Error saving %s: %s\n", *preview, err.Error())
		}
		rf.LogPrintf("Saved preview %s\n", *preview)
	}

	// Dump memory profile if flagged
	if *memprofile!="" {
		f, err:=os.Create(*memprofile)
		if err!=nil { rf.LogFatal("Could not create memory profile: ", err) }
		defer f.Close()
		rf.ClearPools()  // drop recycled histogram buffers so the profile shows the working set
		if err:=pprof.WriteHeapProfile(f); err!=nil {
			rf.LogFatal("Could not write memory profile: ", err)
		}
	}
}
