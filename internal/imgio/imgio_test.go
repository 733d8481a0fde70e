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
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mlnoga/rankfilt/internal/rank"
)

func TestLoadGray8(t *testing.T) {
	src:=image.NewGray(image.Rect(0, 0, 4, 3))
	for y:=0; y<3; y++ {
		for x:=0; x<4; x++ {
			src.SetGray(x, y, color.Gray{uint8(10*y+x)})
		}
	}
	buf:=&bytes.Buffer{}
	if err:=png.Encode(buf, src); err!=nil { t.Fatalf("encode: %s", err.Error()) }

	img, err:=Load(buf)
	if err!=nil { t.Fatalf("load: %s", err.Error()) }
	if img.Width!=4 { t.Errorf("width=%d; want 4", img.Width) }
	if img.Height()!=3 { t.Errorf("height=%d; want 3", img.Height()) }
	if img.MaxBin!=rank.MaxBin8 { t.Errorf("maxBin=%d; want %d", img.MaxBin, rank.MaxBin8) }
	if img.Data[2*4+3]!=23 { t.Errorf("data[11]=%d; want 23", img.Data[2*4+3]) }
}

func TestLoadGray16(t *testing.T) {
	src:=image.NewGray16(image.Rect(0, 0, 3, 2))
	src.SetGray16(2, 1, color.Gray16{40000})
	buf:=&bytes.Buffer{}
	if err:=png.Encode(buf, src); err!=nil { t.Fatalf("encode: %s", err.Error()) }

	img, err:=Load(buf)
	if err!=nil { t.Fatalf("load: %s", err.Error()) }
	if img.MaxBin!=rank.MaxBin16 { t.Errorf("maxBin=%d; want %d", img.MaxBin, rank.MaxBin16) }
	if img.Data[1*3+2]!=40000 { t.Errorf("data[5]=%d; want 40000", img.Data[1*3+2]) }
}

func TestLoadRejectsColor(t *testing.T) {
	src:=image.NewRGBA(image.Rect(0, 0, 2, 2))
	buf:=&bytes.Buffer{}
	if err:=png.Encode(buf, src); err!=nil { t.Fatalf("encode: %s", err.Error()) }

	_, err:=Load(buf)
	if !errors.Is(err, rank.ErrUnsupportedBitDepth) { t.Errorf("err=%v; want ErrUnsupportedBitDepth", err) }
}

func TestWritePNGRoundTrip(t *testing.T) {
	data:=make([]uint16, 5*4)
	for i:=range data {
		data[i]=uint16(i*3000)
	}
	img, err:=rank.NewImage(data, 5, 4, rank.MaxBin16)
	if err!=nil { t.Fatalf("image: %s", err.Error()) }

	buf:=&bytes.Buffer{}
	if err:=WritePNG(img, buf); err!=nil { t.Fatalf("write: %s", err.Error()) }
	loaded, err:=Load(buf)
	if err!=nil { t.Fatalf("load: %s", err.Error()) }
	if loaded.MaxBin!=rank.MaxBin16 { t.Errorf("maxBin=%d; want %d", loaded.MaxBin, rank.MaxBin16) }
	for i:=range data {
		if loaded.Data[i]!=data[i] { t.Errorf("data[%d]=%d; want %d", i, loaded.Data[i], data[i]) }
	}
}

func TestWriteTIFFRoundTrip(t *testing.T) {
	data:=[]uint16{0, 100, 200, 255, 30, 60}
	img, err:=rank.NewImage(data, 3, 2, rank.MaxBin8)
	if err!=nil { t.Fatalf("image: %s", err.Error()) }

	buf:=&bytes.Buffer{}
	if err:=WriteTIFF(img, buf); err!=nil { t.Fatalf("write: %s", err.Error()) }
	loaded, err:=Load(buf)
	if err!=nil { t.Fatalf("load: %s", err.Error()) }
	if loaded.MaxBin!=rank.MaxBin8 { t.Errorf("maxBin=%d; want %d", loaded.MaxBin, rank.MaxBin8) }
	for i:=range data {
		if loaded.Data[i]!=data[i] { t.Errorf("data[%d]=%d; want %d", i, loaded.Data[i], data[i]) }
	}
}
