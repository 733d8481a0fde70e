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


package internal

import (
	"runtime"
	"sync"
)

// Pool of constant sized arrays of given type, to reduce memory allocation overhead.
// Histogram buffers are the main customer: one per worker, maxBin entries each,
// recycled across filter calls.
var poolInt32  =struct{
    sync.RWMutex
    m map[int]*sync.Pool
}{m: make(map[int]*sync.Pool)}


// Clears all memory pools and triggers garbage collection
func ClearPools() {
	poolInt32  =struct{
	    sync.RWMutex
	    m map[int]*sync.Pool
	}{m: make(map[int]*sync.Pool)}

	runtime.GC()
}


// Returns a pool for []int32 arrays of the given size
func getSizedPoolInt32(size int) *sync.Pool {
	poolInt32.RLock()
	pool:=poolInt32.m[size]
	poolInt32.RUnlock()
	if pool==nil {
		pool=&sync.Pool{
			New: func() interface{} {
				return make([]int32, size)
			},
		}
		poolInt32.Lock()
		poolInt32.m[size]=pool
		poolInt32.Unlock()
	}
	return pool
}

// Retrieves an array of given size and type from pool
func GetArrayOfInt32FromPool(size int) []int32 {
	pool:=getSizedPoolInt32(size)
	return pool.Get().([]int32)
}

// Returns an array of given size and type to the pool
func PutArrayOfInt32IntoPool(arr []int32) {
	pool:=getSizedPoolInt32(cap(arr))
	pool.Put(arr[:cap(arr)])
	arr=nil
}
