// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// The backend uses vek SIMD kernels for element-wise arithmetic and
// reductions, and gonum BLAS for matrix multiplication. Large tensors are
// processed in parallel across CPU cores.
//
// Example:
//
//	import (
//	    "github.com/supcon-ml/supcon/backend/cpu"
//	    "github.com/supcon-ml/supcon/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Randn[float32](tensor.Shape{8, 128}, backend)
//	    sim := x.MatMul(x.T())
//	}
package cpu

import (
	internalcpu "github.com/supcon-ml/supcon/internal/backend/cpu"
	"github.com/supcon-ml/supcon/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}
