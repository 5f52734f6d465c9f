// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/supcon-ml/supcon/internal/tensor"

// Backend defines the interface a compute backend must implement. Backends
// handle the actual arithmetic behind the Tensor API.
//
// Implementations:
//   - backend/cpu: pure Go with SIMD kernels and BLAS matrix multiply
//
// Decorator backends for additional functionality:
//   - autodiff: gradient tape recording (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/supcon-ml/supcon/backend/cpu"
//	    "github.com/supcon-ml/supcon/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend = tensor.Backend
