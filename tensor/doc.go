// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the supcon
// contrastive learning library.
//
// # Overview
//
// Tensors are the data structure everything else is built on. This package
// provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy reshapes and views
//   - Device abstraction via the Backend interface
//
// # Basic Usage
//
//	import (
//	    "github.com/supcon-ml/supcon/backend/cpu"
//	    "github.com/supcon-ml/supcon/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    sim := x.MatMul(y.T())
//	}
//
// # Supported Data Types
//
// The DType constraint covers the types the loss computation needs:
//   - float32, float64 (embeddings and loss values)
//   - int32 (class labels)
//   - bool (comparison results)
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend)  // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)   // (3, 4)
//	c := a.Add(b)                                            // (3, 4)
//
// # Gradients
//
// Wrap a backend with the autodiff package to record operations on a
// gradient tape; the Tensor API is identical either way.
package tensor
