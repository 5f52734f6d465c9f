// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend in a decorator that records every tensor operation
// on a gradient tape; Backward then walks the tape in reverse to compute
// gradients with respect to the recorded inputs.
//
// Example:
//
//	import (
//	    "github.com/supcon-ml/supcon/autodiff"
//	    "github.com/supcon-ml/supcon/backend/cpu"
//	    "github.com/supcon-ml/supcon/nn"
//	    "github.com/supcon-ml/supcon/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    features := tensor.Randn[float32](tensor.Shape{8, 2, 128}, backend)
//	    criterion, _ := nn.NewContrastiveLoss(nn.DefaultContrastiveConfig(), backend)
//
//	    backend.Tape().StartRecording()
//	    loss, _ := criterion.Forward(features, labels, nil)
//	    grads := autodiff.Backward(loss, backend)
//	    featGrad := grads[features.Raw()]
//	}
package autodiff

import (
	"github.com/supcon-ml/supcon/internal/autodiff"
	"github.com/supcon-ml/supcon/internal/tensor"
)

// Backend is the autodiff-enabled backend decorator.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// New creates an autodiff backend wrapping the given backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the interface of backends that support
// backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t with respect to every tensor recorded
// on the backend's tape, seeding the output gradient with ones.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
