// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation stores the tensors of its forward pass and computes input
// gradients from the output gradient during the backward pass. The set
// covers exactly the primitives the contrastive loss chain is built from:
// broadcast arithmetic, matmul, transpose/reshape, concatenation and
// tiling, exp/log, scalar arithmetic and sum reductions.
package ops

import "github.com/supcon-ml/supcon/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output
	// gradient, one gradient per input tensor.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
