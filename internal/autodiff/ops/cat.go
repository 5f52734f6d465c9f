package ops

import (
	"fmt"

	"github.com/supcon-ml/supcon/internal/tensor"
)

// CatOp represents concatenation along a dimension.
//
// Backward: the output gradient splits back into one block per input.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewCatOp creates a new CatOp. dim is the resolved non-negative dimension
// used in the forward pass.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{inputs: inputs, output: output, dim: dim}
}

// Backward splits the output gradient along the concatenation dimension.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, in := range op.inputs {
		size := in.Shape()[op.dim]
		grads[i] = sliceDim(outputGrad, op.dim, offset, size)
		offset += size
	}
	return grads
}

// Inputs returns the concatenated input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the concatenated output tensor.
func (op *CatOp) Output() *tensor.RawTensor { return op.output }

// RepeatOp represents block tiling along a dimension:
// output = x repeated `times` times along dim.
//
// Backward: every tile saw the same input, so the input gradient is the sum
// of the per-tile output gradients.
type RepeatOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
	times  int
}

// NewRepeatOp creates a new RepeatOp. dim is the resolved non-negative
// dimension used in the forward pass.
func NewRepeatOp(input, output *tensor.RawTensor, dim, times int) *RepeatOp {
	return &RepeatOp{input: input, output: output, dim: dim, times: times}
}

// Backward folds the tiled output gradient back onto the input.
func (op *RepeatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	size := op.input.Shape()[op.dim]
	grad := sliceDim(outputGrad, op.dim, 0, size)
	for t := 1; t < op.times; t++ {
		grad = backend.Add(grad, sliceDim(outputGrad, op.dim, t*size, size))
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor [x].
func (op *RepeatOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the tiled output tensor.
func (op *RepeatOp) Output() *tensor.RawTensor { return op.output }

// sliceDim copies the [start, start+size) block of t along dim into a new
// tensor. This is the inverse of the Cat block layout.
func sliceDim(t *tensor.RawTensor, dim, start, size int) *tensor.RawTensor {
	shape := t.Shape()
	outShape := shape.Clone()
	outShape[dim] = size

	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sliceDim: %v", err))
	}

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	elemSize := t.DType().Size()
	block := size * inner * elemSize
	srcData := t.Data()
	dstData := result.Data()
	for o := 0; o < outer; o++ {
		src := (o*shape[dim] + start) * inner * elemSize
		copy(dstData[o*block:(o+1)*block], srcData[src:src+block])
	}

	return result
}
