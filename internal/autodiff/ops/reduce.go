package ops

import "github.com/supcon-ml/supcon/internal/tensor"

// SumOp represents a full reduction: output = sum(x), shape [1].
//
// Backward: every element contributed with weight 1, so the scalar output
// gradient broadcasts to the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: x, output: output}
}

// Backward computes the input gradient for the full sum.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	var scale float64
	switch outputGrad.DType() {
	case tensor.Float32:
		scale = float64(outputGrad.AsFloat32()[0])
	case tensor.Float64:
		scale = outputGrad.AsFloat64()[0]
	default:
		panic("SumOp: backward only supports float32 and float64")
	}
	return []*tensor.RawTensor{fill(op.input.Shape(), op.input.DType(), op.input.Device(), scale)}
}

// Inputs returns the input tensor [x].
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor sum(x).
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// SumDimOp represents a sum reduction along one dimension:
// output = sum(x, dim, keepDim).
//
// Backward: the output gradient broadcasts back along the reduced
// dimension. If keepDim was false the gradient is first viewed with the
// reduced dimension restored as size 1.
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: x, output: output, dim: dim, keepDim: keepDim}
}

// Backward computes the input gradient for the dimension sum.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		inShape := op.input.Shape()
		dim := op.dim
		if dim < 0 {
			dim = len(inShape) + dim
		}
		keepShape := inShape.Clone()
		keepShape[dim] = 1
		grad = backend.Reshape(grad, keepShape)
	}
	return []*tensor.RawTensor{broadcastTo(grad, op.input.Shape(), backend)}
}

// Inputs returns the input tensor [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }
