package ops

import "github.com/supcon-ml/supcon/internal/tensor"

// ExpOp represents the element-wise exponential: output = exp(input).
//
// Backward: d(exp(x))/dx = exp(x), which is the forward output, so
// grad_input = grad_output * output.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Backward computes the input gradient for exp.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// Inputs returns the input tensor [x].
func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor exp(x).
func (op *ExpOp) Output() *tensor.RawTensor { return op.output }

// LogOp represents the element-wise natural logarithm: output = log(input).
//
// Backward: d(log(x))/dx = 1/x, so grad_input = grad_output / input.
type LogOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{input: input, output: output}
}

// Backward computes the input gradient for log.
// Assumes input > 0; the forward pass already produced non-finite output
// otherwise.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// Inputs returns the input tensor [x].
func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor log(x).
func (op *LogOp) Output() *tensor.RawTensor { return op.output }
