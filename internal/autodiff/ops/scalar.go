package ops

import (
	"fmt"

	"github.com/supcon-ml/supcon/internal/tensor"
)

// scalarKind selects the backward rule of a ScalarOp.
type scalarKind int

const (
	scalarAdd scalarKind = iota
	scalarSub
	scalarMul
	scalarDiv
)

// ScalarOp represents an element-wise operation between a tensor and a
// constant scalar: output = x ⊕ s.
//
// Backward:
//   - add/sub: gradient passes through unchanged
//   - mul: grad_x = grad_output * s
//   - div: grad_x = grad_output / s
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
	kind   scalarKind
}

// NewAddScalarOp records output = x + s.
func NewAddScalarOp(x, output *tensor.RawTensor, s any) *ScalarOp {
	return &ScalarOp{input: x, output: output, scalar: s, kind: scalarAdd}
}

// NewSubScalarOp records output = x - s.
func NewSubScalarOp(x, output *tensor.RawTensor, s any) *ScalarOp {
	return &ScalarOp{input: x, output: output, scalar: s, kind: scalarSub}
}

// NewMulScalarOp records output = x * s.
func NewMulScalarOp(x, output *tensor.RawTensor, s any) *ScalarOp {
	return &ScalarOp{input: x, output: output, scalar: s, kind: scalarMul}
}

// NewDivScalarOp records output = x / s.
func NewDivScalarOp(x, output *tensor.RawTensor, s any) *ScalarOp {
	return &ScalarOp{input: x, output: output, scalar: s, kind: scalarDiv}
}

// Backward computes the input gradient.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case scalarAdd, scalarSub:
		return []*tensor.RawTensor{outputGrad.Clone()}
	case scalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case scalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	default:
		panic(fmt.Sprintf("ScalarOp: unknown kind %d", op.kind))
	}
}

// Inputs returns the input tensor [x].
func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }
