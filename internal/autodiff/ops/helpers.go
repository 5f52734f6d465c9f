package ops

import (
	"fmt"

	"github.com/supcon-ml/supcon/internal/tensor"
)

// reduceBroadcast folds a gradient back to the shape of an input that was
// broadcast during the forward pass.
//
// Example:
//
//	Forward:  a[n,1] * b[n,m] -> c[n,m]   (a broadcast along dim 1)
//	Backward: grad_c[n,m] -> grad_a[n,1]  (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	result := grad

	// Leading dimensions the input never had fold away first.
	for len(result.Shape()) > len(target) {
		result = backend.SumDim(result, 0, false)
	}

	// Then dimensions the input held with size 1.
	for i, d := range target {
		if d == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(target) {
		result = backend.Reshape(result, target)
	}
	return result
}

// negate returns -grad.
func negate(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	switch grad.DType() {
	case tensor.Float32:
		return backend.MulScalar(grad, float32(-1))
	case tensor.Float64:
		return backend.MulScalar(grad, float64(-1))
	default:
		panic(fmt.Sprintf("negate: unsupported dtype %s", grad.DType()))
	}
}

// broadcastTo expands a gradient to a larger shape by adding it to zeros of
// the target shape, reusing the backend's broadcast machinery.
func broadcastTo(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}
	zeros, err := tensor.NewRaw(target, grad.DType(), grad.Device())
	if err != nil {
		panic(fmt.Sprintf("broadcastTo: %v", err))
	}
	return backend.Add(zeros, grad)
}

// fill creates a tensor of the given shape with every element set to v.
func fill(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, v float64) *tensor.RawTensor {
	t, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("fill: %v", err))
	}
	switch dtype {
	case tensor.Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case tensor.Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("fill: unsupported dtype %s", dtype))
	}
	return t
}
