// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/supcon-ml/supcon/internal/tensor"
)

// Type aliases for the public API.

// Tensor is a type-safe tensor parameterized by element type and backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// RawTensor is the untyped tensor representation backends operate on.
type RawTensor = tensor.RawTensor

// Shape describes tensor dimensions.
type Shape = tensor.Shape

// DataType is the runtime element type of a RawTensor.
type DataType = tensor.DataType

// Device identifies where tensor data lives.
type Device = tensor.Device

// DType is the compile-time constraint on tensor element types.
type DType = tensor.DType

// Data type constants.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Bool    = tensor.Bool
)

// Device constants.
const (
	CPU = tensor.CPU
	GPU = tensor.GPU
)

// Creation functions

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	identity := tensor.Eye[float32](3, backend)  // 3x3 identity matrix
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T, B](n, b)
}

// Randn creates a tensor with values drawn from the standard normal
// distribution N(0, 1).
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions
// like Zeros, Ones, or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a new raw tensor with the given shape, dtype, and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Manipulation functions

// Cat concatenates tensors along a dimension.
//
// Example:
//
//	a := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	b := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	c := tensor.Cat([]*tensor.Tensor[float32, *cpu.Backend]{a, b}, 0)  // [4, 3]
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	return tensor.Cat(tensors, dim)
}

// Equal compares two tensors element-wise with broadcasting, returning a
// boolean mask.
func Equal[T DType, B Backend](a, b *Tensor[T, B]) *Tensor[bool, B] {
	return tensor.Equal(a, b)
}

// CastTo converts a tensor to the element type U.
//
// Example:
//
//	mask := tensor.Equal(labels.Reshape(n, 1), labels.Reshape(1, n))
//	posMask := tensor.CastTo[float32](mask, tensor.Float32)
func CastTo[U, T DType, B Backend](t *Tensor[T, B], dtype DataType) *Tensor[U, B] {
	return tensor.CastTo[U](t, dtype)
}

// Utility functions

// BroadcastShapes computes the broadcast shape of two shapes following
// NumPy broadcasting rules. The flag reports whether either operand needs
// broadcasting to reach the result shape.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
