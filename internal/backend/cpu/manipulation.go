package cpu

import (
	"fmt"

	"github.com/supcon-ml/supcon/internal/tensor"
)

// Reshape returns a view of the tensor under a new shape.
// The element count must match. The buffer is shared, not copied.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := x.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions. With no axes the dimension
// order is reversed (standard 2D transpose).
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	elemSize := x.DType().Size()
	srcData := x.Data()
	dstData := result.Data()

	n := shape.NumElements()
	for i := 0; i < n; i++ {
		// Decompose the output index and gather from the permuted source.
		srcIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * srcStrides[axes[d]]
		}
		copy(dstData[i*elemSize:(i+1)*elemSize], srcData[srcIdx*elemSize:(srcIdx+1)*elemSize])
	}

	return result
}

// Cat concatenates tensors along the given dimension. All inputs must share
// dtype and every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}

	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		s := t.Shape()
		if len(s) != ndim || t.DType() != first.DType() {
			panic("cat: tensors must share rank and dtype")
		}
		for d := 0; d < ndim; d++ {
			if d != dim && s[d] != outShape[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dimension %d: %v vs %v", d, first.Shape(), s))
			}
		}
		outShape[dim] += s[dim]
	}

	result, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Each input contributes contiguous blocks of dimSize*inner elements,
	// interleaved along the outer dimensions.
	elemSize := first.DType().Size()
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= outShape[i]
	}

	dstData := result.Data()
	offset := 0 // block offset along dim, in elements of dimSize*inner
	for _, t := range tensors {
		dimSize := t.Shape()[dim]
		block := dimSize * inner * elemSize
		srcData := t.Data()
		for o := 0; o < outer; o++ {
			dst := (o*outShape[dim] + offset) * inner * elemSize
			copy(dstData[dst:dst+block], srcData[o*block:(o+1)*block])
		}
		offset += dimSize
	}

	return result
}

// Repeat tiles the tensor `times` times along the given dimension
// (block repetition, torch.Tensor.repeat semantics).
func (cpu *CPUBackend) Repeat(x *tensor.RawTensor, dim, times int) *tensor.RawTensor {
	if times <= 0 {
		panic(fmt.Sprintf("repeat: times must be positive, got %d", times))
	}
	if times == 1 {
		return x.Clone()
	}

	tiles := make([]*tensor.RawTensor, times)
	for i := range tiles {
		tiles[i] = x
	}
	return cpu.Cat(tiles, dim)
}

// Equal performs broadcasting element-wise comparison, returning a Bool
// tensor.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("equal: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("equal: %v", err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("equal: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		compareBroadcast(result.AsBool(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape())
	case tensor.Float64:
		compareBroadcast(result.AsBool(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape())
	case tensor.Int32:
		compareBroadcast(result.AsBool(), a.AsInt32(), b.AsInt32(), outShape, a.Shape(), b.Shape())
	default:
		panic(fmt.Sprintf("equal: unsupported dtype %s", a.DType()))
	}

	return result
}

func compareBroadcast[T float32 | float64 | int32](
	dst []bool,
	a, b []T,
	outShape, aShape, bShape tensor.Shape,
) {
	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()

	for i := range dst {
		ia, ib := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]

			if ad := d - (len(outShape) - len(aShape)); ad >= 0 {
				c := coord
				if aShape[ad] == 1 {
					c = 0
				}
				ia += c * aStrides[ad]
			}
			if bd := d - (len(outShape) - len(bShape)); bd >= 0 {
				c := coord
				if bShape[bd] == 1 {
					c = 0
				}
				ib += c * bStrides[bd]
			}
		}
		dst[i] = a[ia] == b[ib]
	}
}

// Cast converts a tensor's elements to the target data type.
// Bool casts to 0/1; float conversions truncate per Go conversion rules.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	switch {
	case x.DType() == tensor.Bool && dtype == tensor.Float32:
		src, dst := x.AsBool(), result.AsFloat32()
		for i, v := range src {
			if v {
				dst[i] = 1
			}
		}
	case x.DType() == tensor.Bool && dtype == tensor.Float64:
		src, dst := x.AsBool(), result.AsFloat64()
		for i, v := range src {
			if v {
				dst[i] = 1
			}
		}
	case x.DType() == tensor.Int32 && dtype == tensor.Float32:
		src, dst := x.AsInt32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case x.DType() == tensor.Float32 && dtype == tensor.Float64:
		src, dst := x.AsFloat32(), result.AsFloat64()
		for i, v := range src {
			dst[i] = float64(v)
		}
	case x.DType() == tensor.Float64 && dtype == tensor.Float32:
		src, dst := x.AsFloat64(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported conversion %s -> %s", x.DType(), dtype))
	}

	return result
}
