package cpu

import (
	"fmt"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"

	"github.com/supcon-ml/supcon/internal/parallel"
	"github.com/supcon-ml/supcon/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = vek32.Sum(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = vek.Sum(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

// SumDim sums tensor elements along the specified dimension.
//
// dim supports negative indexing (-1 = last dimension). keepDim keeps the
// reduced dimension with size 1 instead of removing it.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim,
		vek32.Sum, vek.Sum,
		func(acc, v float32) float32 { return acc + v },
		func(acc, v float64) float64 { return acc + v },
		false,
	)
}

// MaxDim takes the maximum of tensor elements along the specified dimension.
//
// The contrastive loss uses this (detached) for log-softmax stabilization.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("maxdim", x, dim, keepDim,
		vek32.Max, vek.Max,
		func(acc, v float32) float32 {
			if v > acc {
				return v
			}
			return acc
		},
		func(acc, v float64) float64 {
			if v > acc {
				return v
			}
			return acc
		},
		true,
	)
}

// reduceDim implements a row-wise reduction along one dimension. When the
// reduced dimension is innermost the rows are contiguous and the vek kernel
// applies; otherwise a stride loop folds element-wise.
func (cpu *CPUBackend) reduceDim(
	name string,
	x *tensor.RawTensor,
	dim int,
	keepDim bool,
	vecF32 func([]float32) float32,
	vecF64 func([]float64) float64,
	foldF32 func(acc, v float32) float32,
	foldF64 func(acc, v float64) float64,
	initFromFirst bool,
) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", name, dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i, d := range shape {
			if i != dim {
				outShape = append(outShape, d)
			}
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	outer, dimSize, inner := 1, shape[dim], 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		foldRows(x.AsFloat32(), result.AsFloat32(), outer, dimSize, inner, vecF32, foldF32, initFromFirst, cpu.parallel)
	case tensor.Float64:
		foldRows(x.AsFloat64(), result.AsFloat64(), outer, dimSize, inner, vecF64, foldF64, initFromFirst, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}

	return result
}

func foldRows[T float32 | float64](
	src, dst []T,
	outer, dimSize, inner int,
	vec func([]T) T,
	fold func(acc, v T) T,
	initFromFirst bool,
	cfg parallel.Config,
) {
	if inner == 1 {
		// Reduced dimension is innermost: contiguous rows, SIMD kernel.
		parallel.ForRows(outer, dimSize, func(o int) {
			dst[o] = vec(src[o*dimSize : (o+1)*dimSize])
		}, cfg)
		return
	}

	parallel.ForRows(outer, dimSize*inner, func(o int) {
		base := o * dimSize * inner
		out := dst[o*inner : (o+1)*inner]
		copy(out, src[base:base+inner])
		if !initFromFirst {
			for i := range out {
				out[i] = fold(0, out[i])
			}
		}
		for d := 1; d < dimSize; d++ {
			row := src[base+d*inner : base+(d+1)*inner]
			for i, v := range row {
				out[i] = fold(out[i], v)
			}
		}
	}, cfg)
}
