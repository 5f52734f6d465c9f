// Package cpu implements the CPU backend. Contiguous element-wise kernels
// use vek SIMD slice routines; matrix multiplication goes through gonum
// BLAS; broadcast paths fall back to stride loops.
package cpu

import (
	"fmt"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"

	"github.com/supcon-ml/supcon/internal/parallel"
	"github.com/supcon-ml/supcon/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b,
		vek32.Add_Into, vek.Add_Into,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y },
	)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		vek32.Sub_Into, vek.Sub_Into,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y },
	)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		vek32.Mul_Into, vek.Mul_Into,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y },
	)
}

// Div performs element-wise division with broadcasting.
//
// Division by zero follows IEEE 754: the result is ±Inf or NaN. The
// contrastive loss relies on this for zero-positive rows.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		vek32.Div_Into, vek.Div_Into,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y },
	)
}

// binaryOp dispatches an element-wise binary operation: the vek SIMD kernel
// on the contiguous same-shape path, a stride loop when broadcasting.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	vecF32 func(dst, x, y []float32) []float32,
	vecF64 func(dst, x, y []float64) []float64,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		if !needsBroadcast {
			vecF32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
		} else {
			broadcastBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(),
				outShape, a.Shape(), b.Shape(), f32, cpu.parallel)
		}
	case tensor.Float64:
		if !needsBroadcast {
			vecF64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
		} else {
			broadcastBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(),
				outShape, a.Shape(), b.Shape(), f64, cpu.parallel)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, a.DType()))
	}

	return result
}

// broadcastBinary evaluates dst[i] = f(a[ia], b[ib]) where ia and ib follow
// NumPy broadcast index mapping.
func broadcastBinary[T float32 | float64](
	dst, a, b []T,
	outShape, aShape, bShape tensor.Shape,
	f func(T, T) T,
	cfg parallel.Config,
) {
	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()

	parallel.For(len(dst), func(i int) {
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
		dst[i] = f(a[ia], b[ib])
	}, cfg)
}
