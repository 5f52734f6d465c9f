package autodiff_test

import (
	"math"
	"testing"

	"github.com/supcon-ml/supcon/internal/autodiff"
	"github.com/supcon-ml/supcon/internal/backend/cpu"
	"github.com/supcon-ml/supcon/internal/tensor"
)

type adBackend = *autodiff.Backend[*cpu.CPUBackend]

// scalarFn evaluates a tape-free scalar function of the input slice.
type scalarFn func(x []float32) float32

// numericalGradient computes central finite differences of f at x.
func numericalGradient(f scalarFn, x []float32, epsilon float32) []float32 {
	grad := make([]float32, len(x))
	probe := make([]float32, len(x))
	for i := range x {
		copy(probe, x)
		probe[i] = x[i] + epsilon
		plus := f(probe)
		probe[i] = x[i] - epsilon
		minus := f(probe)
		grad[i] = (plus - minus) / (2 * epsilon)
	}
	return grad
}

// checkGradients compares autodiff gradients against finite differences.
func checkGradients(t *testing.T, got, want []float32, tolerance float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("gradient length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		diff := float64(got[i] - want[i])
		if math.Abs(diff) > float64(tolerance) {
			t.Errorf("gradient[%d] = %f, numerical %f (diff %f)", i, got[i], want[i], diff)
		}
	}
}

// TestGradientCheck_ExpMul tests f(x) = sum(x * exp(x)).
func TestGradientCheck_ExpMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	xData := []float32{0.5, -0.3, 1.2, 0.0}

	backend.Tape().StartRecording()
	x, _ := tensor.FromSlice(xData, tensor.Shape{4}, backend)
	y := x.Mul(x.Exp()).Sum()
	grads := autodiff.Backward(y, backend)

	f := func(v []float32) float32 {
		var s float32
		for _, xi := range v {
			s += xi * float32(math.Exp(float64(xi)))
		}
		return s
	}
	numerical := numericalGradient(f, xData, 1e-3)

	checkGradients(t, grads[x.Raw()].AsFloat32(), numerical, 0.01)
}

// TestGradientCheck_LogSumExp tests the stabilized log-sum-exp pattern the
// loss is built from: f(x) = sum over rows of log(sum(exp(x - max(x)))).
func TestGradientCheck_LogSumExp(t *testing.T) {
	backend := autodiff.New(cpu.New())
	xData := []float32{1.0, 2.0, 0.5, -1.0, 0.0, 3.0}

	backend.Tape().StartRecording()
	x, _ := tensor.FromSlice(xData, tensor.Shape{2, 3}, backend)
	rowMax := x.MaxDim(1, true).Detach()
	y := x.Sub(rowMax).Exp().SumDim(1, true).Log().Sum()
	grads := autodiff.Backward(y, backend)

	// The detached max cancels analytically: d/dx_i = softmax(x)_i per row.
	f := func(v []float32) float32 {
		var total float64
		for r := 0; r < 2; r++ {
			row := v[r*3 : (r+1)*3]
			m := row[0]
			for _, xi := range row {
				if xi > m {
					m = xi
				}
			}
			var s float64
			for _, xi := range row {
				s += math.Exp(float64(xi - m))
			}
			total += math.Log(s) + float64(m)
		}
		return float32(total)
	}
	numerical := numericalGradient(f, xData, 1e-2)

	checkGradients(t, grads[x.Raw()].AsFloat32(), numerical, 0.01)
}

// TestGradientCheck_Division tests f(a, b) = sum(a / b).
func TestGradientCheck_Division(t *testing.T) {
	backend := autodiff.New(cpu.New())
	aData := []float32{1.0, 2.0, 3.0}
	bData := []float32{0.5, 2.0, 1.5}

	backend.Tape().StartRecording()
	a, _ := tensor.FromSlice(aData, tensor.Shape{3}, backend)
	b, _ := tensor.FromSlice(bData, tensor.Shape{3}, backend)
	y := a.Div(b).Sum()
	grads := autodiff.Backward(y, backend)

	// df/da_i = 1/b_i
	wantA := make([]float32, 3)
	for i := range wantA {
		wantA[i] = 1 / bData[i]
	}
	checkGradients(t, grads[a.Raw()].AsFloat32(), wantA, 1e-4)

	// df/db_i = -a_i/b_i²
	wantB := make([]float32, 3)
	for i := range wantB {
		wantB[i] = -aData[i] / (bData[i] * bData[i])
	}
	checkGradients(t, grads[b.Raw()].AsFloat32(), wantB, 1e-4)
}

// TestGradientCheck_MatMulChain tests f(A) = sum((A @ Aᵀ) / temp).
func TestGradientCheck_MatMulChain(t *testing.T) {
	backend := autodiff.New(cpu.New())
	aData := []float32{0.6, 0.8, -0.8, 0.6}

	backend.Tape().StartRecording()
	a, _ := tensor.FromSlice(aData, tensor.Shape{2, 2}, backend)
	y := a.MatMul(a.T()).DivScalar(float32(0.5)).Sum()
	grads := autodiff.Backward(y, backend)

	f := func(v []float32) float32 {
		var s float32
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				var dot float32
				for k := 0; k < 2; k++ {
					dot += v[i*2+k] * v[j*2+k]
				}
				s += dot / 0.5
			}
		}
		return s
	}
	numerical := numericalGradient(f, aData, 1e-3)

	checkGradients(t, grads[a.Raw()].AsFloat32(), numerical, 0.02)
}
