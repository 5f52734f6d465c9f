package cpu

import (
	"testing"

	"github.com/supcon-ml/supcon/internal/tensor"
)

func TestCPUBackend_Sum(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.Sum(x)

	if !result.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("Sum shape = %v, want [1]", result.Shape())
	}
	if result.AsFloat32()[0] != 21 {
		t.Errorf("Sum = %v, want 21", result.AsFloat32()[0])
	}
}

func TestCPUBackend_SumDim(t *testing.T) {
	backend := New()

	// [1 2 3; 4 5 6]
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	t.Run("LastDimKeep", func(t *testing.T) {
		result := backend.SumDim(x, 1, true)

		if !result.Shape().Equal(tensor.Shape{2, 1}) {
			t.Fatalf("shape = %v, want [2 1]", result.Shape())
		}
		expected := []float32{6, 15}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("SumDim failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("LastDimDrop", func(t *testing.T) {
		result := backend.SumDim(x, 1, false)

		if !result.Shape().Equal(tensor.Shape{2}) {
			t.Fatalf("shape = %v, want [2]", result.Shape())
		}
	})

	t.Run("FirstDim", func(t *testing.T) {
		result := backend.SumDim(x, 0, false)

		expected := []float32{5, 7, 9}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("SumDim(0) failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("NegativeDim", func(t *testing.T) {
		result := backend.SumDim(x, -1, true)

		expected := []float32{6, 15}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("SumDim(-1) failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("MiddleDim3D", func(t *testing.T) {
		// [2, 2, 2]: [[[1 2][3 4]][[5 6][7 8]]]
		y := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})

		result := backend.SumDim(y, 1, false)

		if !result.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("shape = %v, want [2 2]", result.Shape())
		}
		expected := []float32{4, 6, 12, 14}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("SumDim(1) on 3D failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("SumDim with out-of-range dim should panic")
			}
		}()
		backend.SumDim(x, 2, false)
	})
}

func TestCPUBackend_MaxDim(t *testing.T) {
	backend := New()

	// [3 1 2; -5 -7 -6]
	x := rawFromFloat32(t, []float32{3, 1, 2, -5, -7, -6}, tensor.Shape{2, 3})

	t.Run("RowMax", func(t *testing.T) {
		result := backend.MaxDim(x, 1, true)

		if !result.Shape().Equal(tensor.Shape{2, 1}) {
			t.Fatalf("shape = %v, want [2 1]", result.Shape())
		}
		expected := []float32{3, -5}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MaxDim failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("ColumnMax", func(t *testing.T) {
		result := backend.MaxDim(x, 0, false)

		expected := []float32{3, 1, 2}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MaxDim(0) failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})
}

func TestCPUBackend_SumFloat64(t *testing.T) {
	backend := New()

	x, _ := tensor.NewRaw(tensor.Shape{4}, tensor.Float64, tensor.CPU)
	copy(x.AsFloat64(), []float64{0.1, 0.2, 0.3, 0.4})

	result := backend.Sum(x)

	if got := result.AsFloat64()[0]; got < 0.9999 || got > 1.0001 {
		t.Errorf("Sum float64 = %v, want 1.0", got)
	}
}
