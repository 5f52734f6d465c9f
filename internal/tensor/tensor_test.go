package tensor

import (
	"strings"
	"testing"
)

// MockBackend satisfies Backend for tests of tensor plumbing that never
// reach real arithmetic. Only Reshape is functional.
type MockBackend struct{}

func NewMockBackend() *MockBackend { return &MockBackend{} }

func (m *MockBackend) Add(a, b *RawTensor) *RawTensor    { panic("not implemented") }
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor    { panic("not implemented") }
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor    { panic("not implemented") }
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor    { panic("not implemented") }
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor { panic("not implemented") }

func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	v, err := t.WithShape(newShape)
	if err != nil {
		panic(err)
	}
	return v
}

func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor { panic("not implemented") }

func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor { panic("not implemented") }
func (m *MockBackend) SubScalar(x *RawTensor, scalar any) *RawTensor { panic("not implemented") }
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor { panic("not implemented") }
func (m *MockBackend) DivScalar(x *RawTensor, scalar any) *RawTensor { panic("not implemented") }

func (m *MockBackend) Exp(x *RawTensor) *RawTensor { panic("not implemented") }
func (m *MockBackend) Log(x *RawTensor) *RawTensor { panic("not implemented") }

func (m *MockBackend) Sum(x *RawTensor) *RawTensor                          { panic("not implemented") }
func (m *MockBackend) SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor { panic("not implemented") }
func (m *MockBackend) MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor { panic("not implemented") }

func (m *MockBackend) Cat(tensors []*RawTensor, dim int) *RawTensor   { panic("not implemented") }
func (m *MockBackend) Repeat(x *RawTensor, dim, times int) *RawTensor { panic("not implemented") }

func (m *MockBackend) Equal(a, b *RawTensor) *RawTensor           { panic("not implemented") }
func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor { panic("not implemented") }

func (m *MockBackend) Name() string   { return "Mock" }
func (m *MockBackend) Device() Device { return CPU }

var _ Backend = (*MockBackend)(nil)

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if !x.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", x.Shape())
	}
	if x.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", x.DType())
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %v, want 6", x.At(1, 2))
	}
}

func TestFromSliceShapeMismatch(t *testing.T) {
	backend := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("FromSlice should reject element count mismatch")
	}
}

func TestFromSliceInt32(t *testing.T) {
	backend := NewMockBackend()
	labels, err := FromSlice([]int32{0, 0, 1, 1}, Shape{4}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if labels.DType() != Int32 {
		t.Errorf("DType() = %v, want Int32", labels.DType())
	}
	if labels.At(2) != 1 {
		t.Errorf("At(2) = %v, want 1", labels.At(2))
	}
}

func TestAtSet(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 2}, backend)

	x.Set(3.5, 1, 0)
	if x.At(1, 0) != 3.5 {
		t.Errorf("At(1, 0) = %v, want 3.5", x.At(1, 0))
	}
	if x.Data()[2] != 3.5 {
		t.Error("Set did not write through the row-major layout")
	}
}

func TestItem(t *testing.T) {
	backend := NewMockBackend()

	s, _ := FromSlice([]float32{2.5}, Shape{1}, backend)
	if s.Item() != 2.5 {
		t.Errorf("Item() = %v, want 2.5", s.Item())
	}

	defer func() {
		if recover() == nil {
			t.Error("Item() on a multi-element tensor should panic")
		}
	}()
	m := Zeros[float32](Shape{2, 2}, backend)
	m.Item()
}

func TestDetachSharesData(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)
	x.RequireGrad()

	d := x.Detach()
	if d.Raw() != x.Raw() {
		t.Error("Detach() should share the raw tensor")
	}
	if d.RequiresGrad() {
		t.Error("Detach() should drop gradient tracking")
	}
}

func TestCloneIndependent(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)

	c := x.Clone()
	c.Data()[0] = 99
	if x.Data()[0] != 1 {
		t.Error("Clone() shares memory with the original")
	}
}

func TestGradAccessors(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2}, backend)

	if x.Grad() != nil {
		t.Error("fresh tensor should have nil grad")
	}
	g := Ones[float32](Shape{2}, backend)
	x.SetGrad(g)
	if x.Grad() != g {
		t.Error("SetGrad/Grad roundtrip failed")
	}
}

func TestTensorString(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 3}, backend)
	s := x.String()
	if !strings.Contains(s, "float32") || !strings.Contains(s, "[2 3]") {
		t.Errorf("String() = %q, want dtype and shape mentioned", s)
	}
}
