package tensor

import "testing"

func TestNewRaw(t *testing.T) {
	r, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !r.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", r.Shape())
	}
	if r.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", r.DType())
	}
	if r.ByteSize() != 6*4 {
		t.Errorf("ByteSize() = %d, want 24", r.ByteSize())
	}
	for _, v := range r.AsFloat32() {
		if v != 0 {
			t.Error("NewRaw memory not zero-initialized")
			break
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw should reject zero dimension")
	}
}

func TestRawTypedViews(t *testing.T) {
	r, _ := NewRaw(Shape{3}, Float32, CPU)
	data := r.AsFloat32()
	data[0], data[1], data[2] = 1, 2, 3

	// The view writes through to the buffer.
	again := r.AsFloat32()
	if again[0] != 1 || again[1] != 2 || again[2] != 3 {
		t.Errorf("AsFloat32 view not shared: %v", again)
	}

	// Wrong dtype view panics.
	defer func() {
		if recover() == nil {
			t.Error("AsInt32 on a Float32 tensor should panic")
		}
	}()
	r.AsInt32()
}

func TestRawClone(t *testing.T) {
	r, _ := NewRaw(Shape{2}, Float32, CPU)
	r.AsFloat32()[0] = 42

	c := r.Clone()
	c.AsFloat32()[0] = 7

	if r.AsFloat32()[0] != 42 {
		t.Error("Clone() shares memory with the original")
	}
}

func TestRawWithShape(t *testing.T) {
	r, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	r.AsFloat32()[0] = 5

	v, err := r.WithShape(Shape{3, 2})
	if err != nil {
		t.Fatalf("WithShape failed: %v", err)
	}
	if !v.Shape().Equal(Shape{3, 2}) {
		t.Errorf("view shape = %v, want [3 2]", v.Shape())
	}
	if v.AsFloat32()[0] != 5 {
		t.Error("WithShape view does not share the buffer")
	}
	if v == r {
		t.Error("WithShape should return a distinct tensor value")
	}

	if _, err := r.WithShape(Shape{4}); err == nil {
		t.Error("WithShape should reject element count mismatch")
	}
}
