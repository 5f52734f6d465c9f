package autodiff_test

import (
	"testing"

	"github.com/supcon-ml/supcon/internal/autodiff"
	"github.com/supcon-ml/supcon/internal/backend/cpu"
	"github.com/supcon-ml/supcon/internal/tensor"
)

func TestBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

func TestBackend_Device(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("Tape should be recording after StartRecording()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

func TestTape_RecordsOnlyWhileRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)

	// Not recording: ops don't land on the tape.
	backend.Add(a.Raw(), b.Raw())
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d before recording, want 0", tape.NumOps())
	}

	tape.StartRecording()
	backend.Add(a.Raw(), b.Raw())
	if tape.NumOps() != 1 {
		t.Errorf("NumOps() = %d after one op, want 1", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d after Clear, want 0", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Clear should preserve recording state")
	}
}

// The row-maximum stabilization must stay off the tape.
func TestMaxDim_NotRecorded(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 5, 2, 8}, tensor.Shape{2, 2}, backend)
	backend.MaxDim(x.Raw(), 1, true)

	if tape.NumOps() != 0 {
		t.Errorf("MaxDim was recorded on the tape (NumOps = %d)", tape.NumOps())
	}
}

func TestBackward_Add(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	y, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	z := x.Add(y)

	grads := autodiff.Backward(z, backend)

	for _, in := range []*tensor.RawTensor{x.Raw(), y.Raw()} {
		g, ok := grads[in]
		if !ok {
			t.Fatal("missing gradient for input")
		}
		for _, v := range g.AsFloat32() {
			if v != 1 {
				t.Errorf("Add gradient = %v, want all ones", g.AsFloat32())
				break
			}
		}
	}
}

func TestBackward_Mul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{2, 3}, tensor.Shape{2}, backend)
	y, _ := tensor.FromSlice([]float32{5, 7}, tensor.Shape{2}, backend)
	z := x.Mul(y)

	grads := autodiff.Backward(z, backend)

	// dz/dx = y, dz/dy = x
	gx := grads[x.Raw()].AsFloat32()
	gy := grads[y.Raw()].AsFloat32()
	if gx[0] != 5 || gx[1] != 7 {
		t.Errorf("dz/dx = %v, want [5 7]", gx)
	}
	if gy[0] != 2 || gy[1] != 3 {
		t.Errorf("dz/dy = %v, want [2 3]", gy)
	}
}

func TestBackward_BroadcastReducesGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	row, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{3}, backend)
	z := x.Add(row)

	grads := autodiff.Backward(z, backend)

	g := grads[row.Raw()]
	if !g.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("broadcast gradient shape = %v, want [3]", g.Shape())
	}
	// Each row element fed 2 output elements.
	for _, v := range g.AsFloat32() {
		if v != 2 {
			t.Errorf("broadcast gradient = %v, want [2 2 2]", g.AsFloat32())
			break
		}
	}
}

func TestBackward_MatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	c := a.MatMul(b)

	grads := autodiff.Backward(c, backend)

	// With seed G = ones: dA = G @ Bᵀ, dB = Aᵀ @ G.
	ga := grads[a.Raw()].AsFloat32()
	wantA := []float32{11, 15, 11, 15}
	for i := range wantA {
		if ga[i] != wantA[i] {
			t.Errorf("dA = %v, want %v", ga, wantA)
			break
		}
	}

	gb := grads[b.Raw()].AsFloat32()
	wantB := []float32{4, 4, 6, 6}
	for i := range wantB {
		if gb[i] != wantB[i] {
			t.Errorf("dB = %v, want %v", gb, wantB)
			break
		}
	}
}

func TestBackward_Sum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	s := x.Sum()

	grads := autodiff.Backward(s, backend)

	g := grads[x.Raw()]
	if !g.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Sum gradient shape = %v, want [2 2]", g.Shape())
	}
	for _, v := range g.AsFloat32() {
		if v != 1 {
			t.Errorf("Sum gradient = %v, want all ones", g.AsFloat32())
			break
		}
	}
}

func TestBackward_SumDim(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	s := x.SumDim(1, false) // shape [2]

	grads := autodiff.Backward(s, backend)

	g := grads[x.Raw()]
	if !g.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("SumDim gradient shape = %v, want [2 3]", g.Shape())
	}
	for _, v := range g.AsFloat32() {
		if v != 1 {
			t.Errorf("SumDim gradient = %v, want all ones", g.AsFloat32())
			break
		}
	}
}

func TestBackward_AccumulatesSharedInput(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	z := x.Add(x) // z = 2x

	grads := autodiff.Backward(z, backend)

	g := grads[x.Raw()].AsFloat32()
	for _, v := range g {
		if v != 2 {
			t.Errorf("shared-input gradient = %v, want [2 2]", g)
			break
		}
	}
}

func TestBackward_DetachBlocksGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 5, 2, 8}, tensor.Shape{2, 2}, backend)

	// Stabilized logits: x - max(x, dim=1). The subtraction is recorded but
	// the max itself is a constant leaf, so x only receives the direct path.
	rowMax := x.MaxDim(1, true).Detach()
	z := x.Sub(rowMax).Sum()

	grads := autodiff.Backward(z, backend)

	g := grads[x.Raw()].AsFloat32()
	for _, v := range g {
		if v != 1 {
			t.Errorf("gradient through detached max = %v, want all ones", g)
			break
		}
	}
	if _, ok := grads[rowMax.Raw()]; !ok {
		// The detached leaf appears as a Sub input; its gradient exists but
		// must not flow further back. Presence alone is fine.
		t.Log("no gradient entry for detached max (acceptable)")
	}
}

func TestBackward_Repeat(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, backend)
	r := x.Repeat(0, 3) // [3, 2]
	s := r.Sum()

	grads := autodiff.Backward(s, backend)

	g := grads[x.Raw()]
	if !g.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("Repeat gradient shape = %v, want [1 2]", g.Shape())
	}
	// Each source element fed 3 tiles.
	for _, v := range g.AsFloat32() {
		if v != 3 {
			t.Errorf("Repeat gradient = %v, want [3 3]", g.AsFloat32())
			break
		}
	}
}

func TestBackward_Cat(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{1, 2}, backend)

	c := tensor.Cat([]*tensor.Tensor[float32, adBackend]{a, b}, 0)
	s := c.MulScalar(float32(2)).Sum()

	grads := autodiff.Backward(s, backend)

	for _, in := range []*tensor.RawTensor{a.Raw(), b.Raw()} {
		g, ok := grads[in]
		if !ok {
			t.Fatal("missing gradient for Cat input")
		}
		if !g.Shape().Equal(tensor.Shape{1, 2}) {
			t.Fatalf("Cat gradient shape = %v, want [1 2]", g.Shape())
		}
		for _, v := range g.AsFloat32() {
			if v != 2 {
				t.Errorf("Cat gradient = %v, want [2 2]", g.AsFloat32())
				break
			}
		}
	}
}

func TestBackward_TransposeReshape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// The view-flattening pattern: [B, V, D] -> [V*B, D].
	x, _ := tensor.FromSlice([]float32{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2}, backend)
	flat := x.Transpose(1, 0, 2).Reshape(4, 2)
	s := flat.Sum()

	grads := autodiff.Backward(s, backend)

	g := grads[x.Raw()]
	if !g.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("gradient shape = %v, want [2 2 2]", g.Shape())
	}
	for _, v := range g.AsFloat32() {
		if v != 1 {
			t.Errorf("gradient = %v, want all ones", g.AsFloat32())
			break
		}
	}
}

func TestBackward_PanicsOnEmptyTape(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Backward on an empty tape should panic")
		}
	}()
	autodiff.Backward(x, backend)
}
