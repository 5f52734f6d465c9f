package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	// Buffer is already zero-initialized.
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, one[T](), b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Eye creates an n×n identity matrix.
//
// This is the default positive mask of the contrastive loss: each sample is
// its own sole positive across views.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	data := t.Data()
	v := one[T]()
	for i := 0; i < n; i++ {
		data[i*n+i] = v
	}
	return t
}

// Randn creates a tensor with values drawn from the standard normal
// distribution. Only float types are supported.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		d := any(data).([]float32)
		for i := range d {
			d[i] = float32(rand.NormFloat64())
		}
	case float64:
		d := any(data).([]float64)
		for i := range d {
			d[i] = rand.NormFloat64()
		}
	default:
		panic("Randn: only float32 and float64 are supported")
	}
	return t
}

// one returns the multiplicative identity for T.
func one[T DType]() T {
	var dummy T
	var v any
	switch any(dummy).(type) {
	case float32:
		v = float32(1)
	case float64:
		v = float64(1)
	case int32:
		v = int32(1)
	case bool:
		v = true
	}
	return v.(T)
}
