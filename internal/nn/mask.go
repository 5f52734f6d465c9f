package nn

import "github.com/supcon-ml/supcon/internal/tensor"

// Positive-mask construction. Masks are constants of the computation: they
// are built through the backend where a primitive fits (broadcast equality
// for label masks) but never need gradients.

// identityMask returns the [batch, batch] identity matrix: each sample is
// its own sole positive across views (the unsupervised SimCLR setting).
func identityMask[B tensor.Backend](batchSize int, b B) *tensor.Tensor[float32, B] {
	return tensor.Eye[float32](batchSize, b)
}

// labelMask returns the [batch, batch] matrix with mask[i,j] = 1 when
// labels[i] == labels[j], via broadcast comparison of a column against a
// row view of the labels.
func labelMask[B tensor.Backend](labels *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	n := labels.NumElements()
	col := labels.Reshape(n, 1)
	row := labels.Reshape(1, n)
	eq := tensor.Equal(col, row)
	return tensor.CastTo[float32](eq, tensor.Float32)
}

// selfContrastExclusion returns an [anchors, contrasts] matrix of ones with
// a zero at (i, i) for every anchor: anchor i occupies index i of the
// contrast set, and a sample must not count as its own positive.
func selfContrastExclusion[B tensor.Backend](anchors, contrasts int, b B) *tensor.Tensor[float32, B] {
	m := tensor.Ones[float32](tensor.Shape{anchors, contrasts}, b)
	data := m.Data()
	for i := 0; i < anchors; i++ {
		data[i*contrasts+i] = 0
	}
	return m
}

// positiveCounts returns, per anchor row, the number of positives that
// survive tiling and self-contrast exclusion, computed directly from the
// [batch, batch] mask without materializing the tiled tensors.
//
// Anchor i corresponds to batch sample i % batchSize, its positives appear
// once per view, and the self-contrast entry removes the diagonal value.
func positiveCounts(mask []float32, batchSize, nViews, anchorCount int) []float32 {
	rowSums := make([]float32, batchSize)
	for b := 0; b < batchSize; b++ {
		var s float32
		for j := 0; j < batchSize; j++ {
			s += mask[b*batchSize+j]
		}
		rowSums[b] = s
	}

	counts := make([]float32, batchSize*anchorCount)
	for i := range counts {
		b := i % batchSize
		counts[i] = rowSums[b]*float32(nViews) - mask[b*batchSize+b]
	}
	return counts
}
