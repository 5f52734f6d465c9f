// Package nn implements the supervised contrastive loss and its
// configuration.
package nn

import (
	"github.com/supcon-ml/supcon/internal/tensor"
)

// ContrastMode selects which feature vectors act as anchors.
type ContrastMode int

const (
	// ContrastModeAll uses every view of every sample as an anchor.
	ContrastModeAll ContrastMode = iota
	// ContrastModeOne uses only the first view of each sample as an anchor.
	ContrastModeOne
)

// String returns a human-readable mode name.
func (m ContrastMode) String() string {
	switch m {
	case ContrastModeAll:
		return "all"
	case ContrastModeOne:
		return "one"
	default:
		return "unknown"
	}
}

// ZeroPositivesPolicy controls what happens when an anchor row has no
// positives left after self-contrast exclusion (for example a single view
// with the identity mask).
type ZeroPositivesPolicy int

const (
	// ZeroPositivesPropagate divides by the zero positive count, producing
	// non-finite values that flow into the mean. This matches the reference
	// numeric behavior and keeps such rows maskable downstream.
	ZeroPositivesPropagate ZeroPositivesPolicy = iota
	// ZeroPositivesError makes Forward return a ShapeError before any
	// non-finite value is produced.
	ZeroPositivesError
)

// ContrastiveConfig is the immutable configuration of a ContrastiveLoss.
type ContrastiveConfig struct {
	// Temperature scales the similarity logits; lower values sharpen the
	// distribution. Must be > 0.
	Temperature float32
	// ContrastMode selects the anchor set.
	ContrastMode ContrastMode
	// BaseTemperature rescales the final loss magnitude independently of
	// Temperature. Must be > 0.
	BaseTemperature float32
	// ZeroPositives selects the zero-positive-row behavior.
	ZeroPositives ZeroPositivesPolicy
}

// DefaultContrastiveConfig returns the configuration used in the SupCon
// paper: temperature 0.07, all views as anchors.
func DefaultContrastiveConfig() ContrastiveConfig {
	return ContrastiveConfig{
		Temperature:     0.07,
		ContrastMode:    ContrastModeAll,
		BaseTemperature: 0.07,
		ZeroPositives:   ZeroPositivesPropagate,
	}
}

// ContrastiveLoss computes the supervised contrastive (SupCon) loss.
//
// Given a batch of multi-view embeddings it pulls together embeddings of
// the same class (or views of the same sample) and pushes apart the rest,
// through a temperature-scaled log-softmax over pairwise dot products.
//
// The loss object holds only read-only configuration; Forward is a pure
// function of its inputs and is safe to call concurrently.
//
// Example:
//
//	criterion, _ := nn.NewContrastiveLoss(nn.DefaultContrastiveConfig(), backend)
//	loss, err := criterion.Forward(features, labels, nil)
type ContrastiveLoss[B tensor.Backend] struct {
	cfg     ContrastiveConfig
	backend B
}

// NewContrastiveLoss creates a contrastive loss with the given
// configuration. Returns a ConfigError for non-positive temperatures.
func NewContrastiveLoss[B tensor.Backend](cfg ContrastiveConfig, backend B) (*ContrastiveLoss[B], error) {
	if cfg.Temperature <= 0 {
		return nil, configErrorf("ContrastiveLoss", "temperature must be > 0, got %v", cfg.Temperature)
	}
	if cfg.BaseTemperature <= 0 {
		return nil, configErrorf("ContrastiveLoss", "base temperature must be > 0, got %v", cfg.BaseTemperature)
	}
	return &ContrastiveLoss[B]{cfg: cfg, backend: backend}, nil
}

// NewSimCLRLoss creates the unsupervised special case: identity positive
// mask (each sample's positives are exactly its other views), all views as
// anchors. Call Forward with nil labels and nil mask.
func NewSimCLRLoss[B tensor.Backend](temperature float32, backend B) (*ContrastiveLoss[B], error) {
	cfg := DefaultContrastiveConfig()
	cfg.Temperature = temperature
	cfg.BaseTemperature = temperature
	return NewContrastiveLoss(cfg, backend)
}

// Config returns the loss configuration.
func (c *ContrastiveLoss[B]) Config() ContrastiveConfig {
	return c.cfg
}

// Forward computes the loss for a batch of features.
//
// Parameters:
//   - features: [batchSize, nViews, embeddingDim] embeddings (rank > 3 is
//     flattened after the view axis). Typically projector-network outputs.
//   - labels: optional [batchSize] class ids.
//   - mask: optional [batchSize, batchSize] positive mask, mask[i,j] = 1
//     when sample j is a positive for anchor i (may be asymmetric).
//
// At most one of labels and mask may be set; with neither, each sample is
// its own sole positive across views (SimCLR).
//
// Returns a single-element tensor. All input validation happens before any
// tensor arithmetic, so an error never leaves partially computed state.
// Backpropagation works when the backend records a gradient tape; the
// row-maximum stabilization is detached as required.
func (c *ContrastiveLoss[B]) Forward(
	features *tensor.Tensor[float32, B],
	labels *tensor.Tensor[int32, B],
	mask *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], error) {
	const op = "ContrastiveLoss.Forward"

	shape := features.Shape()
	if len(shape) < 3 {
		return nil, shapeErrorf(op, "features must have rank >= 3 [batch, views, dim], got shape %v", shape)
	}
	if labels != nil && mask != nil {
		return nil, configErrorf(op, "cannot define both labels and mask")
	}

	batchSize, nViews := shape[0], shape[1]

	var anchorCount int
	switch c.cfg.ContrastMode {
	case ContrastModeOne:
		anchorCount = 1
	case ContrastModeAll:
		anchorCount = nViews
	default:
		return nil, configErrorf(op, "unknown contrast mode %d", int(c.cfg.ContrastMode))
	}

	switch {
	case labels != nil:
		ls := labels.Shape()
		if labels.NumElements() != batchSize || len(ls) > 1 {
			return nil, shapeErrorf(op, "labels must have shape [%d], got %v", batchSize, ls)
		}
	case mask != nil:
		if !mask.Shape().Equal(tensor.Shape{batchSize, batchSize}) {
			return nil, shapeErrorf(op, "mask must have shape [%d, %d], got %v", batchSize, batchSize, mask.Shape())
		}
	}

	// Positive mask over the un-tiled batch.
	var posMask *tensor.Tensor[float32, B]
	switch {
	case labels != nil:
		posMask = labelMask(labels)
	case mask != nil:
		posMask = mask
	default:
		posMask = identityMask(batchSize, c.backend)
	}

	if c.cfg.ZeroPositives == ZeroPositivesError {
		for i, n := range positiveCounts(posMask.Data(), batchSize, nViews, anchorCount) {
			if n == 0 {
				return nil, shapeErrorf(op, "anchor %d has no positives after self-contrast exclusion", i)
			}
		}
	}

	// Flatten trailing dimensions beyond the view axis.
	if len(shape) > 3 {
		embDim := 1
		for _, d := range shape[2:] {
			embDim *= d
		}
		features = features.Reshape(batchSize, nViews, embDim)
	}
	embDim := features.Shape()[2]

	// Concatenate views along the batch axis: contrast[v*batch+b] is view v
	// of sample b, shape [batch*views, dim].
	contrast := features.Transpose(1, 0, 2).Reshape(batchSize*nViews, embDim)

	anchors := contrast
	if c.cfg.ContrastMode == ContrastModeOne {
		anchors = firstViewRows(contrast, batchSize)
	}
	numAnchors := batchSize * anchorCount

	// Temperature-scaled similarity logits, stabilized per row by the
	// detached maximum. The subtraction cancels in the log-softmax and only
	// guards exp against overflow.
	logits := anchors.MatMul(contrast.T()).DivScalar(c.cfg.Temperature)
	rowMax := logits.MaxDim(1, true).Detach()
	logits = logits.Sub(rowMax)

	// Tile the positive mask over anchors and views, and zero each anchor's
	// own contrast entry.
	exclusion := selfContrastExclusion(numAnchors, batchSize*nViews, c.backend)
	tiled := posMask.Repeat(0, anchorCount).Repeat(1, nViews).Mul(exclusion)

	// Masked log-softmax: the denominator excludes self-similarity.
	denom := logits.Exp().Mul(exclusion).SumDim(1, true).Log()
	logProb := logits.Sub(denom)

	// Mean log-probability over positives. A zero positive count divides by
	// zero here under the propagate policy.
	posCount := tiled.SumDim(1, true)
	meanLogProbPos := tiled.Mul(logProb).SumDim(1, true).Div(posCount)

	scale := -c.cfg.Temperature / c.cfg.BaseTemperature
	loss := meanLogProbPos.MulScalar(scale).
		Reshape(anchorCount, batchSize).
		Sum().
		DivScalar(float32(numAnchors))

	return loss, nil
}

// firstViewRows selects the first batchSize rows of the contrast matrix
// (the first view of every sample) by multiplying with a constant [batch,
// batch*views] selection matrix. Expressing the slice as a matmul keeps it
// on the gradient tape without a dedicated gather primitive.
func firstViewRows[B tensor.Backend](contrast *tensor.Tensor[float32, B], batchSize int) *tensor.Tensor[float32, B] {
	rows := contrast.Shape()[0]
	sel := tensor.Zeros[float32](tensor.Shape{batchSize, rows}, contrast.Backend())
	data := sel.Data()
	for i := 0; i < batchSize; i++ {
		data[i*rows+i] = 1
	}
	return sel.MatMul(contrast)
}
