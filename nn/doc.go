// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the supervised contrastive (SupCon) loss.
//
// # Overview
//
// The loss operates on multi-view embedding batches of shape
// [batchSize, nViews, embeddingDim], typically the L2-normalized outputs
// of a projection head. Positives are defined by class labels, an explicit
// mask, or, with neither, by the other views of the same sample (the
// SimCLR special case).
//
// # Basic Usage
//
//	import (
//	    "github.com/supcon-ml/supcon/backend/cpu"
//	    "github.com/supcon-ml/supcon/nn"
//	    "github.com/supcon-ml/supcon/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    features := tensor.Randn[float32](tensor.Shape{8, 2, 128}, backend)
//	    labels, _ := tensor.FromSlice([]int32{0, 0, 1, 1, 2, 2, 3, 3},
//	        tensor.Shape{8}, backend)
//
//	    criterion, _ := nn.NewContrastiveLoss(nn.DefaultContrastiveConfig(), backend)
//	    loss, err := criterion.Forward(features, labels, nil)
//	}
//
// # Gradients
//
// Forward is built entirely from backend primitives, so with an autodiff
// backend the loss is differentiable end to end; the numeric-stabilization
// term is excluded from the tape.
//
// # Errors
//
// Invalid shapes return a *ShapeError and invalid configurations a
// *ConfigError, both before any tensor arithmetic runs.
package nn
