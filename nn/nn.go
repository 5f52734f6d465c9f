// Copyright 2025 SupCon ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/supcon-ml/supcon/internal/nn"
	"github.com/supcon-ml/supcon/internal/tensor"
)

// ContrastiveLoss computes the supervised contrastive (SupCon) loss.
type ContrastiveLoss[B tensor.Backend] = nn.ContrastiveLoss[B]

// ContrastiveConfig configures a ContrastiveLoss.
type ContrastiveConfig = nn.ContrastiveConfig

// ContrastMode selects which feature vectors act as anchors.
type ContrastMode = nn.ContrastMode

// Contrast modes.
const (
	ContrastModeAll = nn.ContrastModeAll
	ContrastModeOne = nn.ContrastModeOne
)

// ZeroPositivesPolicy controls the behavior for anchors without positives.
type ZeroPositivesPolicy = nn.ZeroPositivesPolicy

// Zero-positives policies.
const (
	ZeroPositivesPropagate = nn.ZeroPositivesPropagate
	ZeroPositivesError     = nn.ZeroPositivesError
)

// ShapeError reports an input tensor with an invalid shape.
type ShapeError = nn.ShapeError

// ConfigError reports an invalid loss configuration.
type ConfigError = nn.ConfigError

// DefaultContrastiveConfig returns the configuration from the SupCon
// paper: temperature 0.07, all views as anchors.
func DefaultContrastiveConfig() ContrastiveConfig {
	return nn.DefaultContrastiveConfig()
}

// NewContrastiveLoss creates a contrastive loss with the given
// configuration.
//
// Example:
//
//	criterion, err := nn.NewContrastiveLoss(nn.DefaultContrastiveConfig(), backend)
func NewContrastiveLoss[B tensor.Backend](cfg ContrastiveConfig, backend B) (*ContrastiveLoss[B], error) {
	return nn.NewContrastiveLoss(cfg, backend)
}

// NewSimCLRLoss creates the unsupervised special case where each sample's
// positives are exactly its other views. Call Forward with nil labels and
// nil mask.
func NewSimCLRLoss[B tensor.Backend](temperature float32, backend B) (*ContrastiveLoss[B], error) {
	return nn.NewSimCLRLoss(temperature, backend)
}
