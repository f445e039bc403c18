// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ref exposes the portable reference backend.
package ref

import (
	"github.com/forge-ml/forge/internal/backend/ref"
	"github.com/forge-ml/forge/internal/graph"
)

// Policy holds the reference backend constants: no alignment padding,
// channel-first inputs, untransposed fully-connected weights.
var Policy graph.Policy = ref.Policy
