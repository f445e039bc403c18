// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend provides the public factory matrix: it maps an
// (operator type, backend) pair to the concrete implementation and
// registers the built node in a workspace.
package backend

import (
	"github.com/forge-ml/forge/internal/backend"

	// Register the backends' operator constructors.
	_ "github.com/forge-ml/forge/internal/backend/ref"
	_ "github.com/forge-ml/forge/internal/backend/vex"
)

// Name identifies a registered backend.
type Name = backend.Name

// Registered backends.
const (
	Reference Name = backend.Reference
	Vex       Name = backend.Vex
)

// Factory matrix entry points.
var (
	NewOperator  = backend.NewOperator
	SupportedOps = backend.SupportedOps
)
