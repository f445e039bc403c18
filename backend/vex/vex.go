// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vex exposes the scratchpad-mapped accelerator backend and its
// global resource lifecycle.
package vex

import (
	"github.com/forge-ml/forge/internal/backend/vex"
	"github.com/forge-ml/forge/internal/graph"
)

// Datapath geometry.
const (
	VectorSize   = vex.VectorSize
	NumPEInsts   = vex.NumPEInsts
	NumMaccInsts = vex.NumMaccInsts
)

// Policy holds the Vex backend constants: 8-element alignment,
// channel-last inputs, transposed fully-connected weights.
var Policy graph.Policy = vex.Policy

// Scratchpad lifecycle. InitGlobals must bracket all Vex operator
// construction and execution with FreeGlobals, each called exactly once
// per process.
var (
	InitGlobals      = vex.InitGlobals
	InitGlobalsSized = vex.InitGlobalsSized
	FreeGlobals      = vex.FreeGlobals
	SpadSize         = vex.SpadSize
)

// ConvNHWCSamePadding is the vectorized same-padding convolution kernel,
// exported for tools that instrument the kernel boundary directly.
var ConvNHWCSamePadding = vex.ConvNHWCSamePadding
