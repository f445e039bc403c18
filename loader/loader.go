// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader exposes the model parameter file API: memory-mapped
// weight files, workspace population, and remote fetch.
package loader

import (
	"github.com/forge-ml/forge/internal/loader"
)

// File is a memory-mapped weight file.
type File = loader.File

// Open memory-maps a weight file, verifies its checksum and indexes its
// records.
func Open(path string) (*File, error) { return loader.Open(path) }

// Save writes tensors to a weight file.
var Save = loader.Save

// FetchGCS downloads a gs://bucket/object weight file to a local path so
// it can be memory-mapped.
var FetchGCS = loader.FetchGCS
