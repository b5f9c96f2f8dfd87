// Copyright 2025 The Concatenator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package manifest loads wizard definitions: the steps of a step bar plus its
// theme, geometry and font.
package manifest

// File and Path Constants
const (
	// DefaultManifestPath is the definition read when no file is given
	DefaultManifestPath = "concatenator.yaml"

	// ManifestFileMode is the permission of files written by Save
	ManifestFileMode = 0o644
)

// Environment Variables
const (
	// EnvVarPrefix marks OS variables that override definition variables
	EnvVarPrefix = "CCT_VAR_"
)

// Step Defaults
const (
	// DefaultWeight is the weight of a step that does not set one
	DefaultWeight = 1

	// MaxKeyLength is the maximum length of a step key
	MaxKeyLength = 63

	// MaxLabelLength is the maximum length of a step label
	MaxLabelLength = 63
)
