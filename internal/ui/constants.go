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

package ui

// UI and Display
const (
	// TableMaxWidth is the table width used when stdout is not a terminal
	TableMaxWidth = 120

	// CurrentMarker flags the current step in step tables
	CurrentMarker = "▶"
)

// InitSteps are the steps of the interactive init flow, in order.
var InitSteps = []string{
	"Title",
	"Steps",
	"Theme",
	"Summary",
}
