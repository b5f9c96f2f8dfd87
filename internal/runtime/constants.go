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

package runtime

// Terminal Defaults
const (
	// DefaultTerminalWidth is used when the output is not a terminal
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width accepted by --width
	MinTerminalWidth = 10
)

// Raster Limits
const (
	// MaxImageSide is the largest width or height of a rendered image
	MaxImageSide = 8192

	// MaxFrames is the largest number of frames a single render may write
	MaxFrames = 1000
)

// Environment Variables
const (
	// ManifestEnvVar selects the definition file when --file is not given
	ManifestEnvVar = "CCT_FILE"
)

// Validation Functions

// ValidateImageSize ensures an image side is within acceptable bounds.
// Zero selects the size hint of the bar.
func ValidateImageSize(side int) bool {
	return side >= 0 && side <= MaxImageSide
}

// ValidateFrames ensures the frame count is within acceptable bounds.
func ValidateFrames(frames int) bool {
	return frames >= 1 && frames <= MaxFrames
}

// ValidateTerminalWidth ensures a --width value is usable. Zero selects the
// width of the terminal.
func ValidateTerminalWidth(width int) bool {
	return width == 0 || width >= MinTerminalWidth
}
