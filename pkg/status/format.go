// Copyright 2025 walteh LLC
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

package status

import (
	"fmt"

	"github.com/fatih/color"
)

// FormatProgress formats the running progress message
func FormatProgress(uploaded, total int) string {
	return fmt.Sprintf("uploaded %d/%d", uploaded, total)
}

// FormatSummary formats the end of session message
func FormatSummary(uploaded, failed int) string {
	if uploaded == 0 && failed == 0 {
		return "nothing found to upload"
	}
	return fmt.Sprintf("upload finished: %s uploaded, %s failed",
		color.GreenString("%d", uploaded),
		color.RedString("%d", failed))
}

// FormatFailure formats the notice for an image that could not be uploaded
func FormatFailure(rawPath string, err error) string {
	if err == nil {
		return fmt.Sprintf("failed to upload image: %s", rawPath)
	}
	return fmt.Sprintf("failed to upload image: %s: %v", rawPath, err)
}

// FormatNothingToUpload is shown when a document has no local images
func FormatNothingToUpload() string {
	return "no local images found to upload"
}
