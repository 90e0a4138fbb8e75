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

/*
Package status reports upload progress and outcomes to the user.

	+-------------+           +-----------+
	|  operation  |  Reporter | terminal  |
	| (one image  | --------> | progress  |
	|  at a time) |           | + notices |
	+-------------+           +-----------+

🎯 Purpose:
- Shows a progress bar while a document's images upload
- Shows one error notice per image that finally failed
- Shows the end of session summary

🤝 Interfaces:
- Reporter: what the orchestrator talks to
- Console: the pterm backed terminal implementation
*/
package status
