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
Package config handles loading and validation of mdpic configuration.

	+-----------+           +---------+
	|   File    |  Parser   | Config  |
	| yaml/hcl/ | --------> | (typed) |
	|   json    |           +---------+
	+-----------+

🎯 Purpose:
- Reads the upload pacing and retry settings
- Selects and configures the uploader backend
- Applies defaults so a missing file still yields a usable config

🔍 Example (.mdpic.yaml):

	upload_interval: 2000
	max_retries: 3
	ignore:
	  - "assets/**"
	staging:
	  dir: /tmp/mdpic
	uploader:
	  type: github
	  github:
	    repo: me/images
	    path: blog
	    custom_url: https://cdn.jsdelivr.net/gh/me/images@main

🔍 Example (.mdpic.hcl):

	upload_interval = 1000
	max_retries     = 5

	uploader "picgo" {
	  picgo {
	    endpoint = "http://127.0.0.1:36677/upload"
	  }
	}
*/
package config
