/*
 * © 2023 Bugtrail Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import "time"

// BreadcrumbType categorizes a trail entry for the collector UI.
type BreadcrumbType string

const (
	BreadcrumbLog        BreadcrumbType = "log"
	BreadcrumbManual     BreadcrumbType = "manual"
	BreadcrumbNavigation BreadcrumbType = "navigation"
	BreadcrumbRequest    BreadcrumbType = "request"
	BreadcrumbState      BreadcrumbType = "state"
	BreadcrumbUser       BreadcrumbType = "user"
	BreadcrumbError      BreadcrumbType = "error"
)

// Breadcrumb is one timestamped diagnostic trail entry, attached to later
// reports for context.
type Breadcrumb struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      BreadcrumbType    `json:"type"`
	Message   string            `json:"name"`
	Metadata  map[string]string `json:"metaData,omitempty"`
}
