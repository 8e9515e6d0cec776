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

// HandledState describes whether an error was caught by application code and
// why the report carries the severity it does. It is attached once at report
// construction and never mutated afterwards.
type HandledState struct {
	OriginalSeverity Severity
	Unhandled        bool
	SeverityReason   string
}

func defaultHandledState() HandledState {
	return HandledState{
		OriginalSeverity: SeverityWarning,
		Unhandled:        false,
		SeverityReason:   SeverityReasonHandled,
	}
}

// valid reports whether the triple can be trusted as supplied. Anything with
// an unknown severity or an empty reason is replaced with the default.
func (h HandledState) valid() bool {
	return h.OriginalSeverity.Valid() && h.SeverityReason != ""
}
