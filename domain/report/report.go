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

// Package report holds the serializable diagnostic bundle that is sent to the
// collector for one error occurrence.
package report

import "encoding/json"

// Report is created at notify time from a live error, mutated only by
// AddMetadata and by before-send callbacks, serialized once and discarded.
type Report struct {
	APIKey       string
	Context      string
	ErrorClass   string
	ErrorMessage string
	GroupingHash string
	Metadata     map[string]map[string]any
	Severity     Severity
	Stacktrace   string
	User         map[string]string

	handledState HandledState
}

// New builds a report from a live error. A nil or invalid handled state is
// replaced with the handled-exception default.
func New(apiKey string, cause error, handledState *HandledState) *Report {
	hs := defaultHandledState()
	if handledState != nil && handledState.valid() {
		hs = *handledState
	}
	return &Report{
		APIKey:       apiKey,
		ErrorClass:   errorClass(cause),
		ErrorMessage: cause.Error(),
		Severity:     hs.OriginalSeverity,
		Stacktrace:   stackText(cause),
		User:         map[string]string{},
		handledState: hs,
	}
}

// HandledState returns the triple attached at construction.
func (r *Report) HandledState() HandledState {
	return r.handledState
}

// AddMetadata records a key/value diagnostic pair under the named section,
// creating the section lazily on first use.
func (r *Report) AddMetadata(section string, key string, value any) {
	if r.Metadata == nil {
		r.Metadata = map[string]map[string]any{}
	}
	if r.Metadata[section] == nil {
		r.Metadata[section] = map[string]any{}
	}
	r.Metadata[section][key] = value
}

// ToJSON projects the report onto the wire contract. The two derived flags are
// recomputed here rather than read from stored fields, so a before-send
// callback that overrode the severity is detected and relabeled without the
// report tracking its own dirtiness.
func (r *Report) ToJSON() map[string]any {
	defaultSeverity := r.Severity == r.handledState.OriginalSeverity
	severityReason := SeverityReasonCallback
	if defaultSeverity && r.handledState.SeverityReason != "" {
		severityReason = r.handledState.SeverityReason
	}
	return map[string]any{
		"apiKey":          r.APIKey,
		"context":         r.Context,
		"errorClass":      r.ErrorClass,
		"errorMessage":    r.ErrorMessage,
		"groupingHash":    r.GroupingHash,
		"metadata":        r.Metadata,
		"severity":        r.Severity,
		"stacktrace":      r.Stacktrace,
		"user":            r.User,
		"defaultSeverity": defaultSeverity,
		"unhandled":       r.handledState.Unhandled,
		"severityReason":  severityReason,
	}
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSON())
}
