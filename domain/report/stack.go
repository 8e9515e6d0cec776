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

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// errorClass derives the collector-facing class name from the root cause.
// Untyped errors all collapse to "Error" so grouping is driven by message and
// stack instead of the wrapping library's internals.
func errorClass(err error) string {
	cause := errors.Cause(err)
	t := reflect.TypeOf(cause)
	if t == nil {
		return "Error"
	}
	class := t.String()
	switch class {
	case "*errors.errorString", "*errors.fundamental", "*errors.withMessage", "*errors.withStack":
		return "Error"
	}
	return strings.TrimPrefix(class, "*")
}

// stackText renders the error's own stack when it carries one (pkg/errors),
// otherwise the current callers above the notify entry point.
func stackText(err error) string {
	if st, ok := err.(stackTracer); ok {
		return strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
	}
	if st, ok := errors.Cause(err).(stackTracer); ok {
		return strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
	}
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
