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

package console

import (
	"encoding/json"
	"fmt"
	"strings"
)

const unserializableValue = "[Unable to stringify value]"

// Stringify renders console arguments the way they reach the breadcrumb
// trail: each argument on its own, joined with single spaces.
func Stringify(args ...any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = stringifyArg(arg)
	}
	return strings.Join(parts, " ")
}

// stringifyArg prefers the value's own string form and falls back to
// pretty-printed JSON, then to a fixed placeholder. It must not panic: a
// misbehaving String() or an unmarshalable value yields the placeholder.
func stringifyArg(arg any) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = unserializableValue
		}
	}()
	switch v := arg.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}
	b, err := json.MarshalIndent(arg, "", "  ")
	if err != nil {
		return unserializableValue
	}
	return string(b)
}
