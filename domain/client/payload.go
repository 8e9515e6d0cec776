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

package client

import "encoding/json"

// Payload is what HandleNotify ships: the JSON-shaped report plus the
// blocking flag stamped at notify time.
type Payload struct {
	Event    map[string]any
	Blocking bool
}

func (p Payload) APIKey() string {
	if apiKey, ok := p.Event["apiKey"].(string); ok {
		return apiKey
	}
	return ""
}

// MarshalJSON flattens the blocking flag into the event object, the shape the
// collector expects.
func (p Payload) MarshalJSON() ([]byte, error) {
	wire := make(map[string]any, len(p.Event)+1)
	for k, v := range p.Event {
		wire[k] = v
	}
	wire["blocking"] = p.Blocking
	return json.Marshal(wire)
}
