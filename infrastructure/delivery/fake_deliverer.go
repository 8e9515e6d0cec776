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

package delivery

import (
	"context"
	"sync"

	"github.com/bugtrail/bugtrail-go/domain/client"
)

// FakeDeliverer records payloads instead of shipping them.
type FakeDeliverer struct {
	mu       sync.Mutex
	payloads []client.Payload
	Err      error
}

func NewFakeDeliverer() *FakeDeliverer {
	return &FakeDeliverer{}
}

func (d *FakeDeliverer) HandleNotify(_ context.Context, payload client.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

func (d *FakeDeliverer) Payloads() []client.Payload {
	d.mu.Lock()
	defer d.mu.Unlock()
	payloads := make([]client.Payload, len(d.payloads))
	copy(payloads, d.payloads)
	return payloads
}
