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

import (
	"context"
	"sync"

	"github.com/bugtrail/bugtrail-go/domain/report"
)

var _ Platform = &FakePlatform{}

// FakePlatform records every capability call for assertions.
type FakePlatform struct {
	mu          sync.Mutex
	breadcrumbs []report.Breadcrumb
	payloads    []Payload
	NotifyErr   error
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{}
}

func (p *FakePlatform) LeaveBreadcrumb(crumb report.Breadcrumb) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breadcrumbs = append(p.breadcrumbs, crumb)
}

func (p *FakePlatform) HandleNotify(_ context.Context, payload Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NotifyErr != nil {
		return p.NotifyErr
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *FakePlatform) BreadcrumbType(name string) report.BreadcrumbType {
	return report.BreadcrumbType(name)
}

func (p *FakePlatform) Breadcrumbs() []report.Breadcrumb {
	p.mu.Lock()
	defer p.mu.Unlock()
	crumbs := make([]report.Breadcrumb, len(p.breadcrumbs))
	copy(crumbs, p.breadcrumbs)
	return crumbs
}

func (p *FakePlatform) Payloads() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	payloads := make([]Payload, len(p.payloads))
	copy(payloads, p.payloads)
	return payloads
}

var _ NativeEvents = &FakeNativeEvents{}

// FakeNativeEvents hands the registered hooks back to the test so it can fire
// native events directly.
type FakeNativeEvents struct {
	UncaughtHandler func(err error)
	TraceHandler    func(message string, err error)
}

func NewFakeNativeEvents() *FakeNativeEvents {
	return &FakeNativeEvents{}
}

func (e *FakeNativeEvents) OnUncaughtError(handler func(err error)) {
	e.UncaughtHandler = handler
}

func (e *FakeNativeEvents) OnTraceError(handler func(message string, err error)) {
	e.TraceHandler = handler
}
