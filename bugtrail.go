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

// Package bugtrail wires the error-reporting client for a host application:
// configuration, native error hooks, breadcrumb recording and HTTP delivery
// toward the collector.
package bugtrail

import (
	"context"

	"github.com/bugtrail/bugtrail-go/application/config"
	"github.com/bugtrail/bugtrail-go/domain/client"
	"github.com/bugtrail/bugtrail-go/domain/report"
	"github.com/bugtrail/bugtrail-go/infrastructure/breadcrumbs"
	"github.com/bugtrail/bugtrail-go/infrastructure/delivery"
	"github.com/bugtrail/bugtrail-go/internal/httpclient"
	"github.com/bugtrail/bugtrail-go/internal/nativeevents"
)

// Integration owns the wired pieces for one host application.
type Integration struct {
	Client      *client.Client
	Events      *nativeevents.Bus
	Breadcrumbs *breadcrumbs.Recorder
}

// Configure installs c as the current configuration, assembles the standard
// platform (in-memory breadcrumb trail, HTTP delivery) and registers the
// native error hooks.
func Configure(c *config.Config) *Integration {
	config.SetCurrentConfig(c)

	recorder := breadcrumbs.NewRecorder(breadcrumbs.DefaultLimit)
	deliverer := delivery.NewHTTPDeliverer(
		delivery.NewStandardDelivery(c.NotifyEndpoint(), c.SessionEndpoint()),
		httpclient.NewHTTPClient,
	)
	events := nativeevents.NewBus()

	cl := client.New(c, &standardPlatform{recorder: recorder, deliverer: deliverer}, events)
	cl.HandleUncaughtErrors()

	return &Integration{
		Client:      cl,
		Events:      events,
		Breadcrumbs: recorder,
	}
}

// Notify reports err through the integration's client.
func (i *Integration) Notify(ctx context.Context, err error, opts ...client.NotifyOption) error {
	return i.Client.Notify(ctx, err, opts...)
}

// standardPlatform is the default capability set: breadcrumbs land in the
// in-memory recorder, reports go out over HTTP.
type standardPlatform struct {
	recorder  *breadcrumbs.Recorder
	deliverer *delivery.HTTPDeliverer
}

func (p *standardPlatform) LeaveBreadcrumb(crumb report.Breadcrumb) {
	p.recorder.LeaveBreadcrumb(crumb)
}

func (p *standardPlatform) HandleNotify(ctx context.Context, payload client.Payload) error {
	return p.deliverer.HandleNotify(ctx, payload)
}

func (p *standardPlatform) BreadcrumbType(name string) report.BreadcrumbType {
	switch name {
	case "log":
		return report.BreadcrumbLog
	case "navigation":
		return report.BreadcrumbNavigation
	case "request":
		return report.BreadcrumbRequest
	case "state":
		return report.BreadcrumbState
	case "user":
		return report.BreadcrumbUser
	case "error":
		return report.BreadcrumbError
	default:
		return report.BreadcrumbManual
	}
}
