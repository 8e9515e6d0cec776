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

// Package client implements the notify pipeline over the platform capability
// set: error capture, console breadcrumb mirroring and report delivery.
package client

import (
	"context"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bugtrail/bugtrail-go/application/config"
	"github.com/bugtrail/bugtrail-go/domain/report"
	"github.com/bugtrail/bugtrail-go/infrastructure/console"
)

var (
	// ErrNotAnError rejects a Notify call whose cause is not a usable error
	// value.
	ErrNotAnError = errors.New("notify called with a non-error value")
	// ErrNotifyDisabled rejects a Notify call that configuration policy
	// forbids.
	ErrNotifyDisabled = errors.New("notification disabled by configuration")
	// ErrCancelled rejects a send that a before-send callback vetoed.
	ErrCancelled = errors.New("cancelled")
)

// Platform is the capability set a platform integration supplies. Nothing is
// inherited from this package; integrations only fill the contract.
type Platform interface {
	LeaveBreadcrumb(crumb report.Breadcrumb)
	HandleNotify(ctx context.Context, payload Payload) error
	BreadcrumbType(name string) report.BreadcrumbType
}

// NativeEvents exposes the two platform runtime hooks the client subscribes
// to: the application uncaught-error event and the trace/error handler.
type NativeEvents interface {
	OnUncaughtError(handler func(err error))
	OnTraceError(handler func(message string, err error))
}

type Client struct {
	config   *config.Config
	platform Platform
	events   NativeEvents
	console  *console.Registry
}

func New(c *config.Config, platform Platform, events NativeEvents) *Client {
	return &Client{
		config:   c,
		platform: platform,
		events:   events,
		console:  console.Default(),
	}
}

// HandleUncaughtErrors registers the global listeners for native uncaught
// errors and trace errors. Both forward to onNativeError.
func (c *Client) HandleUncaughtErrors() {
	c.events.OnUncaughtError(func(err error) {
		c.onNativeError("uncaughtError", err)
	})
	c.events.OnTraceError(func(message string, err error) {
		if message != "" {
			log.Debug().Str("method", "HandleUncaughtErrors").Msg(message)
		}
		c.onNativeError("trace", err)
	})
}

func (c *Client) onNativeError(origin string, err error) {
	logger := log.With().Str("method", "onNativeError").Str("origin", origin).Logger()
	logger.Error().Err(err).Msg("native error captured")
	if c.config != nil && c.config.AutoNotify() {
		// TODO: call Notify here once double reporting with the native-side
		// interceptor is ruled out
		logger.Debug().Msg("auto-notify requested")
	}
}

// EnableConsoleBreadcrumbs mirrors console activity into the platform's
// breadcrumb trail.
func (c *Client) EnableConsoleBreadcrumbs() {
	c.console.Enable(consoleSink{platform: c.platform})
}

func (c *Client) DisableConsoleBreadcrumbs() {
	c.console.Disable()
}

// LeaveBreadcrumb records a manual trail entry.
func (c *Client) LeaveBreadcrumb(message string, metadata map[string]string) {
	c.platform.LeaveBreadcrumb(report.Breadcrumb{
		Timestamp: time.Now().UTC(),
		Type:      c.platform.BreadcrumbType("manual"),
		Message:   message,
		Metadata:  metadata,
	})
}

// Notify builds a report for cause and hands it to the platform for delivery.
// The post-send callback, when given, observes the outcome exactly once: false
// on every rejection path, true after delivery.
func (c *Client) Notify(ctx context.Context, cause error, opts ...NotifyOption) error {
	o := newNotifyOptions(opts)
	logger := log.With().Str("method", "Notify").Logger()

	if isNotAnError(cause) {
		o.postSend(false)
		return ErrNotAnError
	}
	if c.config == nil || !c.config.ShouldNotify() {
		logger.Debug().Msg("notification disabled, dropping report")
		o.postSend(false)
		return ErrNotifyDisabled
	}

	r := report.New(c.config.ApiKey(), cause, o.handledState)
	r.User = c.config.User()
	if codeBundleId := c.config.CodeBundleId(); codeBundleId != "" {
		r.AddMetadata("app", "codeBundleId", codeBundleId)
	}

	for _, callback := range c.config.BeforeSendCallbacks() {
		if !callback(r) {
			logger.Debug().Msg("report cancelled by before-send callback")
			o.postSend(false)
			return ErrCancelled
		}
	}
	// the caller-supplied hook runs last and has no cancel power
	if o.beforeSend != nil {
		o.beforeSend(r)
	}

	payload := Payload{Event: r.ToJSON(), Blocking: o.blocking}
	if err := c.platform.HandleNotify(ctx, payload); err != nil {
		o.postSend(false)
		return errors.Wrap(err, "couldn't deliver report")
	}
	o.postSend(true)
	return nil
}

// isNotAnError also rejects typed nil pointers hiding inside a non-nil error
// interface.
func isNotAnError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

type consoleSink struct {
	platform Platform
}

func (s consoleSink) LeaveConsoleBreadcrumb(severity report.Severity, message string) {
	s.platform.LeaveBreadcrumb(report.Breadcrumb{
		Timestamp: time.Now().UTC(),
		Type:      s.platform.BreadcrumbType("log"),
		Message:   message,
		Metadata:  map[string]string{"severity": string(severity)},
	})
}
