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

import "github.com/bugtrail/bugtrail-go/domain/report"

type notifyOptions struct {
	beforeSend   func(r *report.Report)
	blocking     bool
	postSend     func(delivered bool)
	handledState *report.HandledState
}

type NotifyOption func(*notifyOptions)

func newNotifyOptions(opts []NotifyOption) *notifyOptions {
	o := &notifyOptions{
		postSend: func(bool) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBeforeSend installs a caller hook that may mutate the report after all
// registered callbacks ran. It cannot cancel the send.
func WithBeforeSend(callback func(r *report.Report)) NotifyOption {
	return func(o *notifyOptions) {
		o.beforeSend = callback
	}
}

// WithBlocking stamps the payload so the deliverer ships it synchronously.
func WithBlocking(blocking bool) NotifyOption {
	return func(o *notifyOptions) {
		o.blocking = blocking
	}
}

// WithPostSend installs a callback observing the send outcome.
func WithPostSend(callback func(delivered bool)) NotifyOption {
	return func(o *notifyOptions) {
		if callback != nil {
			o.postSend = callback
		}
	}
}

// WithHandledState overrides the default handled-exception triple.
func WithHandledState(handledState report.HandledState) NotifyOption {
	return func(o *notifyOptions) {
		o.handledState = &handledState
	}
}
