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

// Package delivery implements the transport toward the collector: the
// endpoint descriptor and the HTTP deliverer behind the client's
// HandleNotify contract.
package delivery

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bugtrail/bugtrail-go/domain/client"
)

const (
	DefaultNotifyEndpoint  = "https://notify.bugtrail.io"
	DefaultSessionEndpoint = "https://sessions.bugtrail.io"

	apiKeyHeader         = "Bugtrail-Api-Key"
	payloadVersionHeader = "Bugtrail-Payload-Version"
	payloadVersion       = "4"
)

// StandardDelivery is the immutable pair of collector endpoints.
type StandardDelivery struct {
	NotifyEndpoint  string
	SessionEndpoint string
}

func NewStandardDelivery(notifyEndpoint string, sessionEndpoint string) StandardDelivery {
	if notifyEndpoint == "" {
		notifyEndpoint = DefaultNotifyEndpoint
	}
	if sessionEndpoint == "" {
		sessionEndpoint = DefaultSessionEndpoint
	}
	return StandardDelivery{NotifyEndpoint: notifyEndpoint, SessionEndpoint: sessionEndpoint}
}

// DeliveryError is returned when the collector answers with a non-success
// status.
type DeliveryError struct {
	msg        string
	statusCode int
}

func NewDeliveryError(msg string, statusCode int) *DeliveryError {
	return &DeliveryError{msg, statusCode}
}

func (e *DeliveryError) Error() string {
	return e.msg
}

func (e *DeliveryError) StatusCode() int {
	return e.statusCode
}

// HTTPDeliverer posts report payloads to the configured notify endpoint. A
// non-blocking payload is shipped from a goroutine and transport failures are
// only logged; a blocking payload reports them to the caller.
type HTTPDeliverer struct {
	delivery       StandardDelivery
	httpClientFunc func() *http.Client
}

func NewHTTPDeliverer(delivery StandardDelivery, httpClientFunc func() *http.Client) *HTTPDeliverer {
	return &HTTPDeliverer{delivery: delivery, httpClientFunc: httpClientFunc}
}

func (d *HTTPDeliverer) HandleNotify(ctx context.Context, payload client.Payload) error {
	if payload.Blocking {
		return d.post(ctx, payload)
	}
	go func() {
		if err := d.post(context.Background(), payload); err != nil {
			log.Warn().Str("method", "HandleNotify").Err(err).Msg("couldn't deliver report")
		}
	}()
	return nil
}

func (d *HTTPDeliverer) post(ctx context.Context, payload client.Payload) error {
	method := "delivery.post"
	body, err := payload.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "couldn't marshal report payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.delivery.NotifyEndpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "couldn't create collector request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, payload.APIKey())
	req.Header.Set(payloadVersionHeader, payloadVersion)

	resp, err := d.httpClientFunc().Do(req)
	if err != nil {
		return errors.Wrap(err, "couldn't reach collector")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusBadRequest {
		return NewDeliveryError("collector rejected report: "+resp.Status, resp.StatusCode)
	}
	log.Debug().Str("method", method).Int("status", resp.StatusCode).Msg("report delivered")
	return nil
}
