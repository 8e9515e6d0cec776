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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail-go/application/config"
	"github.com/bugtrail/bugtrail-go/domain/report"
	"github.com/bugtrail/bugtrail-go/infrastructure/console"
	"github.com/bugtrail/bugtrail-go/internal/testutil"
)

type postSendRecorder struct {
	calls []bool
}

func (r *postSendRecorder) callback(delivered bool) {
	r.calls = append(r.calls, delivered)
}

func TestNotify_RejectsNonError(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)
	postSend := &postSendRecorder{}

	err := c.Notify(context.Background(), nil, WithPostSend(postSend.callback))

	assert.ErrorIs(t, err, ErrNotAnError)
	assert.Equal(t, []bool{false}, postSend.calls)
	assert.Empty(t, platform.Payloads())
}

func TestNotify_RejectsTypedNilError(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)
	postSend := &postSendRecorder{}

	var cause *nilError
	err := c.Notify(context.Background(), cause, WithPostSend(postSend.callback))

	assert.ErrorIs(t, err, ErrNotAnError)
	assert.Equal(t, []bool{false}, postSend.calls)
	assert.Empty(t, platform.Payloads())
}

func TestNotify_RejectsWhenPolicyForbids(t *testing.T) {
	cfg := testutil.UnitTest(t)
	cfg.SetReportingEnabled(false)
	c, platform := newTestClient(t)
	postSend := &postSendRecorder{}

	err := c.Notify(context.Background(), errors.New("boom"), WithPostSend(postSend.callback))

	assert.ErrorIs(t, err, ErrNotifyDisabled)
	assert.Equal(t, []bool{false}, postSend.calls)
	assert.Empty(t, platform.Payloads())
}

func TestNotify_DeliversReport(t *testing.T) {
	cfg := testutil.UnitTest(t)
	cfg.SetCodeBundleId("bundle-42")
	c, platform := newTestClient(t)
	postSend := &postSendRecorder{}

	err := c.Notify(context.Background(), errors.New("boom"),
		WithBlocking(true),
		WithPostSend(postSend.callback),
	)

	require.NoError(t, err)
	assert.Equal(t, []bool{true}, postSend.calls)
	payloads := platform.Payloads()
	require.Len(t, payloads, 1)
	assert.True(t, payloads[0].Blocking)
	assert.Equal(t, cfg.ApiKey(), payloads[0].APIKey())
	assert.Equal(t, "boom", payloads[0].Event["errorMessage"])
	metadata, ok := payloads[0].Event["metadata"].(map[string]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bundle-42", metadata["app"]["codeBundleId"])
}

func TestNotify_CallbackCancelShortCircuits(t *testing.T) {
	cfg := testutil.UnitTest(t)
	c, platform := newTestClient(t)
	postSend := &postSendRecorder{}

	var ran []int
	cfg.AddBeforeSendCallback(func(r *report.Report) bool {
		ran = append(ran, 1)
		return true
	})
	cfg.AddBeforeSendCallback(func(r *report.Report) bool {
		ran = append(ran, 2)
		return false
	})
	cfg.AddBeforeSendCallback(func(r *report.Report) bool {
		ran = append(ran, 3)
		return true
	})

	err := c.Notify(context.Background(), errors.New("boom"), WithPostSend(postSend.callback))

	assert.ErrorIs(t, err, ErrCancelled)
	assert.EqualError(t, err, "cancelled")
	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, []bool{false}, postSend.calls)
	assert.Empty(t, platform.Payloads())
}

func TestNotify_CallerBeforeSendRunsLastWithoutCancelPower(t *testing.T) {
	cfg := testutil.UnitTest(t)
	c, platform := newTestClient(t)

	var order []string
	cfg.AddBeforeSendCallback(func(r *report.Report) bool {
		order = append(order, "registered")
		return true
	})

	err := c.Notify(context.Background(), errors.New("boom"),
		WithBeforeSend(func(r *report.Report) {
			order = append(order, "caller")
			r.Context = "checkout"
		}),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"registered", "caller"}, order)
	require.Len(t, platform.Payloads(), 1)
	assert.Equal(t, "checkout", platform.Payloads()[0].Event["context"])
}

func TestNotify_CallbackSeverityOverrideIsRelabeled(t *testing.T) {
	cfg := testutil.UnitTest(t)
	c, platform := newTestClient(t)
	cfg.AddBeforeSendCallback(func(r *report.Report) bool {
		r.Severity = report.SeverityInfo
		return true
	})

	err := c.Notify(context.Background(), errors.New("boom"))

	require.NoError(t, err)
	event := platform.Payloads()[0].Event
	assert.Equal(t, false, event["defaultSeverity"])
	assert.Equal(t, report.SeverityReasonCallback, event["severityReason"])
}

func TestNotify_HandledStateOption(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)

	err := c.Notify(context.Background(), errors.New("boom"),
		WithHandledState(report.HandledState{
			OriginalSeverity: report.SeverityError,
			Unhandled:        true,
			SeverityReason:   report.SeverityReasonUnhandled,
		}),
	)

	require.NoError(t, err)
	event := platform.Payloads()[0].Event
	assert.Equal(t, report.SeverityError, event["severity"])
	assert.Equal(t, true, event["unhandled"])
	assert.Equal(t, report.SeverityReasonUnhandled, event["severityReason"])
}

func TestNotify_DeliveryFailureReachesPostSend(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)
	platform.NotifyErr = errors.New("collector unreachable")
	postSend := &postSendRecorder{}

	err := c.Notify(context.Background(), errors.New("boom"), WithPostSend(postSend.callback))

	assert.Error(t, err)
	assert.Equal(t, []bool{false}, postSend.calls)
}

func TestHandleUncaughtErrors_RegistersBothHooks(t *testing.T) {
	cfg := testutil.UnitTest(t)
	cfg.SetAutoNotify(true)
	platform := NewFakePlatform()
	events := NewFakeNativeEvents()
	c := New(cfg, platform, events)

	c.HandleUncaughtErrors()
	require.NotNil(t, events.UncaughtHandler)
	require.NotNil(t, events.TraceHandler)

	// auto-notification stays a stub: handlers log, nothing is delivered
	events.UncaughtHandler(errors.New("native crash"))
	events.TraceHandler("trace output", errors.New("trace error"))
	assert.Empty(t, platform.Payloads())
}

func TestConsoleBreadcrumbs_MirrorsConsoleCalls(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)
	t.Cleanup(c.DisableConsoleBreadcrumbs)

	c.EnableConsoleBreadcrumbs()
	console.Warn("careful")
	c.DisableConsoleBreadcrumbs()
	console.Warn("not recorded")

	crumbs := platform.Breadcrumbs()
	require.Len(t, crumbs, 1)
	assert.Equal(t, "careful", crumbs[0].Message)
	assert.Equal(t, report.BreadcrumbType("log"), crumbs[0].Type)
	assert.Equal(t, string(report.SeverityWarning), crumbs[0].Metadata["severity"])
}

func TestLeaveBreadcrumb_Manual(t *testing.T) {
	testutil.UnitTest(t)
	c, platform := newTestClient(t)

	c.LeaveBreadcrumb("opened settings", map[string]string{"screen": "settings"})

	crumbs := platform.Breadcrumbs()
	require.Len(t, crumbs, 1)
	assert.Equal(t, report.BreadcrumbType("manual"), crumbs[0].Type)
	assert.Equal(t, "settings", crumbs[0].Metadata["screen"])
}

func newTestClient(t *testing.T) (*Client, *FakePlatform) {
	t.Helper()
	platform := NewFakePlatform()
	return New(config.CurrentConfig(), platform, NewFakeNativeEvents()), platform
}

type nilError struct{}

func (e *nilError) Error() string { return "nil error" }
