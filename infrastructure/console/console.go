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

// Package console owns the process-wide console method table that the hosting
// application writes through. Breadcrumb mirroring is an install/restore
// operation over originals captured once at module load.
package console

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bugtrail/bugtrail-go/domain/report"
	"github.com/bugtrail/bugtrail-go/internal/concurrency"
)

// Func is one console method. The host calls these through the package-level
// slots below.
type Func func(args ...any)

type Level string

const (
	LevelLog   Level = "log"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// The live console method slots. Wrapping swaps these in place so host code
// holding the package selector keeps working unchanged.
var (
	Log   Func = printer(zerolog.NoLevel)
	Debug Func = printer(zerolog.DebugLevel)
	Info  Func = printer(zerolog.InfoLevel)
	Warn  Func = printer(zerolog.WarnLevel)
	Error Func = printer(zerolog.ErrorLevel)
)

// Sink receives the mirrored console activity.
type Sink interface {
	LeaveConsoleBreadcrumb(severity report.Severity, message string)
}

// Registry captures the original console methods once and installs/restores
// breadcrumb wrappers over them. Enable and Disable are idempotent; the
// originals survive any number of cycles.
type Registry struct {
	enabled   concurrency.AtomicBool
	slots     map[Level]*Func
	originals map[Level]Func
}

var defaultRegistry = NewRegistry()

// Default returns the registry bound to the package-level console slots. Its
// originals were captured at module load.
func Default() *Registry {
	return defaultRegistry
}

func NewRegistry() *Registry {
	r := &Registry{
		slots: map[Level]*Func{
			LevelLog:   &Log,
			LevelDebug: &Debug,
			LevelInfo:  &Info,
			LevelWarn:  &Warn,
			LevelError: &Error,
		},
		originals: map[Level]Func{},
	}
	for level, slot := range r.slots {
		r.originals[level] = *slot
	}
	return r
}

// Enable wraps every console method so calls are mirrored into sink. The
// original method always runs first, unconditionally; breadcrumb construction
// is best effort and never reaches the caller.
func (r *Registry) Enable(sink Sink) {
	if r.enabled.Get() {
		return
	}
	for level, slot := range r.slots {
		*slot = wrap(level, r.originals[level], sink)
	}
	r.enabled.Set(true)
}

// Disable restores the captured originals.
func (r *Registry) Disable() {
	if !r.enabled.Get() {
		return
	}
	for level, slot := range r.slots {
		*slot = r.originals[level]
	}
	r.enabled.Set(false)
}

func wrap(level Level, original Func, sink Sink) Func {
	severity := severityFor(level)
	return func(args ...any) {
		original(args...)
		defer func() {
			if rec := recover(); rec != nil {
				log.Warn().Str("method", "console.wrap").Msgf("dropped console breadcrumb: %v", rec)
			}
		}()
		sink.LeaveConsoleBreadcrumb(severity, Stringify(args...))
	}
}

func severityFor(level Level) report.Severity {
	switch level {
	case LevelError:
		return report.SeverityError
	case LevelWarn:
		return report.SeverityWarning
	default:
		return report.SeverityInfo
	}
}

func printer(level zerolog.Level) Func {
	return func(args ...any) {
		log.WithLevel(level).Msg(Stringify(args...))
	}
}
