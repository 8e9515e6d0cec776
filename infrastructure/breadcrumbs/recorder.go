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

// Package breadcrumbs keeps the most recent diagnostic trail entries in
// memory so they can be attached to later reports.
package breadcrumbs

import (
	"slices"
	"sync/atomic"

	"github.com/erni27/imcache"

	"github.com/bugtrail/bugtrail-go/domain/report"
)

const DefaultLimit = 30

// Recorder is a capped in-memory breadcrumb store. Once the limit is reached
// the oldest entries are evicted.
type Recorder struct {
	cache *imcache.Cache[int64, report.Breadcrumb]
	seq   atomic.Int64
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{
		cache: imcache.New[int64, report.Breadcrumb](
			imcache.WithMaxEntriesOption[int64, report.Breadcrumb](limit),
		),
	}
}

func (r *Recorder) LeaveBreadcrumb(crumb report.Breadcrumb) {
	r.cache.Set(r.seq.Add(1), crumb, imcache.WithNoExpiration())
}

// List returns the retained breadcrumbs, oldest first.
func (r *Recorder) List() []report.Breadcrumb {
	all := r.cache.GetAll()
	keys := make([]int64, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	crumbs := make([]report.Breadcrumb, 0, len(keys))
	for _, key := range keys {
		crumbs = append(crumbs, all[key])
	}
	return crumbs
}

func (r *Recorder) Len() int {
	return r.cache.Len()
}
