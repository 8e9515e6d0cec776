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

package breadcrumbs

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bugtrail/bugtrail-go/domain/report"
)

func TestRecorder_KeepsInsertionOrder(t *testing.T) {
	r := NewRecorder(10)
	for i := 0; i < 3; i++ {
		r.LeaveBreadcrumb(crumb(fmt.Sprintf("c%d", i)))
	}

	crumbs := r.List()
	assert.Len(t, crumbs, 3)
	assert.Equal(t, "c0", crumbs[0].Message)
	assert.Equal(t, "c2", crumbs[2].Message)
}

func TestRecorder_EvictsOldestBeyondLimit(t *testing.T) {
	r := NewRecorder(5)
	for i := 0; i < 8; i++ {
		r.LeaveBreadcrumb(crumb(fmt.Sprintf("c%d", i)))
	}

	crumbs := r.List()
	assert.Len(t, crumbs, 5)
	assert.Equal(t, "c3", crumbs[0].Message)
	assert.Equal(t, "c7", crumbs[4].Message)
}

func crumb(message string) report.Breadcrumb {
	return report.Breadcrumb{
		Timestamp: time.Now().UTC(),
		Type:      report.BreadcrumbLog,
		Message:   message,
	}
}
