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

package testutil

import (
	"testing"

	"github.com/bugtrail/bugtrail-go/application/config"
)

// UnitTest installs a fresh configuration for the test and restores the
// previous one afterwards.
func UnitTest(t *testing.T) *config.Config {
	t.Helper()
	previous := config.CurrentConfig()
	c := config.New()
	c.SetApiKey("00000000000000000000000000000001")
	c.SetReportingEnabled(true)
	config.SetCurrentConfig(c)
	t.Cleanup(func() {
		config.SetCurrentConfig(previous)
	})
	return c
}
