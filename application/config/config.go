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

// Package config implements the configuration surface the client reads. The
// hosting application owns the configuration; the client only consumes it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"

	"github.com/bugtrail/bugtrail-go/domain/report"
	"github.com/bugtrail/bugtrail-go/internal/concurrency"
)

const (
	apiKeyKey          = "BUGTRAIL_API_KEY"
	releaseStageKey    = "BUGTRAIL_RELEASE_STAGE"
	codeBundleIdKey    = "BUGTRAIL_CODE_BUNDLE_ID"
	notifyEndpointKey  = "BUGTRAIL_NOTIFY_ENDPOINT"
	sessionEndpointKey = "BUGTRAIL_SESSION_ENDPOINT"

	defaultReleaseStage = "production"
)

var (
	Version       = "SNAPSHOT"
	Development   = "false"
	currentConfig *Config
	initMutex     = &sync.Mutex{}
)

// BeforeSendCallback inspects and may mutate a report before delivery.
// Returning false cancels the send.
type BeforeSendCallback func(r *report.Report) bool

type Config struct {
	configLoaded        concurrency.AtomicBool
	autoNotify          concurrency.AtomicBool
	isReportingEnabled  concurrency.AtomicBool
	apiKey              string
	releaseStage        string
	notifyReleaseStages []string
	codeBundleId        string
	appVersion          string
	notifyEndpoint      string
	sessionEndpoint     string
	deviceID            string
	user                concurrency.AtomicMap[string, string]
	beforeSend          []BeforeSendCallback
	insecure            bool
	logPath             string
	m                   sync.Mutex
}

func CurrentConfig() *Config {
	initMutex.Lock()
	defer initMutex.Unlock()
	return currentConfig
}

func SetCurrentConfig(config *Config) {
	initMutex.Lock()
	defer initMutex.Unlock()
	currentConfig = config
}

func IsDevelopment() bool {
	parseBool, _ := strconv.ParseBool(Development)
	return parseBool
}

func New() *Config {
	c := &Config{}
	c.apiKey = os.Getenv(apiKeyKey)
	c.releaseStage = releaseStageFromEnv()
	c.codeBundleId = os.Getenv(codeBundleIdKey)
	c.notifyEndpoint = os.Getenv(notifyEndpointKey)
	c.sessionEndpoint = os.Getenv(sessionEndpointKey)
	c.autoNotify.Set(true)
	c.isReportingEnabled.Set(true)
	c.deviceID = deviceID()
	c.user.Put("id", c.deviceID)
	return c
}

// Load reads env files and marks the configuration as loaded. Variables
// already present in the process environment win over file contents.
func (c *Config) Load() {
	for _, fileName := range c.configFiles() {
		c.loadFile(fileName)
	}
	c.configLoaded.Set(true)
}

func (c *Config) loadFile(fileName string) {
	file, err := os.Open(fileName)
	if err != nil {
		log.Debug().Str("method", "loadFile").Msg("Couldn't load " + fileName)
		return
	}
	defer file.Close()
	env := gotenv.Parse(file)
	for k, v := range env {
		_, exists := os.LookupEnv(k)
		if !exists {
			err := os.Setenv(k, v)
			if err != nil {
				log.Warn().Str("method", "loadFile").Msg("Couldn't set environment variable " + k)
			}
		}
	}
	log.Debug().Str("fileName", fileName).Msg("loaded.")
}

func (c *Config) configFiles() []string {
	home := os.Getenv("HOME")
	if home == "" {
		home = xdg.Home
	}
	return []string{
		filepath.Join(xdg.ConfigHome, "bugtrail", ".envrc"),
		filepath.Join(home, ".bugtrail.env"),
		".envrc",
	}
}

func (c *Config) ApiKey() string       { return c.apiKey }
func (c *Config) AutoNotify() bool     { return c.autoNotify.Get() }
func (c *Config) ReleaseStage() string { return c.releaseStage }
func (c *Config) CodeBundleId() string { return c.codeBundleId }
func (c *Config) AppVersion() string   { return c.appVersion }
func (c *Config) DeviceID() string     { return c.deviceID }
func (c *Config) Insecure() bool       { return c.insecure }
func (c *Config) LogPath() string      { return c.logPath }
func (c *Config) ConfigLoaded() bool   { return c.configLoaded.Get() }

func (c *Config) IsReportingEnabled() bool { return c.isReportingEnabled.Get() }

// ShouldNotify is the policy gate for every send: reporting must be enabled
// and the current release stage must be in the notify set. An empty notify set
// allows all stages.
func (c *Config) ShouldNotify() bool {
	if !c.isReportingEnabled.Get() {
		return false
	}
	c.m.Lock()
	defer c.m.Unlock()
	if len(c.notifyReleaseStages) == 0 {
		return true
	}
	return slices.Contains(c.notifyReleaseStages, c.releaseStage)
}

func (c *Config) NotifyEndpoint() string  { return c.notifyEndpoint }
func (c *Config) SessionEndpoint() string { return c.sessionEndpoint }

func (c *Config) User() map[string]string {
	user := make(map[string]string, c.user.Length())
	c.user.Range(func(key string, value string) bool {
		user[key] = value
		return true
	})
	return user
}

// BeforeSendCallbacks returns the registered hooks in registration order.
func (c *Config) BeforeSendCallbacks() []BeforeSendCallback {
	c.m.Lock()
	defer c.m.Unlock()
	callbacks := make([]BeforeSendCallback, len(c.beforeSend))
	copy(callbacks, c.beforeSend)
	return callbacks
}

func (c *Config) AddBeforeSendCallback(callback BeforeSendCallback) {
	c.m.Lock()
	defer c.m.Unlock()
	c.beforeSend = append(c.beforeSend, callback)
}

func (c *Config) SetApiKey(apiKey string)             { c.apiKey = apiKey }
func (c *Config) SetAutoNotify(enabled bool)          { c.autoNotify.Set(enabled) }
func (c *Config) SetReportingEnabled(enabled bool)    { c.isReportingEnabled.Set(enabled) }
func (c *Config) SetReleaseStage(stage string)        { c.releaseStage = stage }
func (c *Config) SetCodeBundleId(codeBundleId string) { c.codeBundleId = codeBundleId }
func (c *Config) SetAppVersion(version string)        { c.appVersion = version }
func (c *Config) SetInsecure(insecure bool)           { c.insecure = insecure }
func (c *Config) SetNotifyEndpoint(endpoint string)   { c.notifyEndpoint = endpoint }
func (c *Config) SetSessionEndpoint(endpoint string)  { c.sessionEndpoint = endpoint }
func (c *Config) SetLogPath(logPath string)           { c.logPath = logPath }

func (c *Config) SetNotifyReleaseStages(stages []string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.notifyReleaseStages = stages
}

func (c *Config) SetUser(id string, email string, name string) {
	c.user.ClearAll()
	c.user.Put("id", id)
	c.user.Put("email", email)
	c.user.Put("name", name)
}

func (c *Config) ConfigureLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		fmt.Println("Can't set log level from flag. Setting to default (=info)")
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.logPath != "" {
		file, err := os.OpenFile(c.logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			log.Err(err).Msg("couldn't open logfile")
			return
		}
		log.Info().Msgf("Logging to file %s", c.logPath)
		log.Logger = log.Output(file)
	} else {
		log.Info().Msgf("Logging to console")
	}
}

func releaseStageFromEnv() string {
	stage := os.Getenv(releaseStageKey)
	if stage == "" {
		return defaultReleaseStage
	}
	return stage
}

// deviceID returns a stable, app-scoped machine id. It falls back to a random
// id when the platform refuses access to machine identifiers.
func deviceID() string {
	id, err := machineid.ProtectedID("bugtrail")
	if err != nil {
		log.Debug().Str("method", "deviceID").Err(err).Msg("using random device id")
		return uuid.NewString()
	}
	return id
}
