// Package emfileconfig allows SDK settings to be read from a JSON or YAML file, with
// optional automatic reloading when the file changes. The two entry points are
// separate so hosts that do not need reloading pay nothing for it.
package emfileconfig

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/ghodss/yaml.v1"

	emit "github.com/emitlabs/go-emit-sdk"
)

// FileConfig is the schema of a settings file. All fields are optional except apiKey.
// Durations are given in milliseconds. Because the file is parsed as YAML, plain JSON
// works too.
type FileConfig struct {
	APIKey               string `json:"apiKey"`
	ServerZone           string `json:"serverZone"`
	ServerURL            string `json:"serverUrl"`
	UseBatch             bool   `json:"useBatch"`
	FlushQueueSize       int    `json:"flushQueueSize"`
	FlushIntervalMillis  int    `json:"flushIntervalMillis"`
	BufferCapacity       int    `json:"bufferCapacity"`
	MaxWorkers           int    `json:"maxWorkers"`
	MinIDLength          int    `json:"minIdLength"`
	ConnectTimeoutMillis int    `json:"connectTimeoutMillis"`
	RetryDelaysMillis    []int  `json:"retryDelaysMillis"`
	OptOut               bool   `json:"optOut"`
}

// LoadConfig reads and parses a settings file, returning the API key and a Config
// ready for emit.NewClient.
func LoadConfig(path string) (string, emit.Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", emit.Config{}, fmt.Errorf("unable to read config file %s: %s", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return "", emit.Config{}, fmt.Errorf("unable to parse config file %s: %s", path, err)
	}
	return fc.APIKey, fc.ToConfig(), nil
}

// ToConfig converts the file schema into an emit.Config.
func (fc FileConfig) ToConfig() emit.Config {
	config := emit.Config{
		ServerURL:      fc.ServerURL,
		UseBatch:       fc.UseBatch,
		FlushQueueSize: fc.FlushQueueSize,
		BufferCapacity: fc.BufferCapacity,
		MaxWorkers:     fc.MaxWorkers,
		MinIDLength:    fc.MinIDLength,
		OptOut:         fc.OptOut,
	}
	if fc.ServerZone == "EU" {
		config.ServerZone = emit.EUZone
	}
	if fc.FlushIntervalMillis > 0 {
		config.FlushInterval = time.Duration(fc.FlushIntervalMillis) * time.Millisecond
	}
	if fc.ConnectTimeoutMillis > 0 {
		config.ConnectTimeout = time.Duration(fc.ConnectTimeoutMillis) * time.Millisecond
	}
	if len(fc.RetryDelaysMillis) > 0 {
		delays := make([]time.Duration, 0, len(fc.RetryDelaysMillis))
		for _, ms := range fc.RetryDelaysMillis {
			delays = append(delays, time.Duration(ms)*time.Millisecond)
		}
		config.RetryDelays = delays
	}
	return config
}
