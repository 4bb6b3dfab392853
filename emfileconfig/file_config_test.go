package emfileconfig

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emit "github.com/emitlabs/go-emit-sdk"
)

func withTempConfigFile(t *testing.T, content string, action func(path string)) {
	t.Helper()
	f, err := ioutil.TempFile("", "emit-config")
	require.NoError(t, err)
	path := f.Name()
	defer os.Remove(path)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	action(path)
}

func TestLoadConfigFromJSON(t *testing.T) {
	content := `{
		"apiKey": "key-from-file",
		"serverZone": "EU",
		"useBatch": true,
		"flushQueueSize": 50,
		"flushIntervalMillis": 5000,
		"bufferCapacity": 1000,
		"maxWorkers": 4,
		"minIdLength": 3,
		"connectTimeoutMillis": 2000,
		"retryDelaysMillis": [0, 100, 200],
		"optOut": true
	}`
	withTempConfigFile(t, content, func(path string) {
		apiKey, config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "key-from-file", apiKey)
		assert.Equal(t, emit.EUZone, config.ServerZone)
		assert.True(t, config.UseBatch)
		assert.Equal(t, 50, config.FlushQueueSize)
		assert.Equal(t, 5*time.Second, config.FlushInterval)
		assert.Equal(t, 1000, config.BufferCapacity)
		assert.Equal(t, 4, config.MaxWorkers)
		assert.Equal(t, 3, config.MinIDLength)
		assert.Equal(t, 2*time.Second, config.ConnectTimeout)
		assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}, config.RetryDelays)
		assert.True(t, config.OptOut)
	})
}

func TestLoadConfigFromYAML(t *testing.T) {
	content := `
apiKey: yaml-key
serverZone: US
flushQueueSize: 10
serverUrl: http://localhost:9999/ingest
`
	withTempConfigFile(t, content, func(path string) {
		apiKey, config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml-key", apiKey)
		assert.Equal(t, emit.USZone, config.ServerZone)
		assert.Equal(t, 10, config.FlushQueueSize)
		assert.Equal(t, "http://localhost:9999/ingest", config.ServerURL)
	})
}

func TestLoadConfigErrors(t *testing.T) {
	_, _, err := LoadConfig("no-such-file")
	assert.Error(t, err)

	withTempConfigFile(t, "{not valid", func(path string) {
		_, _, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestWatchConfigReloadsOnChange(t *testing.T) {
	withTempConfigFile(t, `{"apiKey": "first"}`, func(path string) {
		reloadCh := make(chan struct{}, 16)
		closeCh := make(chan struct{})
		defer close(closeCh)

		err := WatchConfig(path, ldlog.NewDisabledLoggers(), func() {
			reloadCh <- struct{}{}
		}, closeCh)
		require.NoError(t, err)

		// initial reload after the watch is established
		requireSignal(t, reloadCh)

		require.NoError(t, ioutil.WriteFile(path, []byte(`{"apiKey": "second"}`), 0644))
		requireSignal(t, reloadCh)

		apiKey, _, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "second", apiKey)
	})
}

func requireSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
