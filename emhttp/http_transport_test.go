package emhttp

import (
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorForBadCertData(t *testing.T) {
	_, _, err := NewHTTPTransport(CACertOption([]byte("sorry")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid CA certificate data")
}

func TestErrorForNonexistentCertFile(t *testing.T) {
	f, err := ioutil.TempFile("", "emhttp-test")
	require.NoError(t, err)
	path := f.Name()
	require.NoError(t, f.Close())
	require.NoError(t, os.Remove(path))

	_, _, err = NewHTTPTransport(CACertFileOption(path))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't read CA certificate file")
}

func TestErrorForCertFileWithBadData(t *testing.T) {
	f, err := ioutil.TempFile("", "emhttp-test")
	require.NoError(t, err)
	path := f.Name()
	defer os.Remove(path)
	_, err = f.WriteString("sorry")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, err = NewHTTPTransport(CACertFileOption(path))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid CA certificate data")
}

func TestProxyEnvVarsAreUsedByDefault(t *testing.T) {
	transport, _, err := NewHTTPTransport()
	require.NoError(t, err)
	require.NotNil(t, transport.Proxy)
	assert.Equal(t, reflect.ValueOf(http.ProxyFromEnvironment).Pointer(),
		reflect.ValueOf(transport.Proxy).Pointer())
}

func TestCanSetProxyURL(t *testing.T) {
	proxyURL, err := url.Parse("https://fake-proxy")
	require.NoError(t, err)
	transport, _, err := NewHTTPTransport(ProxyOption(*proxyURL))
	require.NoError(t, err)
	require.NotNil(t, transport.Proxy)
	urlOut, err := transport.Proxy(&http.Request{})
	require.NoError(t, err)
	assert.Equal(t, proxyURL, urlOut)
}

func TestConnectTimeoutIsAppliedToDialer(t *testing.T) {
	_, dialer, err := NewHTTPTransport(ConnectTimeoutOption(3 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, dialer.Timeout)
}
