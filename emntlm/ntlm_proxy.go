// Package emntlm allows the SDK to be used with an NTLM-authenticated proxy. The
// client factory it provides produces http.Clients suitable for Config.HTTPClient.
package emntlm

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"

	"github.com/emitlabs/go-emit-sdk/emhttp"
)

// NewNTLMProxyHTTPClientFactory returns a factory for HTTP clients that connect
// through an NTLM-authenticated proxy. The proxy URL, username, and password are
// required; domain may be empty. Any emhttp transport options are applied to the
// underlying transport.
func NewNTLMProxyHTTPClientFactory(proxyURL, username, password, domain string,
	options ...emhttp.TransportOption) (func() *http.Client, error) {
	if proxyURL == "" || username == "" || password == "" {
		return nil, errors.New("ProxyURL, username, and password are required")
	}
	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s: %s", proxyURL, err)
	}
	// Try the options out now so configuration errors surface immediately rather
	// than on first request.
	if _, _, err := emhttp.NewHTTPTransport(options...); err != nil {
		return nil, err
	}
	return func() *http.Client {
		client := *http.DefaultClient
		if transport, dialer, err := emhttp.NewHTTPTransport(options...); err == nil {
			transport.DialContext = ntlm.NewNTLMProxyDialContext(dialer, *parsedProxyURL,
				username, password, domain, transport.TLSClientConfig)
			client.Transport = transport
		}
		return &client
	}, nil
}
