package emevents

import (
	"bytes"
	"io/ioutil"
	"net"
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// defaultEventSender delivers payloads with a single blocking POST per call. It never
// returns transport errors; timeouts classify as TIMEOUT and anything else as UNKNOWN,
// with the error text carried in the synthesized response body.
type defaultEventSender struct {
	httpClient *http.Client
	serverURL  string
	loggers    ldlog.Loggers
}

// NewDefaultEventSender creates the standard HTTP EventSender. If client is nil, a
// client with the configured timeout is constructed.
func NewDefaultEventSender(config EventsConfiguration) EventSender {
	config = config.withDefaults()
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.ConnectTimeout}
	}
	return &defaultEventSender{
		httpClient: client,
		serverURL:  config.ServerURL,
		loggers:    config.Loggers,
	}
}

func (s *defaultEventSender) SendEventData(data []byte) Response {
	req, err := http.NewRequest("POST", s.serverURL, bytes.NewReader(data))
	if err != nil {
		return transportErrorResponse(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			s.loggers.Warnf("Timed out delivering events to %s", s.serverURL)
			return Response{Status: StatusTimeout, Code: 408}
		}
		s.loggers.Warnf("Unexpected error delivering events: %s", err)
		return transportErrorResponse(err)
	}
	body, _ := ioutil.ReadAll(resp.Body)
	_ = resp.Body.Close()
	s.loggers.Debugf("Event delivery returned status %d", resp.StatusCode)
	return newResponse(resp.StatusCode, body)
}

func transportErrorResponse(err error) Response {
	return Response{
		Status: StatusUnknown,
		Body:   ldvalue.ObjectBuild().Set("error", ldvalue.String(err.Error())).Build(),
	}
}
