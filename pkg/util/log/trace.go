package log

import (
	"crypto/tls"
	"net/http"
	"net/http/httptrace"
	"strings"

	"github.com/sirupsen/logrus"
)

var networkTraceIgnoreHeaders = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
}

type httpTrace struct {
	reqID  string
	logger FieldLogger
}

// NewRequestWithTraceContext - returns the request with a client trace that logs connection events
func NewRequestWithTraceContext(id string, req *http.Request) *http.Request {
	trace := &httpTrace{
		reqID:  id,
		logger: NewFieldLogger().WithComponent("httpTrace").WithField("id", id),
	}

	clientTrace := &httptrace.ClientTrace{
		GetConn:              trace.logConnection,
		DNSDone:              trace.logDNSDone,
		ConnectDone:          trace.logConnectDone,
		WroteHeaderField:     trace.logWroteHeaderField,
		TLSHandshakeDone:     trace.logTLSHandshakeDone,
		GotFirstResponseByte: trace.logGotFirstResponseByte,
	}
	return req.WithContext(httptrace.WithClientTrace(req.Context(), clientTrace))
}

func (t *httpTrace) logConnection(hostPort string) {
	t.logger.
		WithField("port", hostPort).
		Trace("getting connection")
}

func (t *httpTrace) logDNSDone(info httptrace.DNSDoneInfo) {
	if info.Err != nil {
		t.logger.
			WithError(info.Err).
			Trace("dns lookup failure")
		return
	}
	ips := make([]string, 0, len(info.Addrs))
	for _, ip := range info.Addrs {
		ips = append(ips, ip.String())
	}
	t.logger.
		WithField("ips", strings.Join(ips, ",")).
		Trace("dns lookup completed")
}

func (t *httpTrace) logConnectDone(network, addr string, err error) {
	logger := t.logger.
		WithField("network", network).
		WithField("addr", addr)
	if err != nil {
		logger.WithError(err).Trace("connection creation failure")
		return
	}
	logger.Trace("connection created")
}

func (t *httpTrace) logWroteHeaderField(key string, value []string) {
	if _, ok := networkTraceIgnoreHeaders[strings.ToLower(key)]; ok {
		t.logger.
			WithField("key", key).
			WithField("value", "***").
			Trace("writing header")
		return
	}
	t.logger.
		WithField("key", key).
		WithField("value", value).
		Trace("writing header")
}

func (t *httpTrace) logTLSHandshakeDone(state tls.ConnectionState, err error) {
	if err != nil {
		t.logger.
			WithError(err).
			Trace("TLS handshake failure")
		return
	}
	t.logger.
		WithField("protocol", state.NegotiatedProtocol).
		WithField("server name", state.ServerName).
		Trace("TLS handshake completed")
}

func (t *httpTrace) logGotFirstResponseByte() {
	t.logger.Trace("reading response")
}

// IsHTTPLogTraceEnabled -
func IsHTTPLogTraceEnabled() bool {
	return logHTTPTrace && log.GetLevel() == logrus.TraceLevel
}
