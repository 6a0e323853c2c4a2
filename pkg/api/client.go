package api

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	"github.com/google/uuid"
)

// HTTP const definitions
const (
	GET  string = http.MethodGet
	POST string = http.MethodPost

	defaultTimeout = time.Second * 60
)

// Request - the request object used when communicating to an API
type Request struct {
	Method      string
	URL         string
	QueryParams map[string]string
	Headers     map[string]string
	Body        []byte
}

// Response - the response object given back when communicating to an API
type Response struct {
	Code    int
	Body    []byte
	Headers map[string][]string
}

// Client -
type Client interface {
	Send(ctx context.Context, request Request) (*Response, error)
}

type httpClient struct {
	logger     log.FieldLogger
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	dialer     util.Dialer
	transport  http.RoundTripper
}

// ClientOpt - optional settings for NewClient
type ClientOpt func(*httpClient)

// WithTimeout - sets the timeout of each request, including reading the response
func WithTimeout(timeout time.Duration) ClientOpt {
	return func(h *httpClient) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithUserAgent - user agent sent when the request does not set one
func WithUserAgent(userAgent string) ClientOpt {
	return func(h *httpClient) {
		h.userAgent = userAgent
	}
}

// WithTransport - sends through rt instead of a transport built from the tls and proxy settings
func WithTransport(rt http.RoundTripper) ClientOpt {
	return func(h *httpClient) {
		h.transport = rt
	}
}

// NewClient - creates a new HTTP client
func NewClient(tlsCfg config.TLSConfig, proxyURL string, options ...ClientOpt) Client {
	client := &httpClient{
		timeout: defaultTimeout,
		logger: log.NewFieldLogger().
			WithComponent("httpClient").
			WithPackage("api"),
	}

	for _, o := range options {
		o(client)
	}

	client.initialize(tlsCfg, proxyURL)
	return client
}

func parseProxyURL(proxyURL string) *url.URL {
	if proxyURL != "" {
		pURL, err := url.Parse(proxyURL)
		if err == nil {
			return pURL
		}
		log.Errorf("Error parsing proxyURL from config; creating a non-proxy client: %s", err.Error())
	}
	return nil
}

func (c *httpClient) initialize(tlsCfg config.TLSConfig, proxyURL string) {
	if c.transport != nil {
		c.httpClient = &http.Client{
			Transport: c.transport,
			Timeout:   c.timeout,
		}
		return
	}

	transport := &http.Transport{}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg.BuildTLSConfig()
	}
	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}

	pURL := parseProxyURL(proxyURL)
	if pURL == nil {
		return
	}

	dialer, err := util.NewDialer(pURL)
	if err != nil {
		log.Errorf("Error creating the proxy dialer; creating a non-proxy client: %s", err.Error())
		return
	}
	c.dialer = dialer
	transport.DialContext = c.httpDialer
}

func (c *httpClient) httpDialer(ctx context.Context, network, addr string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, network, addr)
}

func (c *httpClient) getURLEncodedQueryParams(queryParams map[string]string) string {
	params := url.Values{}
	for key, value := range queryParams {
		params.Add(key, value)
	}
	return params.Encode()
}

func (c *httpClient) prepareAPIRequest(ctx context.Context, request Request) (*http.Request, error) {
	requestURL := request.URL
	if len(request.QueryParams) != 0 {
		separator := "?"
		if strings.Contains(requestURL, "?") {
			separator = "&"
		}
		requestURL += separator + c.getURLEncodedQueryParams(request.QueryParams)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, requestURL, bytes.NewReader(request.Body))
	if err != nil {
		return nil, err
	}

	hasUserAgentHeader := false
	for key, value := range request.Headers {
		req.Header.Set(key, value)
		if strings.EqualFold(key, "user-agent") {
			hasUserAgentHeader = true
		}
	}
	if !hasUserAgentHeader && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Send - send the http request and returns the API Response
func (c *httpClient) Send(ctx context.Context, request Request) (*Response, error) {
	startTime := time.Now()

	req, err := c.prepareAPIRequest(ctx, request)
	if err != nil {
		log.Errorf("Error preparing api request: %s", err.Error())
		return nil, err
	}
	reqID := uuid.New().String()

	// Logging for the HTTP request
	statusCode := 0
	receivedData := int64(0)
	defer func() {
		logger := c.logger.
			WithField("id", reqID).
			WithField("method", req.Method).
			WithField("status", statusCode).
			WithField("duration(ms)", time.Since(startTime).Milliseconds()).
			WithField("url", req.URL.String())

		if req.ContentLength > 0 {
			logger = logger.WithField("sent(bytes)", req.ContentLength)
		}

		if receivedData > 0 {
			logger = logger.WithField("received(bytes)", receivedData)
		}

		if err != nil {
			logger.WithError(err).
				Trace("request failed")
		} else {
			logger.Trace("request succeeded")
		}
	}()

	if log.IsHTTPLogTraceEnabled() {
		req = log.NewRequestWithTraceContext(reqID, req)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	statusCode = res.StatusCode
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	receivedData = int64(len(body))

	return &Response{
		Code:    res.StatusCode,
		Body:    body,
		Headers: res.Header,
	}, nil
}
