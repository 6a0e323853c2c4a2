package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
)

// MockHTTPClient - use for mocking the HTTP client
type MockHTTPClient struct {
	Response      *Response // this for if you want to set your own dummy response
	ResponseCode  int       // this for if you only care about a particular response code
	ResponseError error

	RespCount int
	Responses []MockResponse
	Requests  []Request // lists all requests the client has received
	sync.Mutex
}

// MockResponse - use for mocking the MockHTTPClient responses
type MockResponse struct {
	FileName  string
	RespData  string
	RespCode  int
	Headers   map[string][]string
	ErrString string
}

// SetResponse -
// if you care about the response content and the code, pass both in
// if you only care about the code, pass "" for the filepath
func (c *MockHTTPClient) SetResponse(filepath string, code int) {
	var dat []byte
	if filepath != "" {
		var err error
		dat, err = os.ReadFile(filepath)
		if err != nil {
			c.ResponseCode = http.StatusInternalServerError
			return
		}
	}

	c.Response = &Response{
		Code:    code,
		Body:    dat,
		Headers: map[string][]string{},
	}
}

// SetResponses - responses handed out in order, one per request
func (c *MockHTTPClient) SetResponses(responses []MockResponse) {
	c.Lock()
	defer c.Unlock()
	c.RespCount = 0
	c.Responses = responses
}

// Send -
func (c *MockHTTPClient) Send(ctx context.Context, request Request) (*Response, error) {
	c.Lock()
	defer c.Unlock()

	c.Requests = append(c.Requests, request)
	log.Tracef("mock client received %v - %v", request.Method, request.URL)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.Responses) > 0 {
		return c.sendMultiple(request)
	}
	if c.ResponseError != nil {
		return nil, c.ResponseError
	}
	if c.Response != nil {
		return c.Response, nil
	}
	if c.ResponseCode != 0 {
		return &Response{
			Code: c.ResponseCode,
		}, nil
	}
	return nil, nil
}

func (c *MockHTTPClient) sendMultiple(request Request) (*Response, error) {
	if c.RespCount >= len(c.Responses) {
		err := fmt.Errorf("error: received more requests than saved responses. failed on request: %s", request.URL)
		log.Error(err)
		return nil, err
	}

	mock := c.Responses[c.RespCount]
	c.RespCount++

	dat := []byte(mock.RespData)
	if mock.FileName != "" {
		var err error
		dat, err = os.ReadFile(mock.FileName)
		if err != nil {
			return nil, err
		}
	}

	headers := mock.Headers
	if headers == nil {
		headers = map[string][]string{}
	}

	if mock.ErrString != "" {
		return nil, errors.New(mock.ErrString)
	}
	return &Response{
		Code:    mock.RespCode,
		Body:    dat,
		Headers: headers,
	}, nil
}
