package mocks

import (
	"bytes"
	"io"
	"net/http"
)

// RoundTripFunc allows us to easily mock HTTP responses
type RoundTripFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements the http.RoundTripper interface
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewHTTPClientMock creates a new HTTP client with a mock transport
func NewHTTPClientMock(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

// NewHTTPResponse creates a new HTTP response with specified status code and body
func NewHTTPResponse(req *http.Request, statusCode int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}
}

// HTTPClientConnectionErrorMock returns a mock HTTP client whose transport fails with err
func HTTPClientConnectionErrorMock(err error) *http.Client {
	return NewHTTPClientMock(func(*http.Request) (*http.Response, error) {
		return nil, err
	})
}

// HTTPClientWithStatusMock returns a mock HTTP client that returns the given status code
func HTTPClientWithStatusMock(status int, body []byte) *http.Client {
	return NewHTTPClientMock(func(req *http.Request) (*http.Response, error) {
		return NewHTTPResponse(req, status, body), nil
	})
}
