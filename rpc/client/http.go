// Package client provides methods to do http GET / POST request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout       = 60 // seconds
	maxReadContentLength = 1024 * 1024 * 10
)

var (
	// HTTPClient the http client used by all requests
	HTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 50,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// DefaultTimeout default request timeout in seconds
	DefaultTimeout = defaultTimeout
)

// JoinURLPath join base url and path
func JoinURLPath(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// HTTPGetWithContext http get with context
func HTTPGetWithContext(ctx context.Context, reqURL string, params, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	addParams(req, params)
	addHeaders(req, headers)
	return doRequest(ctx, req)
}

// HTTPPostWithContext http post with context, body is json marshaled unless it is []byte or string
func HTTPPostWithContext(ctx context.Context, reqURL string, body interface{}, params, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	addParams(req, params)
	addHeaders(req, headers)
	return doRequest(ctx, req)
}

func doRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(DefaultTimeout)*time.Second)
		resp, err := HTTPClient.Do(req.WithContext(timeoutCtx))
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return HTTPClient.Do(req)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func addParams(req *http.Request, params map[string]string) {
	if len(params) == 0 {
		return
	}
	q := url.Values{}
	for key, val := range params {
		q.Add(key, val)
	}
	req.URL.RawQuery = q.Encode()
}

func addHeaders(req *http.Request, headers map[string]string) {
	for key, val := range headers {
		req.Header.Add(key, val)
	}
}

// ReadBody read limited response body, fails on non 2xx status
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadContentLength))
	if err != nil {
		return nil, fmt.Errorf("read body error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode, string(body))
	}
	return body, nil
}
