/*
 * Transport - performs one HTTP request for the driver.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package driver

//go:generate mockgen -destination=mock_driver/transport.go -package=mock_driver node-dns-drivers/internal/driver Transport

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Transport performs a single request. TLS, timeouts and connection reuse
// belong to the implementation.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// File is a file sent as part of a multipart request.
type File struct {
	Param  string
	Name   string
	Reader io.Reader
}

// Request is a transport-level request.
type Request struct {
	Scheme  string
	Host    string
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	// JSON encoded body.
	Body []byte
	// Form fields. Sent url-encoded, or as multipart fields when Files is
	// not empty.
	Form  url.Values
	Files []File
}

// SetHeader sets a header on the request.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	r.Headers.Set(key, value)
}

// SetQuery sets a query parameter on the request.
func (r *Request) SetQuery(key, value string) {
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Set(key, value)
}

// URL returns the full URL of the request.
func (r *Request) URL() string {
	u := url.URL{
		Scheme:   r.Scheme,
		Host:     r.Host,
		Path:     r.Path,
		RawQuery: r.Query.Encode(),
	}
	return u.String()
}

// Response is a transport-level response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPTransport is the default Transport, based on resty.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport creates a transport using the given HTTP client. A nil
// client selects a default one.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	var client *resty.Client
	if hc != nil {
		client = resty.NewWithClient(hc)
	} else {
		client = resty.New()
	}
	client.SetLogger(log.StandardLogger())
	return &HTTPTransport{client: client}
}

// Do performs the request.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	r := t.client.R().SetContext(ctx)
	for k, values := range req.Headers {
		for _, v := range values {
			r.Header.Add(k, v)
		}
	}
	if len(req.Files) > 0 {
		for _, f := range req.Files {
			r.SetFileReader(f.Param, f.Name, f.Reader)
		}
		r.SetFormDataFromValues(req.Form)
	} else if len(req.Form) > 0 {
		r.SetFormDataFromValues(req.Form)
	} else if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	u := url.URL{Scheme: req.Scheme, Host: req.Host, Path: req.Path}
	r.SetQueryParamsFromValues(req.Query)

	resp, err := r.Execute(req.Method, u.String())
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
