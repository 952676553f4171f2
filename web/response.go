// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/ooneex/eagle-sub001/cookie"
)

// Content types written by [Response] helpers.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Body is the JSON body written by [Response.Envelope].
type Body struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	State   State  `json:"state"`
}

// State reports the outcome of a request in an envelope body.
type State struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// Response is a buffered HTTP response. Nothing reaches the client until
// [Response.WriteTo] is called, so middlewares may rewrite any part of it.
type Response struct {
	logger  *slog.Logger
	status  int
	header  http.Header
	body    []byte
	cookies []*cookie.Cookie
}

// NewResponse creates an empty 200 response. logger receives warnings about
// dropped cookies; nil discards them.
func NewResponse(logger *slog.Logger) *Response {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Response{
		logger: logger,
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Status returns the status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus sets the status code.
func (r *Response) SetStatus(code int) *Response {
	r.status = code
	return r
}

// Header returns the response headers.
func (r *Response) Header() http.Header {
	return r.header
}

// Body returns the buffered body.
func (r *Response) Body() []byte {
	return r.body
}

// SetBody replaces the body.
func (r *Response) SetBody(body []byte) *Response {
	r.body = body
	return r
}

// JSON encodes v as the body with the given status.
// Nothing is changed when encoding fails.
func (r *Response) JSON(code int, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("JSON encoding failed for type %T: %w", v, err)
	}

	r.header.Set("Content-Type", ContentTypeJSON)
	r.status = code
	r.body = data

	return r, nil
}

// Envelope writes {message, data, state:{success, status}}. success is true
// for status codes below 400.
func (r *Response) Envelope(code int, message string, data any) (*Response, error) {
	return r.JSON(code, Body{
		Message: message,
		Data:    data,
		State: State{
			Success: code < http.StatusBadRequest,
			Status:  code,
		},
	})
}

// Text writes a plain text body.
func (r *Response) Text(code int, s string) *Response {
	return r.Bytes(code, ContentTypeText, []byte(s))
}

// HTML writes an HTML body.
func (r *Response) HTML(code int, s string) *Response {
	return r.Bytes(code, ContentTypeHTML, []byte(s))
}

// Bytes writes data with the given content type.
func (r *Response) Bytes(code int, contentType string, data []byte) *Response {
	r.header.Set("Content-Type", contentType)
	r.status = code
	r.body = data

	return r
}

// Redirect sets the Location header and a 3xx status.
func (r *Response) Redirect(code int, location string) *Response {
	r.header.Set("Location", location)
	r.status = code
	r.body = nil

	return r
}

// NoContent clears the body and sets 204.
func (r *Response) NoContent() *Response {
	r.header.Del("Content-Type")
	r.status = http.StatusNoContent
	r.body = nil

	return r
}

// SetCookie adds c to the response. Invalid cookies, including name-prefix
// violations, are dropped with a warning and SetCookie returns false.
// A cookie with the same name, domain and path replaces the earlier one.
func (r *Response) SetCookie(c *cookie.Cookie) bool {
	if err := c.Validate(); err != nil {
		r.logger.Warn("cookie dropped", "name", c.Name, "error", err)
		return false
	}

	r.cookies = slices.DeleteFunc(r.cookies, func(existing *cookie.Cookie) bool {
		return existing.Name == c.Name && existing.Domain == c.Domain && existing.Path == c.Path
	})
	r.cookies = append(r.cookies, c)

	return true
}

// DeleteCookie instructs the client to remove the cookie name at path.
func (r *Response) DeleteCookie(name, path string) bool {
	return r.SetCookie(&cookie.Cookie{Name: name, Path: path, MaxAge: -1})
}

// Cookies returns the cookies that will be sent.
func (r *Response) Cookies() []*cookie.Cookie {
	return slices.Clone(r.cookies)
}

// WriteTo writes the response to w. Cookies are sent as Set-Cookie headers.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	header := w.Header()
	for key, values := range r.header {
		header[key] = slices.Clone(values)
	}
	for _, c := range r.cookies {
		header.Add("Set-Cookie", c.String())
	}
	if r.body != nil && header.Get("Content-Length") == "" {
		header.Set("Content-Length", strconv.Itoa(len(r.body)))
	}

	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	if _, err := bytes.NewReader(r.body).WriteTo(w); err != nil {
		return fmt.Errorf("write response body: %w", err)
	}

	return nil
}
